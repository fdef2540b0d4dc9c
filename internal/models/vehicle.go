package models

// Vehicle is a roster entry. The roster is owned by the fleet service and
// read-only here.
type Vehicle struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Home     string `json:"home_location"`
	CrewSize int    `json:"crew_size"`
}
