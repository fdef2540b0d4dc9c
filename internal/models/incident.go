package models

import "time"

// Board column keys. The map only renders incidents from the active columns.
const (
	StatusNew        = "neu"
	StatusInProgress = "in-bearbeitung"
	StatusDone       = "erledigt"
)

// Incident is a board card. Coordinates are optional: cards created from a
// free-text address stay without coordinates until the geocoding collaborator
// fills them in. AssignedVehicleIDs is unique system-wide per vehicle; that
// invariant is enforced by the assignment service, not re-checked here.
type Incident struct {
	ID                 string    `json:"id"`
	Content            string    `json:"content"`
	Status             string    `json:"status"`
	Latitude           *float64  `json:"latitude,omitempty"`
	Longitude          *float64  `json:"longitude,omitempty"`
	Alerted            string    `json:"alerted,omitempty"`
	AssignedVehicleIDs []string  `json:"assigned_vehicle_ids"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// HasCoordinates reports whether the card carries a usable position.
func (i *Incident) HasCoordinates() bool {
	return i.Latitude != nil && i.Longitude != nil
}
