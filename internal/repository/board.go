package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leitstand/unitmap/internal/models"
	"github.com/leitstand/unitmap/internal/service"
)

type BoardRepository struct {
	db *pgxpool.Pool
}

func NewBoardRepository(db *pgxpool.Pool) service.BoardRepository {
	return &BoardRepository{db: db}
}

// ListActiveIncidents returns the cards from the "neu" and "in-bearbeitung"
// columns together with their assigned vehicle ids. Ordered by id so the
// inverted vehicle index built from the result is deterministic.
func (r *BoardRepository) ListActiveIncidents(ctx context.Context) ([]*models.Incident, error) {
	query := `
		SELECT id, content, status, latitude, longitude, alerted, created_at, updated_at
		FROM incidents
		WHERE status IN ($1, $2)
		ORDER BY id;
	`
	rows, err := r.db.Query(ctx, query, models.StatusNew, models.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to list active incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	byID := make(map[string]*models.Incident)
	for rows.Next() {
		inc := &models.Incident{}
		err := rows.Scan(
			&inc.ID,
			&inc.Content,
			&inc.Status,
			&inc.Latitude,
			&inc.Longitude,
			&inc.Alerted,
			&inc.CreatedAt,
			&inc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, inc)
		byID[inc.ID] = inc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incidents: %w", err)
	}

	if err := r.attachAssignments(ctx, byID); err != nil {
		return nil, err
	}
	return incidents, nil
}

// GetIncident returns a single card with its assignments, regardless of
// column.
func (r *BoardRepository) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	inc := &models.Incident{}
	query := `
		SELECT id, content, status, latitude, longitude, alerted, created_at, updated_at
		FROM incidents
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&inc.ID,
		&inc.Content,
		&inc.Status,
		&inc.Latitude,
		&inc.Longitude,
		&inc.Alerted,
		&inc.CreatedAt,
		&inc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}

	if err := r.attachAssignments(ctx, map[string]*models.Incident{inc.ID: inc}); err != nil {
		return nil, err
	}
	return inc, nil
}

func (r *BoardRepository) attachAssignments(ctx context.Context, byID map[string]*models.Incident) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
		SELECT incident_id, vehicle_id
		FROM incident_vehicles
		WHERE incident_id = ANY($1)
		ORDER BY incident_id, vehicle_id;
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load incident assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var incidentID, vehicleID string
		if err := rows.Scan(&incidentID, &vehicleID); err != nil {
			return fmt.Errorf("failed to scan assignment row: %w", err)
		}
		if inc, ok := byID[incidentID]; ok {
			inc.AssignedVehicleIDs = append(inc.AssignedVehicleIDs, vehicleID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating assignments: %w", err)
	}
	return nil
}
