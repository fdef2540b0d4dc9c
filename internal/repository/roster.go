package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leitstand/unitmap/internal/models"
	"github.com/leitstand/unitmap/internal/service"
)

type RosterRepository struct {
	db *pgxpool.Pool
}

func NewRosterRepository(db *pgxpool.Pool) service.RosterRepository {
	return &RosterRepository{db: db}
}

// ListVehicles returns the full roster. The roster is imported by the fleet
// service; this repository never writes it.
func (r *RosterRepository) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	query := `
		SELECT id, label, home_location, crew_size
		FROM vehicles
		ORDER BY id;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*models.Vehicle, 0)
	for rows.Next() {
		v := &models.Vehicle{}
		if err := rows.Scan(&v.ID, &v.Label, &v.Home, &v.CrewSize); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vehicles: %w", err)
	}
	return vehicles, nil
}
