package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leitstand/unitmap/internal/models"
	"github.com/leitstand/unitmap/internal/service"
)

type OverrideRepository struct {
	db *pgxpool.Pool
}

func NewOverrideRepository(db *pgxpool.Pool) service.OverrideRepository {
	return &OverrideRepository{db: db}
}

// List returns all current manual overrides.
func (r *OverrideRepository) List(ctx context.Context) ([]models.ManualOverride, error) {
	query := `
		SELECT vehicle_id, lat, lng, COALESCE(incident_id, ''), source, updated_at
		FROM vehicle_overrides;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicle overrides: %w", err)
	}
	defer rows.Close()

	overrides := make([]models.ManualOverride, 0)
	for rows.Next() {
		var ov models.ManualOverride
		if err := rows.Scan(&ov.VehicleID, &ov.Lat, &ov.Lng, &ov.IncidentID, &ov.Source, &ov.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan override row: %w", err)
		}
		overrides = append(overrides, ov)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overrides: %w", err)
	}
	return overrides, nil
}

// Set upserts the override for a vehicle; the latest drag wins.
func (r *OverrideRepository) Set(ctx context.Context, ov models.ManualOverride) error {
	query := `
		INSERT INTO vehicle_overrides (vehicle_id, lat, lng, incident_id, source, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NOW())
		ON CONFLICT (vehicle_id) DO UPDATE SET
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			incident_id = EXCLUDED.incident_id,
			source = EXCLUDED.source,
			updated_at = NOW();
	`
	if _, err := r.db.Exec(ctx, query, ov.VehicleID, ov.Lat, ov.Lng, ov.IncidentID, ov.Source); err != nil {
		return fmt.Errorf("failed to set vehicle override: %w", err)
	}
	return nil
}

// Clear removes the override. Removing a non-existent override is fine.
func (r *OverrideRepository) Clear(ctx context.Context, vehicleID string) error {
	query := `DELETE FROM vehicle_overrides WHERE vehicle_id = $1;`
	if _, err := r.db.Exec(ctx, query, vehicleID); err != nil {
		return fmt.Errorf("failed to clear vehicle override: %w", err)
	}
	return nil
}
