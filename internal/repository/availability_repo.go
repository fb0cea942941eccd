package repository

import (
	"context"

	"github.com/Sourabh-codesjava/Talent-Tandem/internal/models"
)

type AvailabilityRepository struct {
	db DBTX
}

func NewAvailabilityRepository(db DBTX) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) GetByUserID(ctx context.Context, userID int64) (*models.Availability, error) {
	query := `
		SELECT id, user_id, day_of_week, start_time, end_time
		FROM availabilities
		WHERE user_id = $1
	`
	var a models.Availability
	err := r.db.QueryRow(ctx, query, userID).Scan(&a.ID, &a.UserID, &a.DayOfWeek, &a.StartTime, &a.EndTime)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AvailabilityRepository) Upsert(ctx context.Context, a *models.Availability) error {
	query := `
		INSERT INTO availabilities (user_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET day_of_week = EXCLUDED.day_of_week, start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, a.UserID, a.DayOfWeek, a.StartTime, a.EndTime).Scan(&a.ID)
}
