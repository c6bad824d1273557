package repo

import (
	"context"
	"time"

	"github.com/sa-matric/connect/internal/models"
)

func (r *GormRepo) UpcomingDeadlines(ctx context.Context, limit int) ([]models.Deadline, error) {
	var deadlines []models.Deadline
	err := r.DB.WithContext(ctx).
		Where("due_at > ?", time.Now()).
		Order("due_at ASC").
		Limit(limit).
		Find(&deadlines).Error
	if err != nil {
		return nil, err
	}
	return deadlines, nil
}

// AllDeadlines feeds the search index at startup.
func (r *GormRepo) AllDeadlines(ctx context.Context) ([]models.Deadline, error) {
	var deadlines []models.Deadline
	if err := r.DB.WithContext(ctx).Find(&deadlines).Error; err != nil {
		return nil, err
	}
	return deadlines, nil
}
