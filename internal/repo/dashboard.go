package repo

import (
	"context"
	"time"

	"github.com/sa-matric/connect/internal/models"
)

type ApplicationStats struct {
	Total     int64 `json:"totalApplications"`
	Completed int64 `json:"completedApplications"`
	Pending   int64 `json:"pendingApplications"`
	Bursary   int64 `json:"bursaryApplications"`
}

func (r *GormRepo) CountApplications(ctx context.Context, userID uint) (*ApplicationStats, error) {
	var stats ApplicationStats
	err := r.DB.WithContext(ctx).
		Model(&models.Application{}).
		Select(`COUNT(*) AS total,
			COUNT(CASE WHEN status = 'completed' THEN 1 END) AS completed,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending,
			COUNT(CASE WHEN type = 'bursary' THEN 1 END) AS bursary`).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *GormRepo) ListApplications(ctx context.Context, userID uint) ([]models.Application, error) {
	var apps []models.Application
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateApplicationStatus flips the status of an application the user owns.
// The ownership guard lives in the WHERE clause so a foreign id can never
// mutate another user's row; callers learn about a miss through found=false.
func (r *GormRepo) UpdateApplicationStatus(ctx context.Context, userID, appID uint, status string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND user_id = ?", appID, userID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) AppendActivity(ctx context.Context, entry *models.ActivityEntry) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

func (r *GormRepo) RecentActivity(ctx context.Context, userID uint, limit int) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
