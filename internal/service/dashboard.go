package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/sa-matric/connect/internal/events"
	"github.com/sa-matric/connect/internal/logging"
	"github.com/sa-matric/connect/internal/models"
	"github.com/sa-matric/connect/internal/repo"
)

const (
	recentActivityLimit   = 5
	upcomingDeadlineLimit = 5
)

type DashboardService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
}

type DeadlineView struct {
	models.Deadline
	DaysLeft int `json:"daysLeft"`
}

type Summary struct {
	Stats             *repo.ApplicationStats `json:"stats"`
	RecentActivity    []models.ActivityEntry `json:"recentActivity"`
	UpcomingDeadlines []DeadlineView         `json:"upcomingDeadlines"`
}

// GetSummary composes the three dashboard reads. Any failing query fails
// the whole summary; there is no partial result.
func (s *DashboardService) GetSummary(ctx context.Context, userID uint) (*Summary, error) {
	stats, err := s.Repo.CountApplications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting applications: %w", err)
	}

	activity, err := s.Repo.RecentActivity(ctx, userID, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("loading recent activity: %w", err)
	}

	deadlines, err := s.Repo.UpcomingDeadlines(ctx, upcomingDeadlineLimit)
	if err != nil {
		return nil, fmt.Errorf("loading deadlines: %w", err)
	}

	views := make([]DeadlineView, len(deadlines))
	now := time.Now()
	for i, d := range deadlines {
		views[i] = DeadlineView{
			Deadline: d,
			DaysLeft: int(math.Ceil(d.DueAt.Sub(now).Hours() / 24)),
		}
	}

	return &Summary{
		Stats:             stats,
		RecentActivity:    activity,
		UpcomingDeadlines: views,
	}, nil
}

func (s *DashboardService) ListApplications(ctx context.Context, userID uint) ([]models.Application, error) {
	return s.Repo.ListApplications(ctx, userID)
}

// SetApplicationStatus marks the application completed or pending and
// appends one activity entry. The update is a single guarded statement;
// a miss (absent or foreign application) reports ErrNotFound and writes
// no activity.
func (s *DashboardService) SetApplicationStatus(ctx context.Context, userID, appID uint, completed bool) error {
	l := logging.FromContext(ctx).With("svc", "dashboard.set_status", "application_id", appID)

	status := models.StatusPending
	if completed {
		status = models.StatusCompleted
	}

	found, err := s.Repo.UpdateApplicationStatus(ctx, userID, appID, status)
	if err != nil {
		return fmt.Errorf("updating application: %w", err)
	}
	if !found {
		l.Warn("update_skipped", "reason", "application absent or not owned")
		return ErrNotFound
	}

	entry := &models.ActivityEntry{
		UserID: userID,
		Action: fmt.Sprintf("Updated application %d", appID),
		Status: status,
	}
	if err := s.Repo.AppendActivity(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}

	event := map[string]any{
		"type":           "application_updated",
		"user_id":        userID,
		"application_id": appID,
		"status":         status,
	}
	if err := s.Producer.Publish(ctx, events.TopicApplicationEvents, strconv.FormatUint(uint64(appID), 10), event); err != nil {
		l.Warn("event_publish_failed", "type", "application_updated", "error", err)
	}

	l.Info("update_successful", "status", status)
	return nil
}
