package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/drillbot/pkg/models"
)

// ErrLearnerNotFound is returned when no learner has the requested chat ID.
var ErrLearnerNotFound = errors.New("learner not found")

// LearnerRepository handles database operations for learners
type LearnerRepository struct {
	db *sqlx.DB
}

// NewLearnerRepository creates a new repository instance
func NewLearnerRepository(db *sqlx.DB) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// GetByChatID returns a learner by chat ID
func (r *LearnerRepository) GetByChatID(ctx context.Context, chatID int64) (*models.Learner, error) {
	var learner models.Learner
	err := r.db.GetContext(ctx, &learner, r.db.Rebind("SELECT * FROM learners WHERE chat_id = ?"), chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrLearnerNotFound, "chat %d", chatID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get learner %d", chatID)
	}
	return &learner, nil
}

// Upsert creates the learner or refreshes its username. Settings of an
// existing learner are kept.
func (r *LearnerRepository) Upsert(ctx context.Context, learner *models.Learner) error {
	query := r.db.Rebind(`
		INSERT INTO learners (chat_id, username, active_domain, notification_hour, notification_enabled)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (chat_id) DO UPDATE SET
			username = excluded.username,
			updated_at = CURRENT_TIMESTAMP
	`)
	_, err := r.db.ExecContext(ctx, query,
		learner.ChatID,
		learner.Username,
		learner.ActiveDomain,
		learner.NotificationHour,
		learner.NotificationEnabled,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to upsert learner %d", learner.ChatID)
	}
	return nil
}

// SetActiveDomain records the domain a learner is drilling
func (r *LearnerRepository) SetActiveDomain(ctx context.Context, chatID int64, domain string) error {
	return r.update(ctx, chatID, "active_domain", domain)
}

// SetNotificationHour sets the hour of day for reminders
func (r *LearnerRepository) SetNotificationHour(ctx context.Context, chatID int64, hour int) error {
	if hour < 0 || hour > 23 {
		return errors.Errorf("notification hour %d out of range", hour)
	}
	return r.update(ctx, chatID, "notification_hour", hour)
}

// SetNotificationEnabled turns reminders on or off
func (r *LearnerRepository) SetNotificationEnabled(ctx context.Context, chatID int64, enabled bool) error {
	return r.update(ctx, chatID, "notification_enabled", enabled)
}

// GetForNotification returns learners with reminders enabled at hour
func (r *LearnerRepository) GetForNotification(ctx context.Context, hour int) ([]models.Learner, error) {
	var learners []models.Learner
	query := r.db.Rebind(`
		SELECT * FROM learners
		WHERE notification_enabled = ? AND notification_hour = ? AND active_domain <> ''
		ORDER BY chat_id ASC
	`)
	if err := r.db.SelectContext(ctx, &learners, query, true, hour); err != nil {
		return nil, errors.Wrap(err, "failed to get learners for notification")
	}
	return learners, nil
}

// update sets one column; column names come from this file only.
func (r *LearnerRepository) update(ctx context.Context, chatID int64, column string, value interface{}) error {
	query := r.db.Rebind("UPDATE learners SET " + column + " = ?, updated_at = CURRENT_TIMESTAMP WHERE chat_id = ?")
	result, err := r.db.ExecContext(ctx, query, value, chatID)
	if err != nil {
		return errors.Wrapf(err, "failed to update %s for learner %d", column, chatID)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return errors.Wrapf(ErrLearnerNotFound, "chat %d", chatID)
	}
	return nil
}
