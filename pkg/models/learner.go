package models

import "time"

// Learner is a chat participant drilling one domain at a time
type Learner struct {
	ChatID              int64     `json:"chat_id" db:"chat_id"`
	Username            string    `json:"username" db:"username"`
	ActiveDomain        string    `json:"active_domain" db:"active_domain"`         // "chinese", "math" or "english"
	NotificationHour    int       `json:"notification_hour" db:"notification_hour"` // Hour of day for reminders (0-23)
	NotificationEnabled bool      `json:"notification_enabled" db:"notification_enabled"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}
