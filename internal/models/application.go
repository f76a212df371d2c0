package models

import "time"

// WatchedApplication is the last status the watcher reported for an application.
type WatchedApplication struct {
	UserID        int64     `db:"user_id"`
	ApplicationID string    `db:"application_id"`
	Status        string    `db:"status"`
	JobTitle      string    `db:"job_title"`
	SeenAt        time.Time `db:"seen_at"`
}

// StatusChange is produced by diffing fresh applications against watched ones.
type StatusChange struct {
	ApplicationID string
	JobTitle      string
	From          string
	To            string
}
