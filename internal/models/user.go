package models

import "time"

type User struct {
	ID           int64      `db:"id"`
	Username     *string    `db:"username"`
	FirstName    *string    `db:"first_name"`
	LastName     *string    `db:"last_name"`
	CreatedAt    time.Time  `db:"created_at"`
	LastCheck    *time.Time `db:"last_check"`
	WatchEnabled bool       `db:"watch_enabled"`
	IsPremium    bool       `db:"is_premium"`
}

// UserFilter is one saved job search filter, restored into the jobs store
// when the candidate's workspace is opened.
type UserFilter struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	FilterType  string    `db:"filter_type"`
	FilterValue string    `db:"filter_value"`
	CreatedAt   time.Time `db:"created_at"`
}

const (
	FilterTypeSearch         = "search"
	FilterTypeEmploymentType = "employment_type"
	FilterTypeWorkModel      = "work_model"
	FilterTypeLocation       = "location"
	FilterTypeMinSalary      = "min_salary"
	FilterTypeMaxSalary      = "max_salary"
	FilterTypeCompany        = "company_id"
)
