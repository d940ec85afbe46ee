package domain

import (
	"strings"
	"time"
)

// ServiceUser is a resident receiving care (service_users table).
// A service user belongs to exactly one care home; deleting the home
// cascades to its service users.
type ServiceUser struct {
	// Primary key
	ServiceUserID string `db:"service_user_id"` // UUID, PRIMARY KEY

	CareHomeID string `db:"carehome_id"` // UUID, NOT NULL, FK to carehomes ON DELETE CASCADE

	FirstName string `db:"first_name"` // VARCHAR(100), NOT NULL
	LastName  string `db:"last_name"`  // VARCHAR(100), NOT NULL

	Phone            string `db:"phone"`             // VARCHAR(20), NOT NULL
	Email            string `db:"email"`             // VARCHAR(254), nullable
	EmergencyContact string `db:"emergency_contact"` // VARCHAR(20), NOT NULL
	Address          string `db:"address"`           // TEXT, NOT NULL
	Notes            string `db:"notes"`             // TEXT, nullable

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
}

// FormattedName returns "First Last (FL)" for shift-log headers.
func (u *ServiceUser) FormattedName() string {
	initials := ""
	if u.FirstName != "" {
		initials += strings.ToUpper(u.FirstName[:1])
	}
	if u.LastName != "" {
		initials += strings.ToUpper(u.LastName[:1])
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if initials == "" {
		return name
	}
	return name + " (" + initials + ")"
}
