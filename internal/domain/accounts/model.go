package accounts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// Account is a user identity with exactly one role. Patients additionally
// carry an MRN, assigned once at registration and never mutated afterward.
type Account struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           string    `db:"role" json:"role"`
	MRN            *string   `db:"mrn" json:"mrn,omitempty"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// FormatMRN renders a medical record number as PREFIX-YYYY-NNNN. The sequence
// is zero-padded to four digits and simply widens beyond 9999.
func FormatMRN(prefix, year string, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, year, seq)
}
