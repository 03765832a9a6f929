package domain

import "time"

// Doctor lifecycle statuses. A profile is created pending and an
// administrator moves it to approved or rejected; no further transitions.
const (
	DoctorStatusPending  = "pending"
	DoctorStatusApproved = "approved"
	DoctorStatusRejected = "rejected"
)

// Doctor is a profile record linked to exactly one user account via UserID.
// It is not deleted together with its user.
type Doctor struct {
	DoctorID   string    `json:"id" dynamodbav:"doctor_id"`
	UserID     string    `json:"user_id" dynamodbav:"user_id"`
	FirstName  string    `json:"first_name" dynamodbav:"first_name"`
	LastName   string    `json:"last_name" dynamodbav:"last_name"`
	Email      string    `json:"email" dynamodbav:"email"`
	Phone      string    `json:"phone" dynamodbav:"phone"`
	Website    string    `json:"website" dynamodbav:"website"`
	Address    string    `json:"address" dynamodbav:"address"`
	Specialty  string    `json:"specialty" dynamodbav:"specialty"`
	Experience string    `json:"experience" dynamodbav:"experience"`
	Fee        int       `json:"fee" dynamodbav:"fee"`
	// Working-hour slots as supplied by the doctor, e.g. ["09:00", "17:00"].
	// Kept unstructured; availability is decided against appointments, not
	// against these slots.
	Timings   []string  `json:"timings" dynamodbav:"timings"`
	Status    string    `json:"status" dynamodbav:"status"`
	PhotoKey  string    `json:"photo_key,omitempty" dynamodbav:"photo_key"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// FullName joins first and last name for display and notifications.
func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}

type ApplyDoctorRequest struct {
	UserID     string   `json:"user_id" validate:"required"`
	FirstName  string   `json:"first_name" validate:"required"`
	LastName   string   `json:"last_name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone" validate:"required"`
	Website    string   `json:"website"`
	Address    string   `json:"address" validate:"required"`
	Specialty  string   `json:"specialty" validate:"required"`
	Experience string   `json:"experience" validate:"required"`
	Fee        int      `json:"fee" validate:"required,min=0"`
	Timings    []string `json:"timings" validate:"required"`
}

type UpdateDoctorRequest struct {
	FirstName  *string  `json:"first_name"`
	LastName   *string  `json:"last_name"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	Phone      *string  `json:"phone"`
	Website    *string  `json:"website"`
	Address    *string  `json:"address"`
	Specialty  *string  `json:"specialty"`
	Experience *string  `json:"experience"`
	Fee        *int     `json:"fee" validate:"omitempty,min=0"`
	Timings    []string `json:"timings"`
}
