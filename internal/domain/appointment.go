package domain

import "time"

// AppointmentStatusPending is the only status this layer ever assigns itself.
// Status changes after booking carry whatever string the doctor sent; the
// field is deliberately not an enumeration here.
const AppointmentStatusPending = "pending"

// DoctorSnapshot is a copy of the doctor's info taken at booking time.
// It is stored independently of the live Doctor record: later profile edits
// do not retroactively change booked appointments.
type DoctorSnapshot struct {
	DoctorID  string `json:"id" dynamodbav:"doctor_id"`
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	FirstName string `json:"first_name" dynamodbav:"first_name"`
	LastName  string `json:"last_name" dynamodbav:"last_name"`
	Specialty string `json:"specialty" dynamodbav:"specialty"`
	Fee       int    `json:"fee" dynamodbav:"fee"`
}

// UserSnapshot is a copy of the patient's info taken at booking time.
type UserSnapshot struct {
	UserID string `json:"id" dynamodbav:"user_id"`
	Name   string `json:"name" dynamodbav:"name"`
	Email  string `json:"email" dynamodbav:"email"`
}

// Appointment links a patient and a doctor by id and carries snapshots of
// both parties as supplied at booking time. Date and Time are independently
// normalized instants (calendar day at UTC midnight, clock time on the
// layout reference day) and are never combined into one datetime.
type Appointment struct {
	AppointmentID string         `json:"id" dynamodbav:"appointment_id"`
	DoctorID      string         `json:"doctor_id" dynamodbav:"doctor_id"`
	UserID        string         `json:"user_id" dynamodbav:"user_id"`
	DoctorInfo    DoctorSnapshot `json:"doctor_info" dynamodbav:"doctor_info"`
	UserInfo      UserSnapshot   `json:"user_info" dynamodbav:"user_info"`
	Date          time.Time      `json:"date" dynamodbav:"date"`
	Time          time.Time      `json:"time" dynamodbav:"time"`
	Status        string         `json:"status" dynamodbav:"status"`
	CreatedAt     time.Time      `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time      `json:"updated" dynamodbav:"updated_at"`
}

type BookAppointmentRequest struct {
	DoctorID   string         `json:"doctor_id" validate:"required"`
	UserID     string         `json:"user_id" validate:"required"`
	DoctorInfo DoctorSnapshot `json:"doctor_info" validate:"required"`
	UserInfo   UserSnapshot   `json:"user_info" validate:"required"`
	Date       string         `json:"date" validate:"required"` // DD-MM-YYYY
	Time       string         `json:"time" validate:"required"` // HH:mm
}

type CheckAvailabilityRequest struct {
	DoctorID string `json:"doctor_id" validate:"required"`
	Date     string `json:"date" validate:"required"` // DD-MM-YYYY
	Time     string `json:"time" validate:"required"` // HH:mm
}

type ChangeAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
