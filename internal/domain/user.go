package domain

import "time"

// Role names carried in JWT claims. A user's effective role is derived from
// the is_admin / is_doctor flags at token-issue time.
const (
	RoleUser   = "user"
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

type User struct {
	UserID       string  `json:"id" dynamodbav:"user_id"`
	Name         string  `json:"name" dynamodbav:"name"`
	Email        string  `json:"email" dynamodbav:"email"`
	Phone        *string `json:"phone,omitempty" dynamodbav:"phone"`
	PasswordHash string  `json:"-" dynamodbav:"password_hash"`
	// 1 = true, 0 = false. Stored as numbers so they can back a GSI.
	IsDoctor int `json:"is_doctor" dynamodbav:"is_doctor"`
	IsAdmin  int `json:"is_admin" dynamodbav:"is_admin"`
	// The two-bucket inbox. Unseen holds events not yet acknowledged by the
	// account holder, seen holds acknowledged ones. Both keep insertion order
	// and grow without bound.
	UnseenNotifications []Notification `json:"unseen_notifications" dynamodbav:"unseen_notifications"`
	SeenNotifications   []Notification `json:"seen_notifications" dynamodbav:"seen_notifications"`
	CreatedAt           time.Time      `json:"created" dynamodbav:"created_at"`
	UpdatedAt           time.Time      `json:"updated" dynamodbav:"updated_at"`
}

// Role maps the account flags to a single role name for JWT claims.
// Admin wins over doctor.
func (u *User) Role() string {
	switch {
	case u.IsAdmin == 1:
		return RoleAdmin
	case u.IsDoctor == 1:
		return RoleDoctor
	default:
		return RoleUser
	}
}

type CreateUserRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Phone    *string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
