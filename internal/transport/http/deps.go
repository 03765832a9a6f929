package http

import (
	"github.com/medbook-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/medbook-api/internal/infrastructure/jwt"
	s3infra "github.com/medbook-api/internal/infrastructure/s3"
	"github.com/medbook-api/internal/infrastructure/smtp"
	"github.com/medbook-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	DoctorRepo       *dynamo.DoctorRepo
	AppointmentRepo  *dynamo.AppointmentRepo
	VerificationRepo *dynamo.VerificationRepo
	PhotoStore       *s3infra.Store
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender
	JWTProvider      *jwtinfra.Provider
}
