package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/medbook-api/internal/domain"
	"github.com/medbook-api/internal/pkg/id"
	"github.com/medbook-api/internal/pkg/schedule"
)

type Service interface {
	CheckAvailability(ctx context.Context, req domain.CheckAvailabilityRequest) (bool, error)
	Book(ctx context.Context, req domain.BookAppointmentRequest) (*domain.Appointment, error)
	ChangeStatus(ctx context.Context, appointmentID, status string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error)
}

type appointmentStore interface {
	Put(ctx context.Context, a *domain.Appointment) error
	Get(ctx context.Context, appointmentID string) (*domain.Appointment, error)
	FindInWindow(ctx context.Context, doctorID string, date, from, to time.Time) ([]domain.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error)
	Update(ctx context.Context, appointmentID string, updates map[string]interface{}) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	AppendUnseen(ctx context.Context, userID string, n domain.Notification) error
}

type service struct {
	repo     appointmentStore
	userRepo userStore
}

func NewService(repo appointmentStore, userRepo userStore) Service {
	return &service{repo: repo, userRepo: userRepo}
}

// CheckAvailability reports whether a slot can be booked. A slot is taken
// when the doctor already has an appointment on the exact same normalized
// date whose time lies within one hour of the requested time, inclusive on
// both ends of the window.
//
// No lock is taken between this check and a subsequent Book call: two
// concurrent bookings for the same slot can both pass and both persist.
func (s *service) CheckAvailability(ctx context.Context, req domain.CheckAvailabilityRequest) (bool, error) {
	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		return false, err
	}
	at, err := schedule.ParseTime(req.Time)
	if err != nil {
		return false, err
	}
	from, to := schedule.Window(at)
	conflicts, err := s.repo.FindInWindow(ctx, req.DoctorID, date, from, to)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// Book persists a new pending appointment with the caller-supplied doctor
// and patient snapshots, then notifies the doctor's linked user account.
// The two writes are sequential and independently failing: if the
// notification write fails the appointment still exists.
func (s *service) Book(ctx context.Context, req domain.BookAppointmentRequest) (*domain.Appointment, error) {
	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	at, err := schedule.ParseTime(req.Time)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	a := &domain.Appointment{
		AppointmentID: id.New(),
		DoctorID:      req.DoctorID,
		UserID:        req.UserID,
		DoctorInfo:    req.DoctorInfo,
		UserInfo:      req.UserInfo,
		Date:          date,
		Time:          at,
		Status:        domain.AppointmentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}
	doctorUser, err := s.userRepo.Get(ctx, req.DoctorInfo.UserID)
	if err != nil {
		return nil, fmt.Errorf("doctor account for notification: %w", err)
	}
	n := domain.NewAppointmentRequestNotification(req.UserInfo.Name)
	if err := s.userRepo.AppendUnseen(ctx, doctorUser.UserID, n); err != nil {
		return nil, err
	}
	return a, nil
}

// ChangeStatus updates the appointment status to the caller-supplied string
// and notifies the patient. The status value is not validated at this layer.
func (s *service) ChangeStatus(ctx context.Context, appointmentID, status string) error {
	a, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, appointmentID, map[string]interface{}{"status": status}); err != nil {
		return err
	}
	patient, err := s.userRepo.Get(ctx, a.UserID)
	if err != nil {
		return fmt.Errorf("patient account for notification: %w", err)
	}
	return s.userRepo.AppendUnseen(ctx, patient.UserID, domain.AppointmentStatusChangedNotification(status))
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}
