package doctor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/medbook-api/internal/domain"
	"github.com/medbook-api/internal/pkg/id"
)

// Attribute names used in partial update maps.
const (
	fieldFirstName  = "first_name"
	fieldLastName   = "last_name"
	fieldEmail      = "email"
	fieldPhone      = "phone"
	fieldWebsite    = "website"
	fieldAddress    = "address"
	fieldSpecialty  = "specialty"
	fieldExperience = "experience"
	fieldFee        = "fee"
	fieldTimings    = "timings"
	fieldStatus     = "status"
	fieldPhotoKey   = "photo_key"
	fieldIsDoctor   = "is_doctor"
)

type Service interface {
	Apply(ctx context.Context, req domain.ApplyDoctorRequest) (*domain.Doctor, error)
	Get(ctx context.Context, doctorID string) (*domain.Doctor, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Doctor, error)
	UpdateProfile(ctx context.Context, doctorID string, req domain.UpdateDoctorRequest) (*domain.Doctor, error)
	ListApproved(ctx context.Context) ([]domain.Doctor, error)
	ListAll(ctx context.Context) ([]domain.Doctor, error)
	ChangeStatus(ctx context.Context, doctorID, status string) error
	UploadPhoto(ctx context.Context, doctorID, filename string, r io.Reader) (*domain.Doctor, error)
	PhotoURL(ctx context.Context, doctorID string) (string, error)
}

type doctorStore interface {
	Put(ctx context.Context, d *domain.Doctor) error
	Get(ctx context.Context, doctorID string) (*domain.Doctor, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Doctor, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Doctor, error)
	ListAll(ctx context.Context) ([]domain.Doctor, error)
	Update(ctx context.Context, doctorID string, updates map[string]interface{}) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	AppendUnseen(ctx context.Context, userID string, n domain.Notification) error
}

type photoStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type contentTyper func(filename string) string

type service struct {
	repo        doctorStore
	userRepo    userStore
	photos      photoStore
	contentType contentTyper
}

type ServiceDeps struct {
	DoctorRepo  doctorStore
	UserRepo    userStore
	PhotoStore  photoStore
	ContentType contentTyper
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:        deps.DoctorRepo,
		userRepo:    deps.UserRepo,
		photos:      deps.PhotoStore,
		contentType: deps.ContentType,
	}
}

// Apply creates a doctor profile with status forced to pending regardless of
// caller input, then notifies every administrator account. Zero configured
// administrators is a deployment fault and fails the request after the
// profile write; the profile still exists in that case.
func (s *service) Apply(ctx context.Context, req domain.ApplyDoctorRequest) (*domain.Doctor, error) {
	if _, err := s.userRepo.Get(ctx, req.UserID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	d := &domain.Doctor{
		DoctorID:   id.New(),
		UserID:     req.UserID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Website:    req.Website,
		Address:    req.Address,
		Specialty:  req.Specialty,
		Experience: req.Experience,
		Fee:        req.Fee,
		Timings:    req.Timings,
		Status:     domain.DoctorStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Put(ctx, d); err != nil {
		return nil, err
	}
	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		return nil, fmt.Errorf("no administrator account configured: %w", domain.ErrNotFound)
	}
	n := domain.NewDoctorRequestNotification(d.DoctorID, d.FullName())
	for _, admin := range admins {
		if err := s.userRepo.AppendUnseen(ctx, admin.UserID, n); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *service) Get(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	return s.repo.Get(ctx, doctorID)
}

func (s *service) GetByUserID(ctx context.Context, userID string) (*domain.Doctor, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, doctorID string, req domain.UpdateDoctorRequest) (*domain.Doctor, error) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if req.Email != nil {
		updates[fieldEmail] = *req.Email
	}
	if req.Phone != nil {
		updates[fieldPhone] = *req.Phone
	}
	if req.Website != nil {
		updates[fieldWebsite] = *req.Website
	}
	if req.Address != nil {
		updates[fieldAddress] = *req.Address
	}
	if req.Specialty != nil {
		updates[fieldSpecialty] = *req.Specialty
	}
	if req.Experience != nil {
		updates[fieldExperience] = *req.Experience
	}
	if req.Fee != nil {
		updates[fieldFee] = *req.Fee
	}
	if req.Timings != nil {
		updates[fieldTimings] = req.Timings
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, doctorID)
	}
	if err := s.repo.Update(ctx, doctorID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, doctorID)
}

func (s *service) ListApproved(ctx context.Context) ([]domain.Doctor, error) {
	return s.repo.ListByStatus(ctx, domain.DoctorStatusApproved)
}

func (s *service) ListAll(ctx context.Context) ([]domain.Doctor, error) {
	return s.repo.ListAll(ctx)
}

// ChangeStatus moves a pending application to approved or rejected. Approval
// also flips the linked account's doctor flag so the next issued token
// carries the doctor role. The applicant is notified either way.
func (s *service) ChangeStatus(ctx context.Context, doctorID, status string) error {
	if status != domain.DoctorStatusApproved && status != domain.DoctorStatusRejected {
		return fmt.Errorf("status must be approved or rejected: %w", domain.ErrBadRequest)
	}
	d, err := s.repo.Get(ctx, doctorID)
	if err != nil {
		return err
	}
	applicant, err := s.userRepo.Get(ctx, d.UserID)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, doctorID, map[string]interface{}{fieldStatus: status}); err != nil {
		return err
	}
	if status == domain.DoctorStatusApproved {
		if err := s.userRepo.Update(ctx, applicant.UserID, map[string]interface{}{fieldIsDoctor: 1}); err != nil {
			return err
		}
	}
	return s.userRepo.AppendUnseen(ctx, applicant.UserID, domain.DoctorRequestChangedNotification(status))
}

func (s *service) UploadPhoto(ctx context.Context, doctorID, filename string, r io.Reader) (*domain.Doctor, error) {
	d, err := s.repo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("doctors/%s/photo-%s", d.DoctorID, filename)
	if _, err := s.photos.Upload(ctx, key, r, s.contentType(filename)); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, d.DoctorID, map[string]interface{}{fieldPhotoKey: key}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, d.DoctorID)
}

func (s *service) PhotoURL(ctx context.Context, doctorID string) (string, error) {
	d, err := s.repo.Get(ctx, doctorID)
	if err != nil {
		return "", err
	}
	if d.PhotoKey == "" {
		return "", fmt.Errorf("doctor has no photo: %w", domain.ErrNotFound)
	}
	return s.photos.PresignedURL(ctx, d.PhotoKey, 15*time.Minute)
}
