package user

import (
	"context"
	"fmt"
	"time"

	"github.com/medbook-api/internal/domain"
	"github.com/medbook-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (string, *domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.User, string, error)
}

type jwtSigner interface {
	Sign(userID, role string) (string, error)
}

type service struct {
	repo        userStore
	jwtProvider jwtSigner
}

func NewService(repo userStore, jwtProvider jwtSigner) Service {
	return &service{repo: repo, jwtProvider: jwtProvider}
}

// Register creates an account after an email pre-check. The pre-check is a
// read followed by a write, so two concurrent registrations with the same
// email can both succeed; uniqueness is best-effort, not a store constraint.
func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:              id.New(),
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		PasswordHash:        string(hash),
		UnseenNotifications: []domain.Notification{},
		SeenNotifications:   []domain.Notification{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role())
	if err != nil {
		return "", nil, err
	}
	return bearer, u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.User, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}
