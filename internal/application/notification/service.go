package notification

import (
	"context"

	"github.com/medbook-api/internal/domain"
)

// Inbox is the two-bucket view of a user's notifications.
type Inbox struct {
	Unseen []domain.Notification `json:"unseen_notifications"`
	Seen   []domain.Notification `json:"seen_notifications"`
}

// Service implements the per-account notification inbox. Appending is done
// by the producing services (booking, status changes, doctor applications);
// this service owns the consumer side: listing, acknowledging, clearing.
type Service interface {
	Get(ctx context.Context, userID string) (*Inbox, error)
	MarkAllSeen(ctx context.Context, userID string) (*Inbox, error)
	DeleteAll(ctx context.Context, userID string) (*Inbox, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	SetNotifications(ctx context.Context, userID string, unseen, seen []domain.Notification) error
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, userID string) (*Inbox, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Inbox{Unseen: u.UnseenNotifications, Seen: u.SeenNotifications}, nil
}

// MarkAllSeen moves every unseen entry to the end of seen, preserving order,
// and empties unseen. The whole inbox is rewritten in a single document
// update, so the move is atomic to callers. Calling it again with nothing
// unseen is a no-op.
func (s *service) MarkAllSeen(ctx context.Context, userID string) (*Inbox, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := append(u.SeenNotifications, u.UnseenNotifications...)
	if err := s.repo.SetNotifications(ctx, userID, nil, seen); err != nil {
		return nil, err
	}
	return &Inbox{Unseen: []domain.Notification{}, Seen: seen}, nil
}

// DeleteAll empties both sequences unconditionally.
func (s *service) DeleteAll(ctx context.Context, userID string) (*Inbox, error) {
	if _, err := s.repo.Get(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.SetNotifications(ctx, userID, nil, nil); err != nil {
		return nil, err
	}
	return &Inbox{Unseen: []domain.Notification{}, Seen: []domain.Notification{}}, nil
}
