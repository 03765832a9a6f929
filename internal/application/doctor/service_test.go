package doctor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/medbook-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDoctorStore struct{ mock.Mock }

func (m *mockDoctorStore) Put(ctx context.Context, d *domain.Doctor) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockDoctorStore) Get(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	args := m.Called(ctx, doctorID)
	if d, _ := args.Get(0).(*domain.Doctor); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDoctorStore) GetByUserID(ctx context.Context, userID string) (*domain.Doctor, error) {
	args := m.Called(ctx, userID)
	if d, _ := args.Get(0).(*domain.Doctor); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDoctorStore) ListByStatus(ctx context.Context, status string) ([]domain.Doctor, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Doctor), args.Error(1)
}
func (m *mockDoctorStore) ListAll(ctx context.Context) ([]domain.Doctor, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Doctor), args.Error(1)
}
func (m *mockDoctorStore) Update(ctx context.Context, doctorID string, updates map[string]interface{}) error {
	return m.Called(ctx, doctorID, updates).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) ListAdmins(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) AppendUnseen(ctx context.Context, userID string, n domain.Notification) error {
	return m.Called(ctx, userID, n).Error(0)
}

type mockPhotoStore struct{ mock.Mock }

func (m *mockPhotoStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockPhotoStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func newTestService(repo *mockDoctorStore, users *mockUserStore, photos *mockPhotoStore) Service {
	return NewService(ServiceDeps{
		DoctorRepo:  repo,
		UserRepo:    users,
		PhotoStore:  photos,
		ContentType: func(string) string { return "image/jpeg" },
	})
}

func applyRequest() domain.ApplyDoctorRequest {
	return domain.ApplyDoctorRequest{
		UserID:     "u1",
		FirstName:  "Gregory",
		LastName:   "House",
		Email:      "house@example.com",
		Phone:      "555-0100",
		Specialty:  "diagnostics",
		Experience: "10 years",
		Fee:        200,
	}
}

// --- Apply ---

func TestApply_ForcesPendingAndNotifiesAdmins(t *testing.T) {
	repo := &mockDoctorStore{}
	users := &mockUserStore{}

	var persisted *domain.Doctor
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Doctor")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(*domain.Doctor) }).
		Return(nil)
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	users.On("ListAdmins", mock.Anything).Return([]domain.User{{UserID: "admin1"}}, nil)

	var appended domain.Notification
	users.On("AppendUnseen", mock.Anything, "admin1", mock.Anything).
		Run(func(args mock.Arguments) { appended = args.Get(2).(domain.Notification) }).
		Return(nil)

	svc := newTestService(repo, users, nil)
	d, err := svc.Apply(context.Background(), applyRequest())

	require.NoError(t, err)
	assert.Equal(t, domain.DoctorStatusPending, d.Status)
	assert.Equal(t, domain.DoctorStatusPending, persisted.Status)
	assert.NotEmpty(t, d.DoctorID)
	assert.Equal(t, domain.NotifNewDoctorRequest, appended.Type)
	assert.Contains(t, appended.Message, "Gregory House")
	assert.Equal(t, d.DoctorID, appended.Data["doctor_id"])
}

func TestApply_BroadcastsToEveryAdmin(t *testing.T) {
	repo := &mockDoctorStore{}
	users := &mockUserStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	users.On("ListAdmins", mock.Anything).Return([]domain.User{
		{UserID: "admin1"}, {UserID: "admin2"}, {UserID: "admin3"},
	}, nil)
	users.On("AppendUnseen", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(repo, users, nil)
	_, err := svc.Apply(context.Background(), applyRequest())

	require.NoError(t, err)
	users.AssertNumberOfCalls(t, "AppendUnseen", 3)
	for _, adminID := range []string{"admin1", "admin2", "admin3"} {
		users.AssertCalled(t, "AppendUnseen", mock.Anything, adminID, mock.Anything)
	}
	// The applicant's own inbox is untouched.
	users.AssertNotCalled(t, "AppendUnseen", mock.Anything, "u1", mock.Anything)
}

func TestApply_NoAdminConfigured(t *testing.T) {
	repo := &mockDoctorStore{}
	users := &mockUserStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	users.On("ListAdmins", mock.Anything).Return([]domain.User{}, nil)

	svc := newTestService(repo, users, nil)
	_, err := svc.Apply(context.Background(), applyRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	// The profile write still happened before the admin lookup.
	repo.AssertCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestApply_UnknownUser(t *testing.T) {
	repo := &mockDoctorStore{}
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	svc := newTestService(repo, users, nil)
	_, err := svc.Apply(context.Background(), applyRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

// --- ChangeStatus ---

func TestChangeStatus_ApprovalFlipsDoctorFlagAndNotifies(t *testing.T) {
	repo := &mockDoctorStore{}
	users := &mockUserStore{}
	repo.On("Get", mock.Anything, "d1").Return(&domain.Doctor{DoctorID: "d1", UserID: "u1"}, nil)
	repo.On("Update", mock.Anything, "d1", map[string]interface{}{"status": "approved"}).Return(nil)
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	users.On("Update", mock.Anything, "u1", map[string]interface{}{"is_doctor": 1}).Return(nil)

	var appended domain.Notification
	users.On("AppendUnseen", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { appended = args.Get(2).(domain.Notification) }).
		Return(nil)

	svc := newTestService(repo, users, nil)
	err := svc.ChangeStatus(context.Background(), "d1", domain.DoctorStatusApproved)

	require.NoError(t, err)
	assert.Equal(t, domain.NotifDoctorRequestChanged, appended.Type)
	assert.Contains(t, appended.Message, "approved")
	users.AssertCalled(t, "Update", mock.Anything, "u1", map[string]interface{}{"is_doctor": 1})
}

func TestChangeStatus_RejectionLeavesDoctorFlag(t *testing.T) {
	repo := &mockDoctorStore{}
	users := &mockUserStore{}
	repo.On("Get", mock.Anything, "d1").Return(&domain.Doctor{DoctorID: "d1", UserID: "u1"}, nil)
	repo.On("Update", mock.Anything, "d1", map[string]interface{}{"status": "rejected"}).Return(nil)
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	users.On("AppendUnseen", mock.Anything, "u1", mock.Anything).Return(nil)

	svc := newTestService(repo, users, nil)
	err := svc.ChangeStatus(context.Background(), "d1", domain.DoctorStatusRejected)

	require.NoError(t, err)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatus_InvalidStatus(t *testing.T) {
	repo := &mockDoctorStore{}

	svc := newTestService(repo, &mockUserStore{}, nil)
	err := svc.ChangeStatus(context.Background(), "d1", "maybe")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// --- UpdateProfile ---

func TestUpdateProfile_OnlySetFieldsChange(t *testing.T) {
	repo := &mockDoctorStore{}
	fee := 300
	specialty := "cardiology"
	repo.On("Update", mock.Anything, "d1", map[string]interface{}{
		"fee":       300,
		"specialty": "cardiology",
	}).Return(nil)
	repo.On("Get", mock.Anything, "d1").Return(&domain.Doctor{DoctorID: "d1", Fee: 300, Specialty: "cardiology"}, nil)

	svc := newTestService(repo, &mockUserStore{}, nil)
	d, err := svc.UpdateProfile(context.Background(), "d1", domain.UpdateDoctorRequest{
		Fee: &fee, Specialty: &specialty,
	})

	require.NoError(t, err)
	assert.Equal(t, 300, d.Fee)
	repo.AssertExpectations(t)
}

func TestUpdateProfile_NoFieldsIsReadOnly(t *testing.T) {
	repo := &mockDoctorStore{}
	repo.On("Get", mock.Anything, "d1").Return(&domain.Doctor{DoctorID: "d1"}, nil)

	svc := newTestService(repo, &mockUserStore{}, nil)
	_, err := svc.UpdateProfile(context.Background(), "d1", domain.UpdateDoctorRequest{})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// --- photos ---

func TestUploadPhoto_StoresKeyOnProfile(t *testing.T) {
	repo := &mockDoctorStore{}
	photos := &mockPhotoStore{}
	repo.On("Get", mock.Anything, "d1").Return(&domain.Doctor{DoctorID: "d1"}, nil)
	photos.On("Upload", mock.Anything, "doctors/d1/photo-face.jpg", mock.Anything, "image/jpeg").
		Return("https://bucket/doctors/d1/photo-face.jpg", nil)
	repo.On("Update", mock.Anything, "d1", map[string]interface{}{
		"photo_key": "doctors/d1/photo-face.jpg",
	}).Return(nil)

	svc := newTestService(repo, &mockUserStore{}, photos)
	_, err := svc.UploadPhoto(context.Background(), "d1", "face.jpg", strings.NewReader("jpegdata"))

	require.NoError(t, err)
	repo.AssertExpectations(t)
	photos.AssertExpectations(t)
}

func TestPhotoURL_NoPhoto(t *testing.T) {
	repo := &mockDoctorStore{}
	repo.On("Get", mock.Anything, "d1").Return(&domain.Doctor{DoctorID: "d1"}, nil)

	svc := newTestService(repo, &mockUserStore{}, &mockPhotoStore{})
	_, err := svc.PhotoURL(context.Background(), "d1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPhotoURL_Presigns(t *testing.T) {
	repo := &mockDoctorStore{}
	photos := &mockPhotoStore{}
	repo.On("Get", mock.Anything, "d1").Return(&domain.Doctor{DoctorID: "d1", PhotoKey: "doctors/d1/photo-face.jpg"}, nil)
	photos.On("PresignedURL", mock.Anything, "doctors/d1/photo-face.jpg", 15*time.Minute).
		Return("https://signed.example.com/photo", nil)

	svc := newTestService(repo, &mockUserStore{}, photos)
	url, err := svc.PhotoURL(context.Background(), "d1")

	require.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/photo", url)
}
