package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medbook-api/internal/domain"
	"github.com/medbook-api/internal/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) AppendUnseen(ctx context.Context, userID string, n domain.Notification) error {
	return m.Called(ctx, userID, n).Error(0)
}

type mockAppointmentStore struct{ mock.Mock }

func (m *mockAppointmentStore) Put(ctx context.Context, a *domain.Appointment) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAppointmentStore) Get(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	args := m.Called(ctx, appointmentID)
	if a, _ := args.Get(0).(*domain.Appointment); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAppointmentStore) FindInWindow(ctx context.Context, doctorID string, date, from, to time.Time) ([]domain.Appointment, error) {
	args := m.Called(ctx, doctorID, date, from, to)
	return args.Get(0).([]domain.Appointment), args.Error(1)
}
func (m *mockAppointmentStore) ListByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Appointment), args.Error(1)
}
func (m *mockAppointmentStore) ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).([]domain.Appointment), args.Error(1)
}
func (m *mockAppointmentStore) Update(ctx context.Context, appointmentID string, updates map[string]interface{}) error {
	return m.Called(ctx, appointmentID, updates).Error(0)
}

// fakeAppointmentStore replicates the store's conflict query over an
// in-memory slice: exact date equality plus an inclusive time window. Used
// when a test cares about which appointments actually fall in the window.
type fakeAppointmentStore struct {
	mockAppointmentStore
	existing []domain.Appointment
}

func (f *fakeAppointmentStore) FindInWindow(_ context.Context, doctorID string, date, from, to time.Time) ([]domain.Appointment, error) {
	var matches []domain.Appointment
	for _, a := range f.existing {
		if a.DoctorID != doctorID || !a.Date.Equal(date) {
			continue
		}
		if !a.Time.Before(from) && !a.Time.After(to) {
			matches = append(matches, a)
		}
	}
	return matches, nil
}

// --- helpers ---

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := schedule.ParseDate(s)
	require.NoError(t, err)
	return d
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	at, err := schedule.ParseTime(s)
	require.NoError(t, err)
	return at
}

func existingAt(t *testing.T, doctorID, date, at string) domain.Appointment {
	t.Helper()
	return domain.Appointment{
		AppointmentID: "a1",
		DoctorID:      doctorID,
		Date:          mustDate(t, date),
		Time:          mustTime(t, at),
		Status:        domain.AppointmentStatusPending,
	}
}

func baseBooking() domain.BookAppointmentRequest {
	return domain.BookAppointmentRequest{
		DoctorID: "d1",
		UserID:   "u1",
		DoctorInfo: domain.DoctorSnapshot{
			DoctorID:  "d1",
			UserID:    "doc-user",
			FirstName: "Gregory",
			LastName:  "House",
			Specialty: "diagnostics",
			Fee:       200,
		},
		UserInfo: domain.UserSnapshot{UserID: "u1", Name: "Alice", Email: "alice@example.com"},
		Date:     "01-06-2024",
		Time:     "10:00",
	}
}

// --- CheckAvailability ---

func TestCheckAvailability_NoConflicts(t *testing.T) {
	store := &fakeAppointmentStore{}
	svc := NewService(store, &mockUserStore{})

	available, err := svc.CheckAvailability(context.Background(), domain.CheckAvailabilityRequest{
		DoctorID: "d1", Date: "01-06-2024", Time: "10:00",
	})
	require.NoError(t, err)
	assert.True(t, available)
}

func TestCheckAvailability_WindowScenarios(t *testing.T) {
	// Doctor d1 has one appointment on 01-06-2024 at 10:00.
	store := &fakeAppointmentStore{existing: []domain.Appointment{
		existingAt(t, "d1", "01-06-2024", "10:00"),
	}}
	svc := NewService(store, &mockUserStore{})

	cases := []struct {
		requested string
		available bool
	}{
		{"10:00", false},
		{"10:30", false}, // within the 1-hour window
		{"09:00", false}, // lower boundary, inclusive
		{"11:00", false}, // upper boundary, inclusive
		{"11:01", true},  // outside the window by one minute
		{"08:59", true},
		{"13:00", true},
	}
	for _, tc := range cases {
		available, err := svc.CheckAvailability(context.Background(), domain.CheckAvailabilityRequest{
			DoctorID: "d1", Date: "01-06-2024", Time: tc.requested,
		})
		require.NoError(t, err, tc.requested)
		assert.Equal(t, tc.available, available, tc.requested)
	}
}

func TestCheckAvailability_DifferentDateDoesNotConflict(t *testing.T) {
	store := &fakeAppointmentStore{existing: []domain.Appointment{
		existingAt(t, "d1", "01-06-2024", "10:00"),
	}}
	svc := NewService(store, &mockUserStore{})

	available, err := svc.CheckAvailability(context.Background(), domain.CheckAvailabilityRequest{
		DoctorID: "d1", Date: "02-06-2024", Time: "10:00",
	})
	require.NoError(t, err)
	assert.True(t, available)
}

func TestCheckAvailability_DifferentDoctorDoesNotConflict(t *testing.T) {
	store := &fakeAppointmentStore{existing: []domain.Appointment{
		existingAt(t, "d1", "01-06-2024", "10:00"),
	}}
	svc := NewService(store, &mockUserStore{})

	available, err := svc.CheckAvailability(context.Background(), domain.CheckAvailabilityRequest{
		DoctorID: "d2", Date: "01-06-2024", Time: "10:00",
	})
	require.NoError(t, err)
	assert.True(t, available)
}

func TestCheckAvailability_InvalidInputs(t *testing.T) {
	svc := NewService(&fakeAppointmentStore{}, &mockUserStore{})

	_, err := svc.CheckAvailability(context.Background(), domain.CheckAvailabilityRequest{
		DoctorID: "d1", Date: "2024-06-01", Time: "10:00",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))

	_, err = svc.CheckAvailability(context.Background(), domain.CheckAvailabilityRequest{
		DoctorID: "d1", Date: "01-06-2024", Time: "10pm",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCheckAvailability_StoreErrorPropagates(t *testing.T) {
	store := &mockAppointmentStore{}
	storeErr := errors.New("dynamo error")
	store.On("FindInWindow", mock.Anything, "d1", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Appointment{}, storeErr)
	svc := NewService(store, &mockUserStore{})

	_, err := svc.CheckAvailability(context.Background(), domain.CheckAvailabilityRequest{
		DoctorID: "d1", Date: "01-06-2024", Time: "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, storeErr, err)
}

// --- Book ---

func TestBook_ForcesPendingStatus(t *testing.T) {
	store := &mockAppointmentStore{}
	us := &mockUserStore{}
	var persisted *domain.Appointment
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.Appointment")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(*domain.Appointment) }).
		Return(nil)
	us.On("Get", mock.Anything, "doc-user").Return(&domain.User{UserID: "doc-user"}, nil)
	us.On("AppendUnseen", mock.Anything, "doc-user", mock.Anything).Return(nil)

	svc := NewService(store, us)
	a, err := svc.Book(context.Background(), baseBooking())

	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusPending, a.Status)
	require.NotNil(t, persisted)
	assert.Equal(t, domain.AppointmentStatusPending, persisted.Status)
}

func TestBook_NormalizesDateAndTimeIndependently(t *testing.T) {
	store := &mockAppointmentStore{}
	us := &mockUserStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	us.On("Get", mock.Anything, "doc-user").Return(&domain.User{UserID: "doc-user"}, nil)
	us.On("AppendUnseen", mock.Anything, "doc-user", mock.Anything).Return(nil)

	svc := NewService(store, us)
	a, err := svc.Book(context.Background(), baseBooking())

	require.NoError(t, err)
	assert.True(t, a.Date.Equal(mustDate(t, "01-06-2024")))
	assert.True(t, a.Time.Equal(mustTime(t, "10:00")))
	// The two fields stay separate: the time value carries no calendar day.
	assert.NotEqual(t, a.Date.Year(), a.Time.Year())
}

func TestBook_NotifiesDoctorUserOnce(t *testing.T) {
	store := &mockAppointmentStore{}
	us := &mockUserStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	us.On("Get", mock.Anything, "doc-user").Return(&domain.User{UserID: "doc-user"}, nil)

	var appended domain.Notification
	us.On("AppendUnseen", mock.Anything, "doc-user", mock.Anything).
		Run(func(args mock.Arguments) { appended = args.Get(2).(domain.Notification) }).
		Return(nil)

	svc := NewService(store, us)
	_, err := svc.Book(context.Background(), baseBooking())

	require.NoError(t, err)
	us.AssertNumberOfCalls(t, "AppendUnseen", 1)
	assert.Equal(t, domain.NotifNewAppointmentRequest, appended.Type)
	assert.Contains(t, appended.Message, "Alice")
}

func TestBook_SnapshotsAreCopies(t *testing.T) {
	store := &mockAppointmentStore{}
	us := &mockUserStore{}
	var persisted *domain.Appointment
	store.On("Put", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(*domain.Appointment) }).
		Return(nil)
	us.On("Get", mock.Anything, "doc-user").Return(&domain.User{UserID: "doc-user"}, nil)
	us.On("AppendUnseen", mock.Anything, "doc-user", mock.Anything).Return(nil)

	svc := NewService(store, us)
	req := baseBooking()
	_, err := svc.Book(context.Background(), req)
	require.NoError(t, err)

	// Editing the source data after booking must not change the stored snapshot.
	req.DoctorInfo.Fee = 999
	req.UserInfo.Name = "Mallory"
	assert.Equal(t, 200, persisted.DoctorInfo.Fee)
	assert.Equal(t, "Alice", persisted.UserInfo.Name)
}

func TestBook_DoctorUserMissing_FailsAfterPersist(t *testing.T) {
	store := &mockAppointmentStore{}
	us := &mockUserStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	us.On("Get", mock.Anything, "doc-user").Return(nil, domain.ErrNotFound)

	svc := NewService(store, us)
	_, err := svc.Book(context.Background(), baseBooking())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	// The appointment write happened before the lookup failed.
	store.AssertCalled(t, "Put", mock.Anything, mock.Anything)
	us.AssertNotCalled(t, "AppendUnseen", mock.Anything, mock.Anything, mock.Anything)
}

func TestBook_NotificationWriteFailure_AppointmentStillPersisted(t *testing.T) {
	store := &mockAppointmentStore{}
	us := &mockUserStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	us.On("Get", mock.Anything, "doc-user").Return(&domain.User{UserID: "doc-user"}, nil)
	us.On("AppendUnseen", mock.Anything, "doc-user", mock.Anything).Return(errors.New("dynamo error"))

	svc := NewService(store, us)
	_, err := svc.Book(context.Background(), baseBooking())

	require.Error(t, err)
	store.AssertCalled(t, "Put", mock.Anything, mock.Anything)
}

// --- ChangeStatus ---

func TestChangeStatus_UpdatesAndNotifiesPatient(t *testing.T) {
	store := &mockAppointmentStore{}
	us := &mockUserStore{}
	store.On("Get", mock.Anything, "a1").Return(&domain.Appointment{
		AppointmentID: "a1", UserID: "u1",
	}, nil)
	store.On("Update", mock.Anything, "a1", map[string]interface{}{"status": "approved"}).Return(nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	var appended domain.Notification
	us.On("AppendUnseen", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { appended = args.Get(2).(domain.Notification) }).
		Return(nil)

	svc := NewService(store, us)
	err := svc.ChangeStatus(context.Background(), "a1", "approved")

	require.NoError(t, err)
	assert.Equal(t, domain.NotifAppointmentStatusChange, appended.Type)
	assert.Contains(t, appended.Message, "approved")
	store.AssertExpectations(t)
}

func TestChangeStatus_AppointmentNotFound(t *testing.T) {
	store := &mockAppointmentStore{}
	store.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := NewService(store, &mockUserStore{})
	err := svc.ChangeStatus(context.Background(), "missing", "approved")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatus_PatientNotFound(t *testing.T) {
	store := &mockAppointmentStore{}
	us := &mockUserStore{}
	store.On("Get", mock.Anything, "a1").Return(&domain.Appointment{AppointmentID: "a1", UserID: "gone"}, nil)
	store.On("Update", mock.Anything, "a1", mock.Anything).Return(nil)
	us.On("Get", mock.Anything, "gone").Return(nil, domain.ErrNotFound)

	svc := NewService(store, us)
	err := svc.ChangeStatus(context.Background(), "a1", "rejected")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	us.AssertNotCalled(t, "AppendUnseen", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatus_AcceptsArbitraryString(t *testing.T) {
	store := &mockAppointmentStore{}
	us := &mockUserStore{}
	store.On("Get", mock.Anything, "a1").Return(&domain.Appointment{AppointmentID: "a1", UserID: "u1"}, nil)
	store.On("Update", mock.Anything, "a1", map[string]interface{}{"status": "needs-follow-up"}).Return(nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	us.On("AppendUnseen", mock.Anything, "u1", mock.Anything).Return(nil)

	svc := NewService(store, us)
	err := svc.ChangeStatus(context.Background(), "a1", "needs-follow-up")

	require.NoError(t, err)
	store.AssertExpectations(t)
}
