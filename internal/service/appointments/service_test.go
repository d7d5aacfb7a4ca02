package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// fakeRepo репозиторий записей для тестов
type fakeRepo struct {
	appointments map[int64]*domain.Appointment

	getErr    error
	cancelErr error

	cancelledID     int64
	cancelledStatus domain.AppointmentStatus
	cancelledReason string

	listed []*domain.Appointment
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	appointment, ok := r.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appointment, nil
}

func (r *fakeRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	result := make([]*domain.Appointment, 0)
	for _, a := range r.appointments {
		if a.CustomerID != customerID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		result = append(result, a)
	}
	r.listed = result
	return result, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, _ int64, _ domain.AppointmentStatus) error {
	return nil
}

func (r *fakeRepo) Cancel(_ context.Context, id int64, status domain.AppointmentStatus, reason string) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	r.cancelledID = id
	r.cancelledStatus = status
	r.cancelledReason = reason
	return nil
}

// nopLogger логгер-заглушка
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testAppointment(id, customerID int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:            id,
		CustomerID:    customerID,
		VehicleIDs:    []int64{100},
		ServiceIDs:    []int64{200},
		PreferredDate: time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC),
		Status:        status,
		ServiceNames:  []string{"Замена масла"},
		TotalPrice:    3500,
	}
}

func newService(repo *fakeRepo) *Service {
	return NewService(repo, nopLogger{})
}

func TestGetByID(t *testing.T) {
	repo := &fakeRepo{appointments: map[int64]*domain.Appointment{
		1: testAppointment(1, 7, domain.StatusConfirmed),
	}}
	svc := newService(repo)

	resp, err := svc.GetByID(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "2025-10-13", resp.PreferredDate)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newService(&fakeRepo{appointments: map[int64]*domain.Appointment{}})

	_, err := svc.GetByID(context.Background(), 99, 7)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID_AccessDenied(t *testing.T) {
	repo := &fakeRepo{appointments: map[int64]*domain.Appointment{
		1: testAppointment(1, 7, domain.StatusConfirmed),
	}}
	svc := newService(repo)

	// Чужая запись не раскрывается
	_, err := svc.GetByID(context.Background(), 1, 8)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_RepositoryFailure(t *testing.T) {
	svc := newService(&fakeRepo{getErr: errors.New("connection refused")})

	_, err := svc.GetByID(context.Background(), 1, 7)

	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetUserAppointments(t *testing.T) {
	repo := &fakeRepo{appointments: map[int64]*domain.Appointment{
		1: testAppointment(1, 7, domain.StatusConfirmed),
		2: testAppointment(2, 7, domain.StatusCompleted),
		3: testAppointment(3, 8, domain.StatusConfirmed),
	}}
	svc := newService(repo)

	resp, err := svc.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{UserID: 7})

	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)
}

func TestGetUserAppointments_StatusFilter(t *testing.T) {
	repo := &fakeRepo{appointments: map[int64]*domain.Appointment{
		1: testAppointment(1, 7, domain.StatusConfirmed),
		2: testAppointment(2, 7, domain.StatusCompleted),
	}}
	svc := newService(repo)

	resp, err := svc.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{
		UserID: 7,
		Status: ptr.Ptr("completed"),
	})

	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "completed", resp.Appointments[0].Status)
}

func TestGetUserAppointments_InvalidStatus(t *testing.T) {
	svc := newService(&fakeRepo{appointments: map[int64]*domain.Appointment{}})

	_, err := svc.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{
		UserID: 7,
		Status: ptr.Ptr("cancelled"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetUserAppointments_EmptyHistory(t *testing.T) {
	svc := newService(&fakeRepo{appointments: map[int64]*domain.Appointment{}})

	resp, err := svc.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{UserID: 7})

	require.NoError(t, err)
	assert.NotNil(t, resp.Appointments)
	assert.Empty(t, resp.Appointments)
}

func TestCancel(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed} {
		t.Run(string(status), func(t *testing.T) {
			repo := &fakeRepo{appointments: map[int64]*domain.Appointment{
				1: testAppointment(1, 7, status),
			}}
			svc := newService(repo)

			err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
				UserID:             7,
				CancellationReason: "передумал",
			})

			require.NoError(t, err)
			assert.Equal(t, int64(1), repo.cancelledID)
			assert.Equal(t, domain.StatusCancelledByUser, repo.cancelledStatus)
			assert.Equal(t, "передумал", repo.cancelledReason)
		})
	}
}

func TestCancel_AccessDenied(t *testing.T) {
	repo := &fakeRepo{appointments: map[int64]*domain.Appointment{
		1: testAppointment(1, 7, domain.StatusConfirmed),
	}}
	svc := newService(repo)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 8})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.cancelledID)
}

func TestCancel_NotCancellableStatuses(t *testing.T) {
	notCancellable := []domain.AppointmentStatus{
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelledByUser,
		domain.StatusCancelledByCompany,
	}

	for _, status := range notCancellable {
		t.Run(string(status), func(t *testing.T) {
			repo := &fakeRepo{appointments: map[int64]*domain.Appointment{
				1: testAppointment(1, 7, status),
			}}
			svc := newService(repo)

			err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 7})

			assert.ErrorIs(t, err, ErrCannotCancel)
			assert.Zero(t, repo.cancelledID)
		})
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc := newService(&fakeRepo{appointments: map[int64]*domain.Appointment{}})

	err := svc.Cancel(context.Background(), 99, &models.CancelAppointmentRequest{UserID: 7})

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel_LostCancellableStatusInRepo(t *testing.T) {
	// Статус успел измениться между чтением и отменой
	repo := &fakeRepo{
		appointments: map[int64]*domain.Appointment{
			1: testAppointment(1, 7, domain.StatusConfirmed),
		},
		cancelErr: appointmentRepo.ErrCannotCancel,
	}
	svc := newService(repo)

	err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 7})

	assert.ErrorIs(t, err, ErrCannotCancel)
}
