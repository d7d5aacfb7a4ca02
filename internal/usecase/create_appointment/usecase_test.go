package create_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/garageservice"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduler"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// fakeRepo хранилище записей для тестов
type fakeRepo struct {
	created *domain.Appointment
	err     error
}

func (r *fakeRepo) Create(_ context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	saved := *appointment
	saved.ID = 42
	saved.CreatedAt = time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)
	saved.UpdatedAt = saved.CreatedAt
	r.created = &saved
	return &saved, nil
}

// capacityReply один ответ валидатора на CheckCapacity
type capacityReply struct {
	capacity *domain.CapacityResult
	err      error
}

// fakeValidator валидатор с канонированными ответами
// Ответы CheckCapacity выдаются по очереди: первый - для предварительной
// проверки, второй - для повторной внутри транзакции
type fakeValidator struct {
	t              *testing.T
	timeResult     *domain.ValidationResult
	capacityQueue  []capacityReply
	capacityCalls  int
	conflicts      int
	conflictsErr   error
	conflictsCalls int
}

func (v *fakeValidator) ValidateTime(_ time.Time, _ types.ClockTime, _ int) *domain.ValidationResult {
	if v.timeResult == nil {
		return domain.NewValidationResult()
	}
	return v.timeResult
}

func (v *fakeValidator) CheckCapacity(_ context.Context, _ time.Time, _ types.ClockTime, _ int) (*domain.CapacityResult, error) {
	require.Less(v.t, v.capacityCalls, len(v.capacityQueue), "unexpected CheckCapacity call")
	reply := v.capacityQueue[v.capacityCalls]
	v.capacityCalls++
	return reply.capacity, reply.err
}

func (v *fakeValidator) CountVehicleConflicts(_ context.Context, _ time.Time, _ types.ClockTime, _ int, _ []int64) (int, error) {
	v.conflictsCalls++
	return v.conflicts, v.conflictsErr
}

// fakeGarage клиент гаража пользователей
type fakeGarage struct {
	vehicles []garageservice.Vehicle
	err      error
}

func (g *fakeGarage) GetOwnedVehicles(_ context.Context, _ int64, _ []int64) ([]garageservice.Vehicle, error) {
	return g.vehicles, g.err
}

// fakeCatalog клиент каталога услуг
type fakeCatalog struct {
	services []catalogservice.Service
	err      error
}

func (c *fakeCatalog) GetActiveServices(_ context.Context, _ []int64) ([]catalogservice.Service, error) {
	return c.services, c.err
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// nopLogger логгер-заглушка
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testCalendar() domain.BusinessCalendar {
	open, _ := types.ParseClockTime("09:00")
	closeTime, _ := types.ParseClockTime("18:00")

	return domain.BusinessCalendar{
		OperatingDays: map[time.Weekday]bool{
			time.Monday: true, time.Tuesday: true, time.Wednesday: true,
			time.Thursday: true, time.Friday: true, time.Saturday: true,
		},
		OpenTime:                  open,
		CloseTime:                 closeTime,
		SlotDurationMinutes:       30,
		MaxConcurrentAppointments: 3,
		AdvanceBookingDays:        30,
		MinimumNoticeHours:        2,
		BlockedDates:              map[string]bool{},
		MultiVehicleStrategy:      domain.StrategySequential,
		Location:                  time.UTC,
	}
}

type fixture struct {
	repo      *fakeRepo
	validator *fakeValidator
	garage    *fakeGarage
	catalog   *fakeCatalog
	txManager *fakeTxManager
	uc        *UseCase
}

func available(remaining int) *domain.CapacityResult {
	return &domain.CapacityResult{
		IsAvailable:       remaining > 0,
		CapacityUsed:      3 - remaining,
		CapacityTotal:     3,
		CapacityRemaining: remaining,
	}
}

func svc(id int64, name string, price float64, durationMinutes int) catalogservice.Service {
	return catalogservice.Service{
		ID:              id,
		Name:            name,
		Price:           ptr.Ptr(price),
		DurationMinutes: ptr.Ptr(durationMinutes),
		IsActive:        true,
	}
}

// newFixture валидный по умолчанию сценарий: один автомобиль, одна услуга,
// свободный слот, автомобиль принадлежит пользователю
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo: &fakeRepo{},
		validator: &fakeValidator{
			t:             t,
			capacityQueue: []capacityReply{{capacity: available(3)}, {capacity: available(3)}},
		},
		garage:    &fakeGarage{vehicles: []garageservice.Vehicle{{ID: 100, OwnerID: 7, IsActive: true}}},
		catalog:   &fakeCatalog{services: []catalogservice.Service{svc(200, "Замена масла", 3500, 45)}},
		txManager: &fakeTxManager{},
	}
	f.uc = NewUseCase(f.repo, f.validator, f.garage, f.catalog, f.txManager, testCalendar(), nopLogger{})
	return f
}

func validRequest() *Request {
	start, _ := types.ParseClockTime("10:00")
	return &Request{
		CustomerID: 7,
		VehicleIDs: []int64{100},
		ServiceIDs: []int64{200},
		Date:       time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC),
		StartTime:  start,
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	require.NotNil(t, resp.Appointment)
	assert.True(t, resp.Validation.IsValid)
	assert.Empty(t, resp.Validation.Errors)

	assert.Equal(t, int64(42), resp.Appointment.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Appointment.Status)
	assert.Equal(t, 45, resp.Appointment.EstimatedDurationMinutes)
	assert.Equal(t, []string{"Замена масла"}, resp.Appointment.ServiceNames)
	assert.Equal(t, 3500.0, resp.Appointment.TotalPrice)

	// Создание прошло внутри транзакции с повторной проверкой вместимости
	assert.Equal(t, 1, f.txManager.calls)
	assert.Equal(t, 2, f.validator.capacityCalls)

	require.NotNil(t, f.repo.created)
	assert.Equal(t, "10:00", f.repo.created.ScheduledTime.String())
	assert.Equal(t, "10:00", f.repo.created.PreferredTime.String())
}

func TestExecute_SequentialScalingForMultipleVehicles(t *testing.T) {
	f := newFixture(t)
	f.garage.vehicles = []garageservice.Vehicle{
		{ID: 100, OwnerID: 7, IsActive: true},
		{ID: 101, OwnerID: 7, IsActive: true},
	}

	req := validRequest()
	req.VehicleIDs = []int64{100, 101}

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, resp.Appointment)
	// 45 минут услуги x 2 автомобиля при последовательной стратегии
	assert.Equal(t, 90, resp.Appointment.EstimatedDurationMinutes)
}

func TestExecute_DefaultDurationWithoutEstimates(t *testing.T) {
	f := newFixture(t)
	f.catalog.services = []catalogservice.Service{{ID: 200, Name: "Диагностика", IsActive: true}}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	require.NotNil(t, resp.Appointment)
	assert.Equal(t, domain.DefaultAppointmentDurationMinutes, resp.Appointment.EstimatedDurationMinutes)
	assert.Equal(t, 0.0, resp.Appointment.TotalPrice)
}

func TestExecute_AccumulatesAllViolations(t *testing.T) {
	f := newFixture(t)

	// Невалидное время, конфликт по автомобилю и чужой автомобиль одновременно
	timeResult := domain.NewValidationResult()
	timeResult.AddError(scheduler.MsgNotOperatingDay)
	timeResult.AddError(scheduler.MsgLunchOverlap)
	f.validator.timeResult = timeResult
	f.validator.conflicts = 1
	f.garage.vehicles = nil

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Nil(t, resp.Appointment)
	assert.False(t, resp.Validation.IsValid)
	assert.Contains(t, resp.Validation.Errors, scheduler.MsgNotOperatingDay)
	assert.Contains(t, resp.Validation.Errors, scheduler.MsgLunchOverlap)
	assert.Contains(t, resp.Validation.Errors, MsgVehicleConflict)
	assert.Contains(t, resp.Validation.Errors, MsgVehiclesNotOwned)

	// Вместимость при невалидном времени не проверяется, транзакция не открывается
	assert.Equal(t, 0, f.validator.capacityCalls)
	assert.Equal(t, 0, f.txManager.calls)
}

func TestExecute_SlotFull(t *testing.T) {
	f := newFixture(t)
	f.validator.capacityQueue = []capacityReply{{capacity: available(0)}}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Nil(t, resp.Appointment)
	assert.Contains(t, resp.Validation.Errors, MsgSlotFull)
	assert.Equal(t, 0, f.txManager.calls)
}

func TestExecute_LastSpotWarning(t *testing.T) {
	f := newFixture(t)
	f.validator.capacityQueue = []capacityReply{{capacity: available(1)}, {capacity: available(1)}}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	require.NotNil(t, resp.Appointment)
	assert.True(t, resp.Validation.IsValid)
	assert.Contains(t, resp.Validation.Warnings, scheduler.MsgLastSpotWarning)
}

func TestExecute_ServicesPartiallyFound(t *testing.T) {
	f := newFixture(t)

	req := validRequest()
	req.ServiceIDs = []int64{200, 201, 202}

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Nil(t, resp.Appointment)
	// Одно сообщение, сколько бы услуг ни отсутствовало
	assert.Equal(t, []string{MsgServicesUnavailable}, resp.Validation.Errors)
}

func TestExecute_VehiclesPartiallyOwned(t *testing.T) {
	f := newFixture(t)
	f.garage.vehicles = []garageservice.Vehicle{{ID: 100, OwnerID: 7, IsActive: true}}

	req := validRequest()
	req.VehicleIDs = []int64{100, 999}

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Nil(t, resp.Appointment)
	assert.Contains(t, resp.Validation.Errors, MsgVehiclesNotOwned)
}

func TestExecute_InfraFailuresCollapseToSingleMessage(t *testing.T) {
	f := newFixture(t)

	// Сбой каталога, проверки конфликтов и гаража одновременно
	f.catalog.err = errors.New("catalog: connection refused")
	f.validator.conflictsErr = scheduler.ErrStoreUnavailable
	f.garage.err = errors.New("garage: timeout")

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Nil(t, resp.Appointment)
	// Пользователь видит одно общее сообщение, а не три
	assert.Equal(t, []string{MsgVerificationFailed}, resp.Validation.Errors)
}

func TestExecute_CapacityCheckFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.validator.capacityQueue = []capacityReply{{err: scheduler.ErrStoreUnavailable}}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Nil(t, resp.Appointment)
	assert.Contains(t, resp.Validation.Errors, MsgVerificationFailed)
	assert.Equal(t, 0, f.txManager.calls)
}

func TestExecute_SlotLostToConcurrentBooking(t *testing.T) {
	f := newFixture(t)
	// Предварительная проверка видит свободное место, повторная под блокировкой - нет
	f.validator.capacityQueue = []capacityReply{{capacity: available(1)}, {capacity: available(0)}}

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Nil(t, resp)
	assert.Nil(t, f.repo.created)
}

func TestExecute_RepositoryFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("pq: deadlock detected")

	_, err := f.uc.Execute(context.Background(), validRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_InvalidInput(t *testing.T) {
	longNotes := make([]byte, domain.MaxNotesLength+1)
	for i := range longNotes {
		longNotes[i] = 'a'
	}

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"no customer", func(req *Request) { req.CustomerID = 0 }},
		{"no vehicles", func(req *Request) { req.VehicleIDs = nil }},
		{"too many vehicles", func(req *Request) {
			req.VehicleIDs = make([]int64, domain.MaxVehiclesPerAppointment+1)
			for i := range req.VehicleIDs {
				req.VehicleIDs[i] = int64(i + 1)
			}
		}},
		{"duplicate vehicles", func(req *Request) { req.VehicleIDs = []int64{100, 100} }},
		{"no services", func(req *Request) { req.ServiceIDs = nil }},
		{"duplicate services", func(req *Request) { req.ServiceIDs = []int64{200, 200} }},
		{"no date", func(req *Request) { req.Date = time.Time{} }},
		{"invalid time", func(req *Request) { req.StartTime = types.ClockTime(types.MinutesPerDay) }},
		{"notes too long", func(req *Request) { req.Notes = ptr.Ptr(string(longNotes)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, f.txManager.calls)
		})
	}
}
