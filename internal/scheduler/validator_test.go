package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// fakeStore хранилище записей для тестов
type fakeStore struct {
	appointments []*domain.Appointment
	err          error
	findCalls    int
}

func (s *fakeStore) Find(_ context.Context, _ domain.AppointmentFilter) ([]*domain.Appointment, error) {
	s.findCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.appointments, nil
}

// fixedTime провайдер фиксированного времени
type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

// nopLogger логгер-заглушка
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mustClock(t *testing.T, s string) types.ClockTime {
	t.Helper()
	ct, err := types.ParseClockTime(s)
	require.NoError(t, err)
	return ct
}

// apptAt подтвержденная запись на date со временем start и длительностью durationMinutes
func apptAt(t *testing.T, date time.Time, start string, durationMinutes int) *domain.Appointment {
	t.Helper()
	return &domain.Appointment{
		CustomerID:               1,
		VehicleIDs:               []int64{100},
		ServiceIDs:               []int64{200},
		PreferredDate:            date,
		ScheduledDate:            ptr.Ptr(date),
		ScheduledTime:            ptr.Ptr(mustClock(t, start)),
		EstimatedDurationMinutes: ptr.Ptr(durationMinutes),
		Status:                   domain.StatusConfirmed,
	}
}

func newTestValidator(t *testing.T, store *fakeStore, now time.Time) *Validator {
	t.Helper()
	return NewValidator(testCalendar(t), store, &fixedTime{now: now}, nopLogger{})
}

// now 2025-10-01 10:00 UTC (среда)
func testNow() time.Time {
	return time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)
}

func TestValidateTime_Valid(t *testing.T) {
	v := newTestValidator(t, &fakeStore{}, testNow())

	result := v.ValidateTime(monday(), mustClock(t, "10:00"), 60)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateTime_PastTime(t *testing.T) {
	v := newTestValidator(t, &fakeStore{}, testNow())

	// Вчерашний день
	past := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	result := v.ValidateTime(past, mustClock(t, "10:00"), 60)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, MsgTimeInPast)
	// Правило минимального времени не дублирует ошибку о прошлом
	assert.NotContains(t, result.Errors, msgInsufficientNotice(2))
}

func TestValidateTime_InsufficientNotice(t *testing.T) {
	v := newTestValidator(t, &fakeStore{}, testNow())

	// Сегодня 11:00 при now=10:00 и минимальном времени 2 часа
	today := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	result := v.ValidateTime(today, mustClock(t, "11:00"), 30)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, msgInsufficientNotice(2))
	assert.NotContains(t, result.Errors, MsgTimeInPast)
}

func TestValidateTime_BeyondBookingWindow(t *testing.T) {
	v := newTestValidator(t, &fakeStore{}, testNow())

	farFuture := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	result := v.ValidateTime(farFuture, mustClock(t, "10:00"), 30)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, msgBeyondBookingWindow(30))
}

func TestValidateTime_AccumulatesAllViolations(t *testing.T) {
	v := newTestValidator(t, &fakeStore{}, testNow())

	// Воскресенье внутри окна, время пересекает обед И выходит за рабочие часы
	sun := time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC)
	result := v.ValidateTime(sun, mustClock(t, "11:30"), 600)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, MsgNotOperatingDay)
	assert.Contains(t, result.Errors, MsgLunchOverlap)
	assert.Contains(t, result.Errors, MsgOutsideWorkingHours)
	// Все нарушения собраны за один вызов
	assert.GreaterOrEqual(t, len(result.Errors), 3)
}

func TestValidateTime_BlockedDate(t *testing.T) {
	v := newTestValidator(t, &fakeStore{}, time.Date(2025, 12, 20, 10, 0, 0, 0, time.UTC))

	blocked := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	result := v.ValidateTime(blocked, mustClock(t, "10:00"), 30)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, MsgBlockedDate)
}

func TestValidateTime_BeforeOpening(t *testing.T) {
	v := newTestValidator(t, &fakeStore{}, testNow())

	result := v.ValidateTime(monday(), mustClock(t, "08:00"), 30)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, MsgOutsideWorkingHours)
	// За пределами рабочих часов - ровно одно сообщение
	assert.Len(t, result.Errors, 1)
}

func TestValidateTime_EndsExactlyAtClose(t *testing.T) {
	v := newTestValidator(t, &fakeStore{}, testNow())

	result := v.ValidateTime(monday(), mustClock(t, "17:00"), 60)

	assert.True(t, result.IsValid)
}

func TestCheckCapacity_EmptyDay(t *testing.T) {
	store := &fakeStore{}
	v := newTestValidator(t, store, testNow())

	capacity, err := v.CheckCapacity(context.Background(), monday(), mustClock(t, "10:00"), 60)

	require.NoError(t, err)
	assert.True(t, capacity.IsAvailable)
	assert.Equal(t, 0, capacity.CapacityUsed)
	assert.Equal(t, 3, capacity.CapacityTotal)
	assert.Equal(t, 3, capacity.CapacityRemaining)
}

func TestCheckCapacity_SlotFull(t *testing.T) {
	store := &fakeStore{appointments: []*domain.Appointment{
		apptAt(t, monday(), "10:00", 60),
		apptAt(t, monday(), "10:00", 60),
		apptAt(t, monday(), "10:00", 60),
	}}
	v := newTestValidator(t, store, testNow())

	capacity, err := v.CheckCapacity(context.Background(), monday(), mustClock(t, "10:00"), 60)

	require.NoError(t, err)
	assert.False(t, capacity.IsAvailable)
	assert.Equal(t, 3, capacity.CapacityUsed)
	assert.Equal(t, 0, capacity.CapacityRemaining)
}

func TestCheckCapacity_LastSpot(t *testing.T) {
	store := &fakeStore{appointments: []*domain.Appointment{
		apptAt(t, monday(), "10:00", 60),
		apptAt(t, monday(), "10:30", 60),
	}}
	v := newTestValidator(t, store, testNow())

	capacity, err := v.CheckCapacity(context.Background(), monday(), mustClock(t, "10:00"), 60)

	require.NoError(t, err)
	assert.True(t, capacity.IsAvailable)
	assert.Equal(t, 2, capacity.CapacityUsed)
	assert.Equal(t, 1, capacity.CapacityRemaining)
}

func TestCheckCapacity_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	v := newTestValidator(t, store, testNow())

	_, err := v.CheckCapacity(context.Background(), monday(), mustClock(t, "10:00"), 60)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestCountOverlapping_StrictBoundaries(t *testing.T) {
	v := newTestValidator(t, &fakeStore{}, testNow())

	appointments := []*domain.Appointment{
		apptAt(t, monday(), "11:20", 20), // 11:20-11:40, пересекает
		apptAt(t, monday(), "11:00", 30), // 11:00-11:30, граничит - не пересекает
		apptAt(t, monday(), "12:00", 30), // 12:00-12:30, граничит - не пересекает
	}

	// Слот 11:30-12:00
	count := v.CountOverlapping(appointments, mustClock(t, "11:30"), 30)

	assert.Equal(t, 1, count)
}

func TestCountOverlapping_IgnoresTerminalStatuses(t *testing.T) {
	v := newTestValidator(t, &fakeStore{}, testNow())

	cancelled := apptAt(t, monday(), "10:00", 60)
	cancelled.Status = domain.StatusCancelledByUser
	completed := apptAt(t, monday(), "10:00", 60)
	completed.Status = domain.StatusCompleted
	active := apptAt(t, monday(), "10:00", 60)

	count := v.CountOverlapping([]*domain.Appointment{cancelled, completed, active}, mustClock(t, "10:00"), 60)

	assert.Equal(t, 1, count)
}

func TestCountOverlapping_ResolvesEffectiveTime(t *testing.T) {
	v := newTestValidator(t, &fakeStore{}, testNow())

	// Запись без scheduled времени использует preferred
	preferredOnly := &domain.Appointment{
		PreferredDate:            monday(),
		PreferredTime:            ptr.Ptr(mustClock(t, "10:00")),
		EstimatedDurationMinutes: ptr.Ptr(60),
		Status:                   domain.StatusPending,
	}

	// Запись вовсе без времени считается от открытия с дефолтной длительностью
	noTime := &domain.Appointment{
		PreferredDate: monday(),
		Status:        domain.StatusPending,
	}

	appointments := []*domain.Appointment{preferredOnly, noTime}

	assert.Equal(t, 2, v.CountOverlapping(appointments, mustClock(t, "09:30"), 60))
	assert.Equal(t, 1, v.CountOverlapping(appointments, mustClock(t, "10:30"), 30))
	assert.Equal(t, 0, v.CountOverlapping(appointments, mustClock(t, "15:00"), 60))
}

func TestCheckCapacity_Monotonicity(t *testing.T) {
	// Добавление записи никогда не увеличивает доступность слота
	store := &fakeStore{}
	v := newTestValidator(t, store, testNow())

	before, err := v.CheckCapacity(context.Background(), monday(), mustClock(t, "10:00"), 60)
	require.NoError(t, err)

	store.appointments = append(store.appointments, apptAt(t, monday(), "10:00", 60))

	after, err := v.CheckCapacity(context.Background(), monday(), mustClock(t, "10:00"), 60)
	require.NoError(t, err)

	assert.LessOrEqual(t, after.CapacityRemaining, before.CapacityRemaining)
}

func TestAnnotateSlots_SingleStoreFetch(t *testing.T) {
	store := &fakeStore{appointments: []*domain.Appointment{
		apptAt(t, monday(), "10:00", 60),
		apptAt(t, monday(), "10:00", 60),
		apptAt(t, monday(), "10:00", 60),
	}}
	v := newTestValidator(t, store, testNow())
	g := NewGenerator(testCalendar(t))

	slots, err := v.AnnotateSlots(context.Background(), g, monday(), 30)

	require.NoError(t, err)
	require.NotEmpty(t, slots)
	// Одна выборка на всю сетку, а не по запросу на слот
	assert.Equal(t, 1, store.findCalls)

	bySlot := make(map[string]domain.AvailableSlot, len(slots))
	for _, s := range slots {
		bySlot[s.StartTime.String()] = s
	}

	// 10:00 и 10:30 заняты тремя записями 10:00-11:00
	assert.Equal(t, 0, bySlot["10:00"].AvailableSpots)
	assert.Equal(t, 0, bySlot["10:30"].AvailableSpots)
	// 11:00 свободен: записи граничат с ним
	assert.Equal(t, 3, bySlot["11:00"].AvailableSpots)
}

func TestAnnotateSlots_ClosedDayNoFetch(t *testing.T) {
	store := &fakeStore{}
	v := newTestValidator(t, store, testNow())
	g := NewGenerator(testCalendar(t))

	slots, err := v.AnnotateSlots(context.Background(), g, sunday(), 30)

	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Equal(t, 0, store.findCalls)
}

func TestAnnotateSlots_TodayFiltersByNotice(t *testing.T) {
	// now = понедельник 13:00, минимальное время 2 часа: слоты раньше 15:00 скрыты
	now := time.Date(2025, 10, 13, 13, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	v := newTestValidator(t, store, now)
	g := NewGenerator(testCalendar(t))

	slots, err := v.AnnotateSlots(context.Background(), g, monday(), 30)

	require.NoError(t, err)
	require.NotEmpty(t, slots)
	for _, slot := range slots {
		assert.GreaterOrEqual(t, slot.StartTime.Minutes(), mustClock(t, "15:00").Minutes())
	}
}

func TestAnnotateSlots_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	v := newTestValidator(t, store, testNow())
	g := NewGenerator(testCalendar(t))

	_, err := v.AnnotateSlots(context.Background(), g, monday(), 30)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestCountVehicleConflicts(t *testing.T) {
	conflicting := apptAt(t, monday(), "10:00", 60)
	conflicting.VehicleIDs = []int64{100}

	store := &fakeStore{appointments: []*domain.Appointment{conflicting}}
	v := newTestValidator(t, store, testNow())

	count, err := v.CountVehicleConflicts(context.Background(), monday(), mustClock(t, "10:30"), 60, []int64{100})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Без автомобилей проверка не обращается к хранилищу
	calls := store.findCalls
	count, err = v.CountVehicleConflicts(context.Background(), monday(), mustClock(t, "10:30"), 60, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, calls, store.findCalls)
}
