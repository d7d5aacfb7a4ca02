package get_available_dates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduler"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// fakeStore хранилище записей для тестов
type fakeStore struct {
	appointments []*domain.Appointment
	err          error
	findCalls    int
	lastFilter   domain.AppointmentFilter
}

func (s *fakeStore) Find(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	s.findCalls++
	s.lastFilter = filter
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

// testCalendar Пн-Сб 09:00-18:00, обед 12:00-13:00, шаг 30 минут, 3 поста,
// 2025-10-14 заблокирована
func testCalendar(t *testing.T) domain.BusinessCalendar {
	t.Helper()

	return domain.BusinessCalendar{
		OperatingDays: map[time.Weekday]bool{
			time.Monday: true, time.Tuesday: true, time.Wednesday: true,
			time.Thursday: true, time.Friday: true, time.Saturday: true,
		},
		OpenTime:  mustClock(t, "09:00"),
		CloseTime: mustClock(t, "18:00"),
		Lunch: domain.LunchBreak{
			Enabled: true,
			Start:   mustClock(t, "12:00"),
			End:     mustClock(t, "13:00"),
		},
		SlotDurationMinutes:       30,
		MaxConcurrentAppointments: 3,
		AdvanceBookingDays:        30,
		MinimumNoticeHours:        2,
		BlockedDates:              map[string]bool{"2025-10-14": true},
		MultiVehicleStrategy:      domain.StrategySequential,
		Location:                  time.UTC,
	}
}

// apptAt подтвержденная запись на date со временем start
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

// now понедельник 2025-10-13 08:00 UTC
func testNow() time.Time {
	return time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
}

func day(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

func newTestUseCase(t *testing.T, store *fakeStore) *UseCase {
	t.Helper()
	calendar := testCalendar(t)
	generator := scheduler.NewGenerator(calendar)
	validator := scheduler.NewValidator(calendar, store, &fixedTime{now: testNow()}, nopLogger{})
	return NewUseCase(calendar, store, generator, validator, nopLogger{}).
		WithTimeProvider(&fixedTime{now: testNow()})
}

func dateByKey(t *testing.T, resp *Response, date time.Time) DateAvailability {
	t.Helper()
	for _, d := range resp.Dates {
		if d.Date.Equal(date) {
			return d
		}
	}
	t.Fatalf("date %s not in response", date.Format(domain.DateFormat))
	return DateAvailability{}
}

func TestExecute_DefaultsToBookingWindow(t *testing.T) {
	store := &fakeStore{}
	uc := newTestUseCase(t, store)

	resp, err := uc.Execute(context.Background(), &Request{})

	require.NoError(t, err)
	assert.Equal(t, day(13), resp.From)
	assert.Equal(t, 30, resp.Days)
	assert.Len(t, resp.Dates, 30)
}

func TestExecute_SingleStoreFetchForWholeRange(t *testing.T) {
	store := &fakeStore{appointments: []*domain.Appointment{
		apptAt(t, day(13), "10:00", 60),
		apptAt(t, day(13), "10:00", 60),
		apptAt(t, day(13), "10:00", 60),
		apptAt(t, day(15), "14:00", 30),
	}}
	uc := newTestUseCase(t, store)

	resp, err := uc.Execute(context.Background(), &Request{From: day(13), Days: 7})

	require.NoError(t, err)
	assert.Equal(t, 1, store.findCalls)

	// Границы выборки покрывают весь диапазон
	require.NotNil(t, store.lastFilter.DateFrom)
	require.NotNil(t, store.lastFilter.DateTo)
	assert.Equal(t, day(13), *store.lastFilter.DateFrom)
	assert.Equal(t, 19, store.lastFilter.DateTo.Day())
	assert.Equal(t, domain.TerminalStatuses, store.lastFilter.ExcludeStatuses)

	// Понедельник: три записи 10:00-11:00 закрывают слоты 10:00 и 10:30
	monday := dateByKey(t, resp, day(13))
	assert.True(t, monday.IsOperating)
	assert.True(t, monday.HasCapacity)
	assert.Equal(t, 16, monday.TotalSlots)
	assert.Equal(t, 14, monday.OpenSlots)

	// Среда: одна запись вместимость не исчерпывает
	wednesday := dateByKey(t, resp, day(15))
	assert.Equal(t, 16, wednesday.OpenSlots)
}

func TestExecute_NonOperatingDay(t *testing.T) {
	uc := newTestUseCase(t, &fakeStore{})

	resp, err := uc.Execute(context.Background(), &Request{From: day(13), Days: 7})

	require.NoError(t, err)
	sunday := dateByKey(t, resp, day(19))
	assert.False(t, sunday.IsOperating)
	assert.False(t, sunday.HasCapacity)
	assert.Zero(t, sunday.TotalSlots)
}

func TestExecute_BlockedDate(t *testing.T) {
	uc := newTestUseCase(t, &fakeStore{})

	resp, err := uc.Execute(context.Background(), &Request{From: day(13), Days: 3})

	require.NoError(t, err)
	blocked := dateByKey(t, resp, day(14))
	assert.True(t, blocked.IsBlocked)
	assert.False(t, blocked.HasCapacity)
	assert.Zero(t, blocked.TotalSlots)
}

func TestExecute_MarksDatesBeyondBookingWindow(t *testing.T) {
	uc := newTestUseCase(t, &fakeStore{})

	// Горизонт: сегодня (13 октября) + 30 дней = 12 ноября
	resp, err := uc.Execute(context.Background(), &Request{
		From: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
		Days: 5,
	})

	require.NoError(t, err)
	within := dateByKey(t, resp, time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC))
	assert.True(t, within.WithinWindow)

	beyond := dateByKey(t, resp, time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC))
	assert.False(t, beyond.WithinWindow)
	assert.False(t, beyond.HasCapacity)
	assert.Zero(t, beyond.TotalSlots)
}

func TestExecute_RangeTooLong(t *testing.T) {
	uc := newTestUseCase(t, &fakeStore{})

	_, err := uc.Execute(context.Background(), &Request{Days: MaxRangeDays + 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_NegativeDays(t *testing.T) {
	uc := newTestUseCase(t, &fakeStore{})

	_, err := uc.Execute(context.Background(), &Request{Days: -1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	uc := newTestUseCase(t, store)

	_, err := uc.Execute(context.Background(), &Request{From: day(13), Days: 7})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
