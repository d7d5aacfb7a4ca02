package domain

// Default fallback values
// Явные именованные константы вместо "магических" значений в коде:
// конструкторы принимают их как дефолты, тесты могут переопределять
const (
	// DefaultAppointmentDurationMinutes длительность записи, у которой не указана оценка
	DefaultAppointmentDurationMinutes = 60

	// DefaultSlotDurationMinutes шаг сетки слотов по умолчанию
	DefaultSlotDurationMinutes = 30

	// DefaultMaxConcurrentAppointments вместимость слота по умолчанию
	DefaultMaxConcurrentAppointments = 3
)

// Business validation constants
const (
	MinSlotDurationMinutes        = 5
	MaxSlotDurationMinutes        = 480 // 8 hours
	MinConcurrentAppointments     = 1
	MaxConcurrentAppointments     = 100
	MinAdvanceBookingDays         = 0
	MaxAdvanceBookingDays         = 365 // 1 year
	MinNoticeHours                = 0
	MaxNoticeHours                = 168 // 1 week
	MaxAppointmentDurationMinutes = 720 // 12 hours
	MaxNotesLength                = 500
	MaxCancellationReasonLength   = 500
	MaxVehiclesPerAppointment     = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses статусы, не занимающие вместимость слота
// Используются для исключения записей при подсчёте доступных мест
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelledByUser,
	StatusCancelledByCompany,
}

// ActiveStatuses статусы записей, занимающих вместимость слота
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}
