package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTimeFormat возвращается при некорректном формате времени (ожидается HH:MM)
	ErrInvalidTimeFormat = errors.New("types: invalid time format, expected HH:MM")

	// ErrTimeOutOfRange возвращается, когда результат операции выходит за пределы суток
	ErrTimeOutOfRange = errors.New("types: time out of range")
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

// ClockTime время суток в минутах с полуночи
// Инвариант: 0 <= ClockTime < 1440
// Внешнее представление - строка "HH:MM" (24-часовой формат)
//
// Вся арифметика со временем в сервисе выполняется в целых минутах
// в рамках одного календарного дня. Переход через полночь запрещён:
// AddMinutes возвращает ErrTimeOutOfRange вместо невалидного времени.
type ClockTime int

// ParseClockTime парсит строку "HH:MM" в ClockTime
// Строго валидирует формат: ровно 5 символов, цифры, часы 0-23, минуты 0-59
func ParseClockTime(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}
	}

	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	minutes := int(s[3]-'0')*10 + int(s[4]-'0')

	if hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	return ClockTime(hours*60 + minutes), nil
}

// ClockTimeFromTime извлекает время суток из time.Time
func ClockTimeFromTime(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

// String возвращает каноническое представление "HH:MM" (с ведущими нулями)
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Display возвращает 12-часовое представление "h:mm AM/PM"
// Полдень - "12:00 PM", полночь - "12:00 AM"
func (t ClockTime) Display() string {
	hours := int(t) / 60
	minutes := int(t) % 60

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}

	displayHours := hours % 12
	if displayHours == 0 {
		displayHours = 12
	}

	return fmt.Sprintf("%d:%02d %s", displayHours, minutes, period)
}

// AddMinutes возвращает время, сдвинутое на delta минут
// Возвращает ErrTimeOutOfRange, если результат выходит за пределы суток
func (t ClockTime) AddMinutes(delta int) (ClockTime, error) {
	result := int(t) + delta
	if result < 0 || result >= MinutesPerDay {
		return 0, fmt.Errorf("%w: %s + %d minutes", ErrTimeOutOfRange, t, delta)
	}
	return ClockTime(result), nil
}

// IsBefore возвращает true, если t строго раньше other
func (t ClockTime) IsBefore(other ClockTime) bool {
	return t < other
}

// IsAfter возвращает true, если t строго позже other
func (t ClockTime) IsAfter(other ClockTime) bool {
	return t > other
}

// Minutes возвращает количество минут с полуночи
func (t ClockTime) Minutes() int {
	return int(t)
}

// IsValid проверяет инвариант 0 <= t < 1440
func (t ClockTime) IsValid() bool {
	return t >= 0 && t < MinutesPerDay
}

// Value реализует driver.Valuer - в БД время хранится строкой "HH:MM"
func (t ClockTime) Value() (driver.Value, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, int(t))
	}
	return t.String(), nil
}

// Scan реализует sql.Scanner
func (t *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseClockTime(truncateTimeString(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := ParseClockTime(truncateTimeString(string(v)))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		*t = ClockTimeFromTime(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeFormat, src)
	}
}

// truncateTimeString обрезает "HH:MM:SS" (формат колонки TIME в postgres) до "HH:MM"
func truncateTimeString(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
