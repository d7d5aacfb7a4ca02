package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	// ErrReadConfig возвращается при ошибке чтения файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса, загружается из config.toml один раз при старте
type Config struct {
	Server         Server         `toml:"server"`
	Database       Database       `toml:"database"`
	Logs           Logs           `toml:"logs"`
	Metrics        Metrics        `toml:"metrics"`
	GarageService  GarageService  `toml:"garage_service"`
	CatalogService CatalogService `toml:"catalog_service"`
	Calendar       Calendar       `toml:"calendar"`
}

// Server настройки HTTP сервера
type Server struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // seconds
	WriteTimeout    int `toml:"write_timeout"`    // seconds
	IdleTimeout     int `toml:"idle_timeout"`     // seconds
	ShutdownTimeout int `toml:"shutdown_timeout"` // seconds
}

// Database настройки подключения к PostgreSQL
type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN возвращает строку подключения к PostgreSQL
func (d *Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Logs настройки логирования
type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Metrics настройки prometheus метрик
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// GarageService настройки клиента справочника автомобилей
type GarageService struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // seconds
}

// CatalogService настройки клиента каталога услуг
type CatalogService struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // seconds
}

// Calendar бизнес-календарь сервис-центра в том виде, в котором он задается в toml
// Конвертируется в domain.BusinessCalendar методом ToDomain
type Calendar struct {
	// OperatingDays дни недели: 0 = Sunday ... 6 = Saturday
	OperatingDays []int  `toml:"operating_days"`
	OpenTime      string `toml:"open_time"`  // "09:00"
	CloseTime     string `toml:"close_time"` // "18:00"

	LunchEnabled bool   `toml:"lunch_enabled"`
	LunchStart   string `toml:"lunch_start"` // "12:00"
	LunchEnd     string `toml:"lunch_end"`   // "13:00"

	SlotDurationMinutes       int `toml:"slot_duration_minutes"`
	MaxConcurrentAppointments int `toml:"max_concurrent_appointments"`
	AdvanceBookingDays        int `toml:"advance_booking_days"`
	MinimumNoticeHours        int `toml:"minimum_notice_hours"`

	// BlockedDates даты в формате YYYY-MM-DD
	BlockedDates []string `toml:"blocked_dates"`

	// MultiVehicleStrategy "sequential" или "parallel"
	MultiVehicleStrategy string `toml:"multi_vehicle_strategy"`

	BufferTimeMinutes int `toml:"buffer_time_minutes"`

	// Timezone IANA имя часового пояса, в котором считаются границы дня и "сегодня"
	// Явная настройка, чтобы не зависеть от пояса сервера
	Timezone string `toml:"timezone"`
}

// Load загружает и валидирует конфигурацию из toml файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	// Календарь валидируется при конвертации в доменную модель
	if _, err := c.Calendar.ToDomain(); err != nil {
		return err
	}
	return nil
}

// ToDomain конвертирует календарь в иммутабельную доменную модель
func (c *Calendar) ToDomain() (domain.BusinessCalendar, error) {
	var cal domain.BusinessCalendar

	openTime, err := types.ParseClockTime(c.OpenTime)
	if err != nil {
		return cal, fmt.Errorf("%w: calendar.open_time: %v", ErrInvalidConfig, err)
	}
	closeTime, err := types.ParseClockTime(c.CloseTime)
	if err != nil {
		return cal, fmt.Errorf("%w: calendar.close_time: %v", ErrInvalidConfig, err)
	}
	if !openTime.IsBefore(closeTime) {
		return cal, fmt.Errorf("%w: calendar.open_time must be before close_time", ErrInvalidConfig)
	}

	lunch := domain.LunchBreak{Enabled: c.LunchEnabled}
	if c.LunchEnabled {
		lunch.Start, err = types.ParseClockTime(c.LunchStart)
		if err != nil {
			return cal, fmt.Errorf("%w: calendar.lunch_start: %v", ErrInvalidConfig, err)
		}
		lunch.End, err = types.ParseClockTime(c.LunchEnd)
		if err != nil {
			return cal, fmt.Errorf("%w: calendar.lunch_end: %v", ErrInvalidConfig, err)
		}
		if !lunch.Start.IsBefore(lunch.End) {
			return cal, fmt.Errorf("%w: calendar.lunch_start must be before lunch_end", ErrInvalidConfig)
		}
	}

	if len(c.OperatingDays) == 0 {
		return cal, fmt.Errorf("%w: calendar.operating_days is required", ErrInvalidConfig)
	}
	operatingDays := make(map[time.Weekday]bool, len(c.OperatingDays))
	for _, d := range c.OperatingDays {
		if d < 0 || d > 6 {
			return cal, fmt.Errorf("%w: calendar.operating_days: invalid weekday %d", ErrInvalidConfig, d)
		}
		operatingDays[time.Weekday(d)] = true
	}

	if c.SlotDurationMinutes < domain.MinSlotDurationMinutes || c.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return cal, fmt.Errorf("%w: calendar.slot_duration_minutes must be in [%d, %d]",
			ErrInvalidConfig, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if c.MaxConcurrentAppointments < domain.MinConcurrentAppointments || c.MaxConcurrentAppointments > domain.MaxConcurrentAppointments {
		return cal, fmt.Errorf("%w: calendar.max_concurrent_appointments must be in [%d, %d]",
			ErrInvalidConfig, domain.MinConcurrentAppointments, domain.MaxConcurrentAppointments)
	}
	if c.AdvanceBookingDays < domain.MinAdvanceBookingDays || c.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return cal, fmt.Errorf("%w: calendar.advance_booking_days must be in [%d, %d]",
			ErrInvalidConfig, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if c.MinimumNoticeHours < domain.MinNoticeHours || c.MinimumNoticeHours > domain.MaxNoticeHours {
		return cal, fmt.Errorf("%w: calendar.minimum_notice_hours must be in [%d, %d]",
			ErrInvalidConfig, domain.MinNoticeHours, domain.MaxNoticeHours)
	}
	if c.BufferTimeMinutes < 0 {
		return cal, fmt.Errorf("%w: calendar.buffer_time_minutes must be non-negative", ErrInvalidConfig)
	}

	blockedDates := make(map[string]bool, len(c.BlockedDates))
	for _, d := range c.BlockedDates {
		if _, err := time.Parse(domain.DateFormat, d); err != nil {
			return cal, fmt.Errorf("%w: calendar.blocked_dates: invalid date %q", ErrInvalidConfig, d)
		}
		blockedDates[d] = true
	}

	strategy := domain.MultiVehicleStrategy(c.MultiVehicleStrategy)
	if strategy == "" {
		strategy = domain.StrategySequential
	}
	if strategy != domain.StrategySequential && strategy != domain.StrategyParallel {
		return cal, fmt.Errorf("%w: calendar.multi_vehicle_strategy must be %q or %q",
			ErrInvalidConfig, domain.StrategySequential, domain.StrategyParallel)
	}

	tzName := c.Timezone
	if tzName == "" {
		tzName = "UTC"
	}
	location, err := time.LoadLocation(tzName)
	if err != nil {
		return cal, fmt.Errorf("%w: calendar.timezone: %v", ErrInvalidConfig, err)
	}

	return domain.BusinessCalendar{
		OperatingDays:             operatingDays,
		OpenTime:                  openTime,
		CloseTime:                 closeTime,
		Lunch:                     lunch,
		SlotDurationMinutes:       c.SlotDurationMinutes,
		MaxConcurrentAppointments: c.MaxConcurrentAppointments,
		AdvanceBookingDays:        c.AdvanceBookingDays,
		MinimumNoticeHours:        c.MinimumNoticeHours,
		BlockedDates:              blockedDates,
		MultiVehicleStrategy:      strategy,
		BufferTimeMinutes:         c.BufferTimeMinutes,
		Location:                  location,
	}, nil
}
