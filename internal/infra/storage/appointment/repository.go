package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// appointmentColumns полный список колонок таблицы appointments
var appointmentColumns = []string{
	"id",
	"customer_id",
	"vehicle_ids",
	"service_ids",
	"preferred_date",
	"scheduled_date",
	"preferred_time",
	"scheduled_time",
	"estimated_duration_minutes",
	"status",
	"service_names",
	"total_price",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на обслуживание
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись на обслуживание
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Иначе выполняет обычный запрос без транзакции
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"customer_id",
			"vehicle_ids",
			"service_ids",
			"preferred_date",
			"scheduled_date",
			"preferred_time",
			"scheduled_time",
			"estimated_duration_minutes",
			"status",
			"service_names",
			"total_price",
			"notes",
		).
		Values(
			appt.CustomerID,
			pq.Array(appt.VehicleIDs),
			pq.Array(appt.ServiceIDs),
			appt.PreferredDate,
			appt.ScheduledDate,
			clockToNullString(appt.PreferredTime),
			clockToNullString(appt.ScheduledTime),
			appt.EstimatedDurationMinutes,
			appt.Status,
			pq.Array(appt.ServiceNames),
			appt.TotalPrice,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments, err := r.scanAppointments(rows)
	if err != nil {
		return nil, err
	}

	if len(appointments) == 0 {
		return nil, ErrAppointmentNotFound
	}

	return appointments[0], nil
}

// GetByCustomerID получает список записей клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("COALESCE(scheduled_date, preferred_date) DESC, COALESCE(scheduled_time, preferred_time) DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// Find получает записи по фильтру планировщика
//
// Период применяется к эффективной дате: scheduled_date, а для
// неподтвержденных записей - preferred_date. Границы периода включительные.
// ExcludeStatuses исключает статусы из выборки (терминальные при подсчете
// вместимости), VehicleIDs фильтрует по пересечению с массивом автомобилей.
//
// Внутри транзакции для однодневной выборки добавляется FOR UPDATE:
// строки дня блокируются на время проверки вместимости при создании записи
func (r *Repository) Find(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments")

	// Фильтрация по периоду: scheduled_date ИЛИ preferred_date в границах
	if filter.DateFrom != nil && filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.And{
				squirrel.GtOrEq{"scheduled_date": *filter.DateFrom},
				squirrel.LtOrEq{"scheduled_date": *filter.DateTo},
			},
			squirrel.And{
				squirrel.Eq{"scheduled_date": nil},
				squirrel.GtOrEq{"preferred_date": *filter.DateFrom},
				squirrel.LtOrEq{"preferred_date": *filter.DateTo},
			},
		})
	}

	// Фильтрация по клиенту
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}

	// Исключение статусов
	if len(filter.ExcludeStatuses) > 0 {
		excluded := make([]string, len(filter.ExcludeStatuses))
		for i, s := range filter.ExcludeStatuses {
			excluded[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": excluded})
	}

	// Фильтрация по автомобилям (пересечение массивов)
	if len(filter.VehicleIDs) > 0 {
		selectBuilder = selectBuilder.Where("vehicle_ids && ?", pq.Array(filter.VehicleIDs))
	}

	singleDay := filter.DateFrom != nil && filter.DateTo != nil &&
		filter.DateFrom.Format(domain.DateFormat) == filter.DateTo.Format(domain.DateFormat)

	// Для конкретного дня сортируем по времени начала, для периода - сначала новые
	if singleDay {
		selectBuilder = selectBuilder.OrderBy("COALESCE(scheduled_time, preferred_time) ASC NULLS FIRST")
	} else {
		selectBuilder = selectBuilder.OrderBy("COALESCE(scheduled_date, preferred_date) DESC, COALESCE(scheduled_time, preferred_time) DESC")
	}

	// Если используется транзакция, добавляем FOR UPDATE для блокировки
	// (только для конкретной даты - для usecase создания записи)
	if dbmetrics.IsInTransaction(ctx) && singleDay {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Find - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Find - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Cancel отменяет запись с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.AppointmentStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		var appt domain.Appointment
		var preferredTime, scheduledTime sql.NullString
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&appt.ID,
			&appt.CustomerID,
			pq.Array(&appt.VehicleIDs),
			pq.Array(&appt.ServiceIDs),
			&appt.PreferredDate,
			&appt.ScheduledDate,
			&preferredTime,
			&scheduledTime,
			&appt.EstimatedDurationMinutes,
			&appt.Status,
			pq.Array(&appt.ServiceNames),
			&appt.TotalPrice,
			&appt.Notes,
			&appt.CancellationReason,
			&appt.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		appt.PreferredTime, err = nullStringToClock(preferredTime)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - preferred_time: %v", ErrScanRow, err)
		}
		appt.ScheduledTime, err = nullStringToClock(scheduledTime)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scheduled_time: %v", ErrScanRow, err)
		}

		appt.CreatedAt = createdAt.Time
		appt.UpdatedAt = updatedAt.Time

		appointments = append(appointments, &appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// clockToNullString конвертирует *ClockTime в nullable значение для БД
func clockToNullString(t *types.ClockTime) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.String(), Valid: true}
}

// nullStringToClock парсит nullable колонку TIME ("HH:MM:SS") в *ClockTime
func nullStringToClock(s sql.NullString) (*types.ClockTime, error) {
	if !s.Valid {
		return nil, nil
	}

	var t types.ClockTime
	if err := t.Scan(s.String); err != nil {
		return nil, err
	}
	return &t, nil
}
