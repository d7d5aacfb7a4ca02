package create_appointment

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduler"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// UseCase use case создания записи на обслуживание
//
// Оркестратор собирает ВСЕ нарушения в один ValidationResult, а не
// останавливается на первом: временные правила, вместимость слота,
// конфликт автомобилей, принадлежность автомобилей, доступность услуг.
// Инфраструктурный сбой любой из проверок не превращается в 500:
// пользователь получает одно общее сообщение, реальная причина - в лог.
//
// Запись создается в сериализуемой транзакции с повторной проверкой
// вместимости под блокировкой строк: снимок, увиденный на этапе
// проверок, мог устареть
type UseCase struct {
	appointmentRepo AppointmentRepository
	validator       SlotValidator
	garageClient    GarageServiceClient
	catalogClient   CatalogServiceClient
	txManager       TransactionManager
	calendar        domain.BusinessCalendar
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	validator SlotValidator,
	garageClient GarageServiceClient,
	catalogClient CatalogServiceClient,
	txManager TransactionManager,
	calendar domain.BusinessCalendar,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		validator:       validator,
		garageClient:    garageClient,
		catalogClient:   catalogClient,
		txManager:       txManager,
		calendar:        calendar,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%d, vehicles=%v, services=%v, date=%s, time=%s",
		req.CustomerID, req.VehicleIDs, req.ServiceIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	validation := domain.NewValidationResult()

	// 2. Получаем услуги каталога: они дают базовую длительность,
	// названия и стоимость для денормализации
	services, servicesOK := uc.fetchServices(ctx, req, validation)

	// 3. Эффективная длительность: сумма услуг, масштабированная
	// на количество автомобилей по стратегии календаря
	duration := uc.calendar.ScaleDuration(uc.baseDuration(services, servicesOK), len(req.VehicleIDs))

	// 4. Временные правила календаря (все нарушения сразу)
	validation.Merge(uc.validator.ValidateTime(req.Date, req.StartTime, duration))

	// 5. Вместимость слота - проверяем только при допустимом времени:
	// для заведомо невалидного времени занятость не имеет смысла
	if validation.IsValid {
		uc.checkCapacity(ctx, req, duration, validation)
	}

	// 6. Конфликт по автомобилям: тот же автомобиль не может быть
	// в двух пересекающихся записях
	uc.checkVehicleConflicts(ctx, req, duration, validation)

	// 7. Принадлежность автомобилей пользователю
	uc.checkVehicleOwnership(ctx, req, validation)

	// 8. Невалидная запись - не ошибка usecase: клиент получает полный
	// список нарушений и предупреждений
	if !validation.IsValid {
		uc.logger.Info("CreateAppointment: rejected with %d errors, %d warnings",
			len(validation.Errors), len(validation.Warnings))
		return &Response{Validation: validation}, nil
	}

	// 9. Создаем запись в сериализуемой транзакции с повторной
	// проверкой вместимости под блокировкой (FOR UPDATE)
	var created *domain.Appointment

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		capacity, err := uc.validator.CheckCapacity(txCtx, req.Date, req.StartTime, duration)
		if err != nil {
			uc.logger.Error("CreateAppointment: capacity re-check failed: %v", err)
			return fmt.Errorf("%w: capacity re-check: %v", ErrInternal, err)
		}

		if !capacity.IsAvailable {
			uc.logger.Warn("CreateAppointment: slot lost to concurrent booking, %d/%d used",
				capacity.CapacityUsed, capacity.CapacityTotal)
			return ErrSlotNotAvailable
		}

		appointment := uc.buildAppointment(req, services, duration)

		created, err = uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: create appointment: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", created.ID)

	return &Response{
		Validation:  validation,
		Appointment: toResponseAppointment(created),
	}, nil
}

// fetchServices загружает услуги каталога и проверяет, что все найдены
// Возвращает false вторым значением при инфраструктурном сбое
func (uc *UseCase) fetchServices(ctx context.Context, req *Request, validation *domain.ValidationResult) ([]catalogservice.Service, bool) {
	services, err := uc.catalogClient.GetActiveServices(ctx, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("CreateAppointment: catalog service check failed: %v", err)
		uc.addInfraFailure(validation)
		return nil, false
	}

	// Одно сообщение на проверку, сколько бы услуг ни отсутствовало
	if len(services) != len(req.ServiceIDs) {
		uc.logger.Warn("CreateAppointment: %d of %d services found",
			len(services), len(req.ServiceIDs))
		validation.AddError(MsgServicesUnavailable)
	}

	return services, true
}

// baseDuration считает базовую длительность записи как сумму длительностей услуг
// Без данных каталога или без оценок - дефолтная длительность
func (uc *UseCase) baseDuration(services []catalogservice.Service, servicesOK bool) int {
	if !servicesOK {
		return domain.DefaultAppointmentDurationMinutes
	}

	total := 0
	for _, svc := range services {
		if svc.DurationMinutes != nil {
			total += *svc.DurationMinutes
		}
	}
	if total <= 0 {
		return domain.DefaultAppointmentDurationMinutes
	}
	return total
}

// checkCapacity проверяет вместимость слота и предупреждает о последнем месте
func (uc *UseCase) checkCapacity(ctx context.Context, req *Request, duration int, validation *domain.ValidationResult) {
	capacity, err := uc.validator.CheckCapacity(ctx, req.Date, req.StartTime, duration)
	if err != nil {
		uc.logger.Error("CreateAppointment: capacity check failed: %v", err)
		uc.addInfraFailure(validation)
		return
	}

	if !capacity.IsAvailable {
		validation.AddError(MsgSlotFull)
		return
	}

	if capacity.CapacityRemaining == 1 {
		validation.AddWarning(scheduler.MsgLastSpotWarning)
	}
}

// checkVehicleConflicts проверяет, что автомобили не заняты пересекающимися записями
func (uc *UseCase) checkVehicleConflicts(ctx context.Context, req *Request, duration int, validation *domain.ValidationResult) {
	conflicts, err := uc.validator.CountVehicleConflicts(ctx, req.Date, req.StartTime, duration, req.VehicleIDs)
	if err != nil {
		uc.logger.Error("CreateAppointment: vehicle conflict check failed: %v", err)
		uc.addInfraFailure(validation)
		return
	}

	if conflicts > 0 {
		validation.AddError(MsgVehicleConflict)
	}
}

// checkVehicleOwnership проверяет принадлежность всех автомобилей пользователю
func (uc *UseCase) checkVehicleOwnership(ctx context.Context, req *Request, validation *domain.ValidationResult) {
	vehicles, err := uc.garageClient.GetOwnedVehicles(ctx, req.CustomerID, req.VehicleIDs)
	if err != nil {
		uc.logger.Error("CreateAppointment: vehicle ownership check failed: %v", err)
		uc.addInfraFailure(validation)
		return
	}

	// Одно сообщение на проверку, сколько бы автомобилей ни оказалось чужими
	if len(vehicles) != len(req.VehicleIDs) {
		uc.logger.Warn("CreateAppointment: customer=%d owns %d of %d requested vehicles",
			req.CustomerID, len(vehicles), len(req.VehicleIDs))
		validation.AddError(MsgVehiclesNotOwned)
	}
}

// addInfraFailure добавляет общее сообщение о сбое проверки (не больше одного)
func (uc *UseCase) addInfraFailure(validation *domain.ValidationResult) {
	for _, msg := range validation.Errors {
		if msg == MsgVerificationFailed {
			return
		}
	}
	validation.AddError(MsgVerificationFailed)
}

// buildAppointment собирает доменную запись с денормализацией данных услуг
func (uc *UseCase) buildAppointment(req *Request, services []catalogservice.Service, duration int) *domain.Appointment {
	names := make([]string, 0, len(services))
	totalPrice := 0.0
	for _, svc := range services {
		names = append(names, svc.Name)
		if svc.Price != nil {
			totalPrice += *svc.Price
		}
	}

	return &domain.Appointment{
		CustomerID:               req.CustomerID,
		VehicleIDs:               req.VehicleIDs,
		ServiceIDs:               req.ServiceIDs,
		PreferredDate:            req.Date,
		PreferredTime:            ptr.Ptr(req.StartTime),
		ScheduledDate:            ptr.Ptr(req.Date),
		ScheduledTime:            ptr.Ptr(req.StartTime),
		EstimatedDurationMinutes: ptr.Ptr(duration),
		Status:                   domain.StatusConfirmed,
		ServiceNames:             names,
		TotalPrice:               totalPrice,
		Notes:                    req.Notes,
	}
}

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer ID is required", ErrInvalidInput)
	}
	if len(req.VehicleIDs) == 0 {
		return fmt.Errorf("%w: at least one vehicle is required", ErrInvalidInput)
	}
	if len(req.VehicleIDs) > domain.MaxVehiclesPerAppointment {
		return fmt.Errorf("%w: vehicle count exceeds %d", ErrInvalidInput, domain.MaxVehiclesPerAppointment)
	}
	if hasDuplicates(req.VehicleIDs) {
		return fmt.Errorf("%w: duplicate vehicle IDs", ErrInvalidInput)
	}
	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if hasDuplicates(req.ServiceIDs) {
		return fmt.Errorf("%w: duplicate service IDs", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !req.StartTime.IsValid() {
		return fmt.Errorf("%w: start time is out of range", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

func hasDuplicates(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

// toResponseAppointment конвертирует доменную запись в модель ответа
func toResponseAppointment(a *domain.Appointment) *Appointment {
	resp := &Appointment{
		ID:           a.ID,
		CustomerID:   a.CustomerID,
		VehicleIDs:   a.VehicleIDs,
		ServiceIDs:   a.ServiceIDs,
		Status:       string(a.Status),
		ServiceNames: a.ServiceNames,
		TotalPrice:   a.TotalPrice,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	if a.ScheduledDate != nil {
		resp.ScheduledDate = *a.ScheduledDate
	}
	if a.ScheduledTime != nil {
		resp.ScheduledTime = *a.ScheduledTime
	}
	if a.EstimatedDurationMinutes != nil {
		resp.EstimatedDurationMinutes = *a.EstimatedDurationMinutes
	}

	return resp
}
