package domain

// ValidationResult результат проверки записи: все нарушения сразу, без short-circuit,
// чтобы клиент видел полную картину. Создается заново на каждый вызов
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// NewValidationResult создает валидный результат без ошибок
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}
}

// AddError добавляет ошибку и помечает результат невалидным
func (r *ValidationResult) AddError(msg string) {
	r.IsValid = false
	r.Errors = append(r.Errors, msg)
}

// AddWarning добавляет предупреждение (результат остается валидным)
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Merge переносит ошибки и предупреждения из other
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	if !other.IsValid {
		r.IsValid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// CapacityResult результат проверки вместимости слота
// Исчерпание вместимости - не ошибка, а обычный результат с IsAvailable=false
type CapacityResult struct {
	IsAvailable       bool
	CapacityUsed      int
	CapacityTotal     int
	CapacityRemaining int // Всегда >= 0
}
