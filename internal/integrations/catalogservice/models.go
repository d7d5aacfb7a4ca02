package catalogservice

// Service модель услуги из каталога сервис-центра
type Service struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Price           *float64 `json:"price,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	IsActive        bool     `json:"is_active"`
}

// ServiceListResponse ответ каталога со списком услуг
type ServiceListResponse struct {
	Services []Service `json:"services"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
