package garageservice

// Vehicle модель автомобиля из GarageService
type Vehicle struct {
	ID           int64  `json:"id"`
	OwnerID      int64  `json:"owner_id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	LicensePlate string `json:"license_plate"`
	Color        string `json:"color"`
	IsActive     bool   `json:"is_active"`
}

// VehicleListResponse ответ GarageService со списком автомобилей
type VehicleListResponse struct {
	Vehicles []Vehicle `json:"vehicles"`
}

// ErrorResponse модель ошибки от GarageService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
