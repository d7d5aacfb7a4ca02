package get_calendar

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Handler отдает публичное расписание сервис-центра
// Календарь загружается при старте и не меняется, поэтому ответ
// считается один раз
type Handler struct {
	response *CalendarResponse
	logger   Logger
}

func NewHandler(calendar domain.BusinessCalendar, logger Logger) *Handler {
	return &Handler{
		response: FromDomainCalendar(calendar),
		logger:   logger,
	}
}

// Handle GET /api/v1/calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.response)
}
