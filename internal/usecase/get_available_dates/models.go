package get_available_dates

import "time"

// MaxRangeDays максимальная длина запрашиваемого диапазона дат
const MaxRangeDays = 90

// Request модель запроса на обзор доступности по датам
type Request struct {
	From time.Time // Первая дата диапазона; нулевое значение = сегодня
	Days int       // Количество дней в диапазоне; 0 = горизонт бронирования
}

// Response модель ответа с доступностью по датам
type Response struct {
	From  time.Time
	Days  int
	Dates []DateAvailability // По одной записи на каждый день диапазона
}

// DateAvailability сводка доступности одного календарного дня
type DateAvailability struct {
	Date         time.Time
	IsOperating  bool // Рабочий ли день недели
	IsBlocked    bool // Заблокирована ли дата вручную
	WithinWindow bool // Внутри ли горизонта бронирования
	HasCapacity  bool // Есть ли хоть один слот со свободным местом
	TotalSlots   int  // Всего слотов в сетке дня
	OpenSlots    int  // Слоты с хотя бы одним свободным местом
}
