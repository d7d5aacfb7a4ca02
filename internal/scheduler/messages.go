package scheduler

import "fmt"

// Пользовательские сообщения о нарушениях правил записи
// Каждое правило добавляет не больше одного сообщения, все нарушения
// возвращаются вместе (без short-circuit)
const (
	// MsgTimeInPast дата/время записи уже прошли
	MsgTimeInPast = "выбранное время уже прошло"

	// MsgLunchOverlap запись пересекается с обеденным перерывом
	MsgLunchOverlap = "выбранное время пересекается с обеденным перерывом"

	// MsgOutsideWorkingHours запись начинается до открытия или не успевает завершиться до закрытия
	MsgOutsideWorkingHours = "запись не помещается в рабочие часы сервис-центра"

	// MsgNotOperatingDay сервис-центр не работает в этот день недели
	MsgNotOperatingDay = "сервис-центр не работает в выбранный день недели"

	// MsgBlockedDate дата закрыта для записи
	MsgBlockedDate = "выбранная дата закрыта для записи"

	// MsgLastSpotWarning предупреждение: осталось одно место
	MsgLastSpotWarning = "на выбранное время осталось только одно свободное место"
)

// msgBeyondBookingWindow дата дальше горизонта бронирования
func msgBeyondBookingWindow(days int) string {
	return fmt.Sprintf("запись возможна не более чем за %d дней", days)
}

// msgInsufficientNotice до начала записи меньше минимального времени
func msgInsufficientNotice(hours int) string {
	return fmt.Sprintf("запись возможна не менее чем за %d ч. до начала", hours)
}
