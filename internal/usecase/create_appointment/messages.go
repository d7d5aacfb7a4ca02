package create_appointment

// Пользовательские сообщения оркестратора
// Проверки ресурсов и справочников добавляют по одному сообщению на проверку,
// сколько бы элементов её ни провалило
const (
	// MsgSlotFull все места в выбранном слоте заняты
	MsgSlotFull = "на выбранное время не осталось свободных мест"

	// MsgVehicleConflict один из автомобилей уже записан на пересекающееся время
	MsgVehicleConflict = "один из выбранных автомобилей уже записан на это время"

	// MsgVehiclesNotOwned не все указанные автомобили принадлежат пользователю
	MsgVehiclesNotOwned = "не все выбранные автомобили найдены в вашем гараже"

	// MsgServicesUnavailable не все указанные услуги существуют или активны
	MsgServicesUnavailable = "не все выбранные услуги доступны"

	// MsgVerificationFailed инфраструктурный сбой во время проверки
	// Реальная причина пишется в лог, пользователю - одно общее сообщение
	MsgVerificationFailed = "не удалось проверить запись, попробуйте позже"
)
