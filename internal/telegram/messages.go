package telegram

// User-facing strings. The bot talks to students and staff in Russian.
const (
	msgStart = "Привет! Я бот расписания колледжа.\nВыберите действие на клавиатуре ниже."
	msgInfo  = "Я умею показывать расписание занятий по группам и рассылать объявления.\n" +
		"«Расписание» — недельное расписание выбранной группы.\n" +
		"«Регистрация» — привязка вашей почты для рассылок.\n" +
		"Команда /id показывает ваш идентификатор."

	msgCancelled     = "Действие отменено."
	msgNothingCancel = "Сейчас нечего отменять."
	msgUnknownInput  = "Я вас не понял. Выберите действие на клавиатуре или отправьте /info."

	msgChooseGroupWeek      = "Выберите группу:"
	msgChooseGroupBroadcast = "Выберите группу для рассылки:"
	msgNoGroups             = "Расписание ещё не загружено."
	msgGroupMissing         = "Такая группа не найдена. Возможно, расписание обновили."

	msgSendDocument  = "Отправьте файл с расписанием (.xlsx)."
	msgWrongMIME     = "Это не файл Excel. Отправьте документ в формате .xlsx."
	msgImportFailed  = "Не удалось обработать файл: %s\nИсправьте файл и отправьте его ещё раз."
	msgImportOK      = "Расписание загружено: групп — %d, занятий — %d, адресов — %d."
	msgNotAuthorized = "Эта команда доступна только администраторам."

	msgComposeBroadcast  = "Введите текст объявления для группы %s:"
	msgEmptyBroadcast    = "Текст объявления пуст. Отправьте текстовое сообщение или «Отмена»."
	msgBroadcastSent     = "Объявление отправлено. Получателей: %d."
	msgBroadcastNoEmails = "У этой группы нет привязанных адресов. Рассылка не выполнена."

	msgAskEmail      = "Введите вашу электронную почту:"
	msgBadEmail      = "Это не похоже на адрес почты. Попробуйте ещё раз."
	msgCodeSent      = "Код отправлен на %s. Введите его сюда. Код действует %d секунд."
	msgCodeRejected  = "Неверный или просроченный код. Попробуйте ещё раз или отправьте «Отмена»."
	msgRegistered    = "Почта подтверждена. Спасибо!"
	msgMailFailure   = "Не удалось отправить письмо. Попробуйте позже."
	msgElevated      = "Права администратора выданы. Отправьте /start, чтобы обновить меню."
	msgEmptySchedule = "У группы %s пока нет занятий."

	msgInternalError = "Что-то пошло не так. Попробуйте ещё раз позже."
)

// Menu button labels double as routing keys in the dispatcher.
const (
	buttonSchedule  = "Расписание"
	buttonRegister  = "Регистрация"
	buttonUpload    = "Загрузить расписание"
	buttonBroadcast = "Рассылка"
	buttonCancel    = "Отмена"
)
