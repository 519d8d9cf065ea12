package bot

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage handles commands and free-text input.
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handleStartCommand(message)
		case "help":
			b.handleHelpCommand(message)
		case "menu":
			b.send(chatID, b.mainMenu(userID))
		case "stop":
			b.sessions.reset(userID)
			msg := tgbotapi.NewMessage(chatID, "👋 До свидания! Чтобы возобновить работу, нажмите /start")
			b.api.Send(msg)
		default:
			msg := tgbotapi.NewMessage(chatID, "Неизвестная команда. Используйте /help для списка команд.")
			b.api.Send(msg)
		}
		return
	}

	// The only stage that accepts free text is the patient name prompt.
	b.send(chatID, b.submitPatientName(userID, message.Text))
}

// handleStartCommand registers the user and greets them by name.
func (b *Bot) handleStartCommand(message *tgbotapi.Message) {
	user := message.From

	if err := b.store.AddUser(user.ID, user.UserName, user.FirstName); err != nil {
		b.log.Error("Failed to register user", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	welcome := "👋 Здравствуйте, " + user.FirstName + "!\n\n" +
		"Добро пожаловать в бот клиники «Здоровье».\n" +
		"Здесь вы можете записаться на прием к врачу, " +
		"просмотреть свои записи и управлять ими."

	msg := tgbotapi.NewMessage(message.Chat.ID, welcome)
	msg.ReplyMarkup = b.mainMenuKeyboard(b.isAdmin(user.ID))
	b.api.Send(msg)
}

// handleHelpCommand lists the available commands.
func (b *Bot) handleHelpCommand(message *tgbotapi.Message) {
	help := "📋 Доступные команды:\n\n" +
		"/start - Начать работу с ботом\n" +
		"/help - Показать это сообщение\n" +
		"/menu - Главное меню\n" +
		"/stop - Завершить работу\n\n" +
		"Также вы можете использовать инлайн-кнопки для навигации."
	msg := tgbotapi.NewMessage(message.Chat.ID, help)
	b.api.Send(msg)
}

// handleCallbackQuery decodes the button payload once and dispatches the
// command to the flow.
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID
	cmd := parseCallback(query.Data)

	var r reply
	switch cmd.Action {
	case actionMainMenu:
		r = b.mainMenu(userID)
	case actionMakeAppointment:
		r = b.startBooking(userID)
	case actionSelectDoctor:
		r = b.selectDoctor(userID, cmd.Arg)
	case actionSelectProcedure:
		r = b.selectProcedure(userID, cmd.Arg)
	case actionSelectDate:
		r = b.selectDate(userID, cmd.Arg)
	case actionSelectTime:
		r = b.selectTime(userID, cmd.Arg)
	case actionConfirm:
		r = b.confirmBooking(userID)
	case actionCancel:
		r = b.cancelAction(userID)
	case actionMyAppointments:
		r = b.myAppointments(userID)
	case actionViewAppointment:
		r = b.viewAppointment(userID, cmd.Arg, false)
	case actionCancelAppointment:
		r = b.cancelOwnAppointment(userID, cmd.Arg)
	case actionDoctorsList:
		r = b.doctorsList(userID)
	case actionAbout:
		r = b.about(userID)
	case actionAllAppointments:
		r = b.allAppointments(userID)
	case actionAdminView:
		r = b.viewAppointment(userID, cmd.Arg, true)
	case actionDeleteAppointment:
		r = b.adminDeleteAppointment(userID, cmd.Arg)
	case actionEditAppointment:
		r = b.editMenu(userID, cmd.Arg)
	case actionUsersList:
		r = b.usersList(userID)
	case actionAddToCalendar:
		b.handleAddToCalendar(query, cmd.Arg)
		return
	case actionEditField:
		b.answerCallbackQuery(query.ID, "Редактирование этого поля пока недоступно")
		return
	default:
		b.log.Warn("Unhandled callback action", zap.String("data", query.Data))
		b.answerCallbackQuery(query.ID, "")
		return
	}

	if r.denied {
		b.answerCallbackQuery(query.ID, "⛔ Доступ запрещен")
		return
	}

	b.edit(chatID, query.Message.MessageID, r)
	b.answerCallbackQuery(query.ID, "")
}

// handleAddToCalendar generates the .ics file for an appointment and
// sends it as a document. Generation failures are soft: the user gets a
// notice, the flow is unaffected.
func (b *Bot) handleAddToCalendar(query *tgbotapi.CallbackQuery, idArg string) {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		b.answerCallbackQuery(query.ID, "❌ Запись не найдена")
		return
	}
	appointment, err := b.store.GetAppointment(id)
	if err != nil {
		b.answerCallbackQuery(query.ID, "❌ Запись не найдена")
		return
	}

	path, err := b.cal.Generate(appointment)
	if err != nil {
		b.log.Warn("Failed to generate calendar file", zap.Int("appointment_id", id), zap.Error(err))
		b.answerCallbackQuery(query.ID, "⚠️ Не удалось создать файл для календаря")
		return
	}

	doc := tgbotapi.NewDocument(query.Message.Chat.ID, tgbotapi.FilePath(path))
	doc.Caption = "📅 Файл для добавления в календарь"
	if _, err := b.api.Send(doc); err != nil {
		b.log.Warn("Failed to send calendar file", zap.Int("appointment_id", id), zap.Error(err))
	}

	b.answerCallbackQuery(query.ID, "✅ Файл для календаря создан")
}

// send delivers a reply as a new message.
func (b *Bot) send(chatID int64, r reply) {
	msg := tgbotapi.NewMessage(chatID, r.text)
	if r.keyboard != nil {
		msg.ReplyMarkup = *r.keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// edit delivers a reply by rewriting the message the button lived on.
func (b *Bot) edit(chatID int64, messageID int, r reply) {
	var edit tgbotapi.EditMessageTextConfig
	if r.keyboard != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, r.text, *r.keyboard)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, r.text)
	}
	if _, err := b.api.Send(edit); err != nil {
		b.log.Error("Failed to edit message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// answerCallbackQuery closes the button-press spinner, optionally with a
// short notice.
func (b *Bot) answerCallbackQuery(queryID string, text string) {
	callback := tgbotapi.NewCallback(queryID, text)
	if _, err := b.api.Request(callback); err != nil {
		b.log.Error("Failed to answer callback query", zap.Error(err))
	}
}
