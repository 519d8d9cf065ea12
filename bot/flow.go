package bot

import (
	"errors"
	"strconv"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/avoronov/clinicbot/storage"
)

// bookingDays is how many days ahead a booking can be made, today included.
const bookingDays = 7

const (
	patientNameMin = 2
	patientNameMax = 50
)

// reply is what a flow step asks the transport layer to show: message
// text plus an optional inline keyboard. denied marks a permission
// failure that must not replace the current screen.
type reply struct {
	text     string
	keyboard *tgbotapi.InlineKeyboardMarkup
	denied   bool
}

func withKeyboard(text string, kb tgbotapi.InlineKeyboardMarkup) reply {
	return reply{text: text, keyboard: &kb}
}

var deniedReply = reply{text: "⛔ Доступ запрещен", denied: true}

// mainMenu returns the top-level menu for a user.
func (b *Bot) mainMenu(userID int64) reply {
	return withKeyboard("Главное меню:", b.mainMenuKeyboard(b.isAdmin(userID)))
}

// staleSession is shown when a button press does not match the user's
// current stage, e.g. a press on a keyboard from an abandoned flow.
func (b *Bot) staleSession(userID int64) reply {
	return withKeyboard("Эта кнопка больше не активна.\n\nГлавное меню:",
		b.mainMenuKeyboard(b.isAdmin(userID)))
}

// startBooking begins the booking flow by asking for the patient name.
func (b *Bot) startBooking(userID int64) reply {
	session := b.sessions.get(userID)
	*session = Session{Stage: StageEnteringPatientName}
	return withKeyboard("👤 Введите имя и фамилию пациента:", cancelKeyboard())
}

// submitPatientName validates free-text input for the patient name step.
// Input outside 2..50 characters re-prompts without a state change.
func (b *Bot) submitPatientName(userID int64, text string) reply {
	session := b.sessions.get(userID)
	if session.Stage != StageEnteringPatientName {
		return reply{text: "Используйте /menu для вызова главного меню."}
	}

	if n := utf8.RuneCountInString(text); n < patientNameMin || n > patientNameMax {
		return withKeyboard("❌ Пожалуйста, введите корректное имя (от 2 до 50 символов):", cancelKeyboard())
	}

	session.PatientName = text
	session.Stage = StageChoosingDoctor
	return withKeyboard("👨‍⚕️ Выберите врача:", b.doctorsKeyboard())
}

// selectDoctor handles the doctor selection step.
func (b *Bot) selectDoctor(userID int64, doctor string) reply {
	session := b.sessions.get(userID)
	if session.Stage != StageChoosingDoctor {
		return b.staleSession(userID)
	}
	if !b.cfg.HasDoctor(doctor) {
		return withKeyboard("❌ Выберите врача из списка:", b.doctorsKeyboard())
	}

	session.Doctor = doctor
	session.Stage = StageChoosingProcedure
	return withKeyboard("💉 Выберите процедуру для "+doctor+":", b.proceduresKeyboard(doctor))
}

// selectProcedure handles the procedure selection step.
func (b *Bot) selectProcedure(userID int64, procedure string) reply {
	session := b.sessions.get(userID)
	if session.Stage != StageChoosingProcedure {
		return b.staleSession(userID)
	}

	valid := false
	for _, p := range b.cfg.ProceduresFor(session.Doctor) {
		if p == procedure {
			valid = true
			break
		}
	}
	if !valid {
		return withKeyboard("❌ Выберите процедуру из списка:", b.proceduresKeyboard(session.Doctor))
	}

	session.Procedure = procedure
	session.Stage = StageChoosingDate
	return withKeyboard("📅 Выберите дату:", b.datesKeyboard(time.Now()))
}

// selectDate handles the date selection step. Only the next seven
// calendar days are accepted.
func (b *Bot) selectDate(userID int64, date string) reply {
	session := b.sessions.get(userID)
	if session.Stage != StageChoosingDate {
		return b.staleSession(userID)
	}

	valid := false
	for _, d := range upcomingDates(time.Now(), bookingDays) {
		if d == date {
			valid = true
			break
		}
	}
	if !valid {
		return withKeyboard("❌ Выберите дату из списка:", b.datesKeyboard(time.Now()))
	}

	session.Date = date
	session.Stage = StageChoosingTime
	return withKeyboard("⏰ Выберите время:", b.timesKeyboard())
}

// selectTime handles the time slot step. Availability is rechecked here;
// a taken slot re-prompts with the same, unfiltered slot list.
func (b *Bot) selectTime(userID int64, timeSlot string) reply {
	session := b.sessions.get(userID)
	if session.Stage != StageChoosingTime {
		return b.staleSession(userID)
	}
	if !b.cfg.HasTimeSlot(timeSlot) {
		return withKeyboard("❌ Выберите время из списка:", b.timesKeyboard())
	}

	if !b.store.IsSlotAvailable(session.Doctor, session.Date, timeSlot) {
		return withKeyboard("❌ Это время уже занято. Пожалуйста, выберите другое время:", b.timesKeyboard())
	}

	session.Time = timeSlot
	session.Stage = StageConfirming
	return withKeyboard(formatBookingSummary(session), confirmationKeyboard())
}

// confirmBooking persists the draft. A slot conflict that slipped in
// between the availability check and now sends the user back to the time
// step; any other persistence failure abandons the draft.
func (b *Bot) confirmBooking(userID int64) reply {
	session := b.sessions.get(userID)
	if session.Stage != StageConfirming {
		return b.staleSession(userID)
	}

	id, err := b.store.CreateAppointment(userID,
		session.PatientName, session.Doctor, session.Procedure, session.Date, session.Time)
	if errors.Is(err, storage.ErrSlotTaken) {
		session.Time = ""
		session.Stage = StageChoosingTime
		return withKeyboard("❌ Это время уже занято. Пожалуйста, выберите другое время:", b.timesKeyboard())
	}
	if err != nil {
		b.log.Error("Failed to create appointment", zap.Int64("user_id", userID), zap.Error(err))
		b.sessions.reset(userID)
		return withKeyboard("⚠️ Не удалось сохранить запись. Попробуйте позже.\n\nГлавное меню:",
			b.mainMenuKeyboard(b.isAdmin(userID)))
	}

	receipt := formatReceipt(id, session)
	b.sessions.reset(userID)
	return withKeyboard(receipt+"\n\nГлавное меню:", b.mainMenuKeyboard(b.isAdmin(userID)))
}

// cancelAction is the global cancel: it discards the draft from any state.
func (b *Bot) cancelAction(userID int64) reply {
	b.sessions.reset(userID)
	return withKeyboard("❌ Действие отменено.\n\nГлавное меню:", b.mainMenuKeyboard(b.isAdmin(userID)))
}

// myAppointments lists the caller's active appointments.
func (b *Bot) myAppointments(userID int64) reply {
	appointments := b.store.GetAppointments(userID)
	if len(appointments) == 0 {
		return withKeyboard("📭 У вас пока нет записей.\n\nЧтобы создать новую запись, нажмите «Записаться».",
			b.mainMenuKeyboard(b.isAdmin(userID)))
	}
	return withKeyboard("📋 Ваши записи:", b.appointmentsKeyboard(appointments, false))
}

// allAppointments lists every active appointment. Admin only.
func (b *Bot) allAppointments(userID int64) reply {
	if !b.isAdmin(userID) {
		return deniedReply
	}
	appointments := b.store.GetAppointments(0)
	if len(appointments) == 0 {
		return withKeyboard("📭 Нет записей.", b.mainMenuKeyboard(true))
	}
	return withKeyboard("📋 Все записи:", b.appointmentsKeyboard(appointments, true))
}

// viewAppointment shows the detail screen for one appointment, with the
// admin variant gated on the admin predicate.
func (b *Bot) viewAppointment(userID int64, idArg string, adminView bool) reply {
	if adminView && !b.isAdmin(userID) {
		return deniedReply
	}

	id, err := strconv.Atoi(idArg)
	if err != nil {
		return withKeyboard("❌ Запись не найдена.", b.mainMenuKeyboard(b.isAdmin(userID)))
	}
	appointment, err := b.store.GetAppointment(id)
	if err != nil {
		return withKeyboard("❌ Запись не найдена.", b.mainMenuKeyboard(b.isAdmin(userID)))
	}

	return withKeyboard(formatAppointment(appointment, adminView),
		b.appointmentActionsKeyboard(id, adminView))
}

// cancelOwnAppointment soft-deletes an appointment from the owner's
// detail screen.
func (b *Bot) cancelOwnAppointment(userID int64, idArg string) reply {
	if b.deleteByArg(idArg) {
		return withKeyboard("✅ Запись успешно отменена.", b.mainMenuKeyboard(b.isAdmin(userID)))
	}
	return withKeyboard("❌ Не удалось отменить запись.", b.mainMenuKeyboard(b.isAdmin(userID)))
}

// adminDeleteAppointment soft-deletes an appointment. Admin only.
func (b *Bot) adminDeleteAppointment(userID int64, idArg string) reply {
	if !b.isAdmin(userID) {
		return deniedReply
	}
	if b.deleteByArg(idArg) {
		return withKeyboard("✅ Запись успешно удалена.", b.mainMenuKeyboard(true))
	}
	return withKeyboard("❌ Не удалось удалить запись.", b.mainMenuKeyboard(true))
}

func (b *Bot) deleteByArg(idArg string) bool {
	id, err := strconv.Atoi(idArg)
	if err != nil {
		return false
	}
	return b.store.DeleteAppointment(id) == nil
}

// editMenu shows the field-selection menu for editing. Admin only; the
// per-field edit itself is not implemented yet.
func (b *Bot) editMenu(userID int64, idArg string) reply {
	if !b.isAdmin(userID) {
		return deniedReply
	}
	id, err := strconv.Atoi(idArg)
	if err != nil {
		return withKeyboard("❌ Запись не найдена.", b.mainMenuKeyboard(true))
	}
	return withKeyboard("✏️ Что вы хотите отредактировать?", b.adminEditKeyboard(id))
}

// doctorsList shows the public list of doctors.
func (b *Bot) doctorsList(userID int64) reply {
	return withKeyboard(formatDoctorsList(b.cfg.Doctors), b.mainMenuKeyboard(b.isAdmin(userID)))
}

// about shows the clinic info screen.
func (b *Bot) about(userID int64) reply {
	return withKeyboard(formatAbout(b.cfg.Clinic), b.mainMenuKeyboard(b.isAdmin(userID)))
}

// usersList shows every registered user. Admin only.
func (b *Bot) usersList(userID int64) reply {
	if !b.isAdmin(userID) {
		return deniedReply
	}
	users := b.store.GetUsers()
	if len(users) == 0 {
		return withKeyboard("👥 Нет зарегистрированных пользователей.", b.mainMenuKeyboard(true))
	}
	return withKeyboard(formatUsersList(users), b.mainMenuKeyboard(true))
}
