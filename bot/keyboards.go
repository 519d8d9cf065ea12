package bot

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avoronov/clinicbot/storage"
)

// chunkButtons lays buttons out into rows of at most perRow.
func chunkButtons(buttons []tgbotapi.InlineKeyboardButton, perRow int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > 0 {
		n := perRow
		if n > len(buttons) {
			n = len(buttons)
		}
		rows = append(rows, buttons[:n])
		buttons = buttons[n:]
	}
	return rows
}

// mainMenuKeyboard is the top-level menu. Admins get two extra buttons.
func (b *Bot) mainMenuKeyboard(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	buttons := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("📅 Записаться", payload(actionMakeAppointment, "")),
		tgbotapi.NewInlineKeyboardButtonData("📋 Мои записи", payload(actionMyAppointments, "")),
		tgbotapi.NewInlineKeyboardButtonData("👨‍⚕️ Врачи", payload(actionDoctorsList, "")),
		tgbotapi.NewInlineKeyboardButtonData("ℹ️ О клинике", payload(actionAbout, "")),
	}
	if isAdmin {
		buttons = append(buttons,
			tgbotapi.NewInlineKeyboardButtonData("📊 Все записи", payload(actionAllAppointments, "")),
			tgbotapi.NewInlineKeyboardButtonData("👥 Пользователи", payload(actionUsersList, "")),
		)
	}
	return tgbotapi.NewInlineKeyboardMarkup(chunkButtons(buttons, 2)...)
}

// doctorsKeyboard offers the configured doctors, one per row.
func (b *Bot) doctorsKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, doctor := range b.cfg.Doctors {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(doctor, payload(actionSelectDoctor, doctor)),
		})
	}
	rows = append(rows, cancelRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// proceduresKeyboard offers the procedures available for a doctor.
func (b *Bot) proceduresKeyboard(doctor string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, procedure := range b.cfg.ProceduresFor(doctor) {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(procedure, payload(actionSelectProcedure, procedure)),
		})
	}
	rows = append(rows, cancelRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// datesKeyboard offers the next seven calendar days, three per row.
func (b *Bot) datesKeyboard(now time.Time) tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for _, date := range upcomingDates(now, bookingDays) {
		buttons = append(buttons,
			tgbotapi.NewInlineKeyboardButtonData(dateLabel(date), payload(actionSelectDate, date)))
	}
	rows := chunkButtons(buttons, 3)
	rows = append(rows, cancelRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// timesKeyboard offers the fixed daily time slots, three per row.
// The choice set is never pruned by existing bookings; availability is
// rechecked when a slot is picked.
func (b *Bot) timesKeyboard() tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for _, slot := range b.cfg.TimeSlots {
		buttons = append(buttons,
			tgbotapi.NewInlineKeyboardButtonData(slot, payload(actionSelectTime, slot)))
	}
	rows := chunkButtons(buttons, 3)
	rows = append(rows, cancelRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// appointmentsKeyboard lists appointments one per row, labelled
// "date time - doctor". Admin rows open the admin detail view.
func (b *Bot) appointmentsKeyboard(appointments []storage.Appointment, isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, a := range appointments {
		view := actionViewAppointment
		if isAdmin {
			view = actionAdminView
		}
		label := fmt.Sprintf("%s %s - %s", a.Date, a.Time, a.Doctor)
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, payload(view, strconv.Itoa(a.ID))),
		})
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// appointmentActionsKeyboard offers the role-appropriate actions for one
// appointment: owners cancel, admins edit and delete, both export.
func (b *Bot) appointmentActionsKeyboard(id int, isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	arg := strconv.Itoa(id)

	var buttons []tgbotapi.InlineKeyboardButton
	var back tgbotapi.InlineKeyboardButton
	if isAdmin {
		buttons = []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✏️ Редактировать", payload(actionEditAppointment, arg)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Удалить", payload(actionDeleteAppointment, arg)),
			tgbotapi.NewInlineKeyboardButtonData("📅 В календарь", payload(actionAddToCalendar, arg)),
		}
		back = tgbotapi.NewInlineKeyboardButtonData("◀️ Назад", payload(actionAllAppointments, ""))
	} else {
		buttons = []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", payload(actionCancelAppointment, arg)),
			tgbotapi.NewInlineKeyboardButtonData("📅 В календарь", payload(actionAddToCalendar, arg)),
		}
		back = tgbotapi.NewInlineKeyboardButtonData("◀️ Назад", payload(actionMyAppointments, ""))
	}

	rows := chunkButtons(append(buttons, back), 2)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// adminEditKeyboard offers which field of an appointment to edit.
func (b *Bot) adminEditKeyboard(id int) tgbotapi.InlineKeyboardMarkup {
	arg := strconv.Itoa(id)
	buttons := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("👤 Имя пациента", payload(actionEditField, "patient_name:"+arg)),
		tgbotapi.NewInlineKeyboardButtonData("👨‍⚕️ Врача", payload(actionEditField, "doctor:"+arg)),
		tgbotapi.NewInlineKeyboardButtonData("💉 Процедуру", payload(actionEditField, "procedure:"+arg)),
		tgbotapi.NewInlineKeyboardButtonData("📅 Дату", payload(actionEditField, "date:"+arg)),
		tgbotapi.NewInlineKeyboardButtonData("⏰ Время", payload(actionEditField, "time:"+arg)),
		tgbotapi.NewInlineKeyboardButtonData("◀️ Назад", payload(actionAdminView, arg)),
	}
	return tgbotapi.NewInlineKeyboardMarkup(chunkButtons(buttons, 2)...)
}

// confirmationKeyboard is the final confirm-or-cancel step.
func confirmationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", payload(actionConfirm, "")),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", payload(actionCancel, "")),
		),
	)
}

// cancelKeyboard carries only the global cancel button.
func cancelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(cancelRow())
}

func cancelRow() []tgbotapi.InlineKeyboardButton {
	return []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", payload(actionCancel, "")),
	}
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("◀️ Назад", payload(actionMainMenu, "")),
	}
}
