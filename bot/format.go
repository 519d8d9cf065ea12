package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/avoronov/clinicbot/config"
	"github.com/avoronov/clinicbot/storage"
)

// dateLayout is how appointment dates travel through the whole system:
// keyboards, storage and the calendar export.
const dateLayout = "02.01.2006"

var statusEmoji = map[storage.Status]string{
	storage.StatusActive:    "✅",
	storage.StatusDeleted:   "❌",
	storage.StatusCompleted: "✔️",
}

// formatAppointment renders the detail view of an appointment. The admin
// view additionally shows the owner, the status and the creation time
// truncated to the minute.
func formatAppointment(a storage.Appointment, isAdmin bool) string {
	emoji, ok := statusEmoji[a.Status]
	if !ok {
		emoji = "⏳"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Запись #%d\n\n", emoji, a.ID)
	fmt.Fprintf(&b, "👤 Пациент: %s\n", a.PatientName)
	fmt.Fprintf(&b, "👨‍⚕️ Врач: %s\n", a.Doctor)
	fmt.Fprintf(&b, "💉 Процедура: %s\n", a.Procedure)
	fmt.Fprintf(&b, "📅 Дата: %s\n", a.Date)
	fmt.Fprintf(&b, "⏰ Время: %s\n", a.Time)

	if isAdmin {
		fmt.Fprintf(&b, "🆔 ID пользователя: %d\n", a.UserID)
		fmt.Fprintf(&b, "📝 Статус: %s\n", a.Status)
		fmt.Fprintf(&b, "📅 Создано: %s\n", a.CreatedAt.Format("2006-01-02 15:04"))
	}

	return b.String()
}

// formatBookingSummary renders the draft shown at the confirmation step.
func formatBookingSummary(s *Session) string {
	return fmt.Sprintf(
		"📋 Проверьте данные записи:\n\n"+
			"👤 Пациент: %s\n"+
			"👨‍⚕️ Врач: %s\n"+
			"💉 Процедура: %s\n"+
			"📅 Дата: %s\n"+
			"⏰ Время: %s\n\n"+
			"Всё верно?",
		s.PatientName, s.Doctor, s.Procedure, s.Date, s.Time)
}

// formatReceipt renders the message sent after a successful booking.
func formatReceipt(id int, s *Session) string {
	return fmt.Sprintf(
		"✅ Запись успешно создана!\n\n"+
			"Номер записи: #%d\n"+
			"👤 Пациент: %s\n"+
			"👨‍⚕️ Врач: %s\n"+
			"💉 Процедура: %s\n"+
			"📅 Дата: %s\n"+
			"⏰ Время: %s",
		id, s.PatientName, s.Doctor, s.Procedure, s.Date, s.Time)
}

// formatUsersList renders the admin view of all registered users.
func formatUsersList(users map[string]storage.User) string {
	var b strings.Builder
	b.WriteString("👥 Список пользователей:\n\n")
	for id, u := range users {
		fmt.Fprintf(&b, "ID: %s\n", id)
		fmt.Fprintf(&b, "Имя: %s\n", u.FirstName)
		if u.Username != "" {
			fmt.Fprintf(&b, "Username: @%s\n", u.Username)
		}
		fmt.Fprintf(&b, "Регистрация: %s\n", u.RegisteredAt.Format("2006-01-02"))
		b.WriteString(strings.Repeat("-", 20) + "\n")
	}
	return b.String()
}

// formatDoctorsList renders the public list of doctors.
func formatDoctorsList(doctors []string) string {
	var b strings.Builder
	b.WriteString("👨‍⚕️ Наши врачи:\n\n")
	for _, d := range doctors {
		fmt.Fprintf(&b, "• %s\n", d)
	}
	return b.String()
}

// formatAbout renders the clinic info screen.
func formatAbout(c config.ClinicConfig) string {
	return fmt.Sprintf(
		"🏥 %s\n\n"+
			"📍 Адрес: %s\n"+
			"📞 Телефон: %s\n"+
			"🕒 Режим работы: %s\n\n"+
			"Мы заботимся о вашем здоровье!",
		c.Name, c.Address, c.Phone, c.Hours)
}

// upcomingDates returns the next n calendar days starting today,
// formatted as appointment dates.
func upcomingDates(now time.Time, n int) []string {
	dates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, now.AddDate(0, 0, i).Format(dateLayout))
	}
	return dates
}

// dateLabel is the button text for a date: the date plus the weekday
// abbreviation.
func dateLabel(date string) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s (%s)", date, d.Format("Mon"))
}
