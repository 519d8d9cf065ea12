package bot

import "strings"

// action identifies what an inline button press asks for.
type action string

const (
	actionMainMenu        action = "main_menu"
	actionMakeAppointment action = "make_appointment"
	actionMyAppointments  action = "my_appointments"
	actionDoctorsList     action = "doctors_list"
	actionAbout           action = "about"

	actionSelectDoctor    action = "select_doctor"
	actionSelectProcedure action = "select_procedure"
	actionSelectDate      action = "select_date"
	actionSelectTime      action = "select_time"
	actionConfirm         action = "confirm"
	actionCancel          action = "cancel"

	actionViewAppointment   action = "view_appointment"
	actionCancelAppointment action = "cancel_appointment"
	actionAddToCalendar     action = "add_to_calendar"

	actionAllAppointments   action = "all_appointments"
	actionUsersList         action = "users_list"
	actionAdminView         action = "admin_view"
	actionDeleteAppointment action = "delete_appointment"
	actionEditAppointment   action = "edit_appointment"
	actionEditField         action = "edit_field"
)

// command is a decoded callback payload: an action plus an optional
// argument. Payloads are encoded as "action" or "action:arg"; the
// argument may itself contain colons (time slots do), so only the first
// separator counts.
type command struct {
	Action action
	Arg    string
}

// parseCallback decodes a callback payload once, at the transport
// boundary. Handlers never re-split the raw string.
func parseCallback(data string) command {
	parts := strings.SplitN(data, ":", 2)
	cmd := command{Action: action(parts[0])}
	if len(parts) > 1 {
		cmd.Arg = parts[1]
	}
	return cmd
}

// payload encodes a command back into callback data for a keyboard button.
func payload(a action, arg string) string {
	if arg == "" {
		return string(a)
	}
	return string(a) + ":" + arg
}
