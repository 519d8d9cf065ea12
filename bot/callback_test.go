package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCallback(t *testing.T) {
	testCases := []struct {
		name string
		data string
		want command
	}{
		{
			name: "action without argument",
			data: "confirm",
			want: command{Action: actionConfirm},
		},
		{
			name: "action with argument",
			data: "select_doctor:Иванов Иван Иванович (терапевт)",
			want: command{Action: actionSelectDoctor, Arg: "Иванов Иван Иванович (терапевт)"},
		},
		{
			name: "argument containing a colon",
			data: "select_time:10:00",
			want: command{Action: actionSelectTime, Arg: "10:00"},
		},
		{
			name: "numeric argument",
			data: "view_appointment:7",
			want: command{Action: actionViewAppointment, Arg: "7"},
		},
		{
			name: "empty payload",
			data: "",
			want: command{Action: action("")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseCallback(tc.data))
		})
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	assert.Equal(t, "cancel", payload(actionCancel, ""))
	assert.Equal(t, "select_time:10:00", payload(actionSelectTime, "10:00"))

	cmd := parseCallback(payload(actionSelectTime, "10:00"))
	assert.Equal(t, actionSelectTime, cmd.Action)
	assert.Equal(t, "10:00", cmd.Arg)
}
