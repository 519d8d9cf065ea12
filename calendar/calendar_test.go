package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avoronov/clinicbot/storage"
)

func testAppointment() storage.Appointment {
	return storage.Appointment{
		ID:          5,
		UserID:      42,
		PatientName: "Иван Петров",
		Doctor:      "Иванов Иван Иванович (терапевт)",
		Procedure:   "ЭКГ",
		Date:        "10.01.2025",
		Time:        "14:00",
		CreatedAt:   time.Now(),
		Status:      storage.StatusActive,
	}
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, "Клиника «Здоровье»", zap.NewNop())

	path, err := m.Generate(testAppointment())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "appointment_5.ics"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "BEGIN:VCALENDAR")
	assert.Contains(t, content, "UID:5@clinicbot")
	// Local floating time, one hour long, no timezone marker.
	assert.Contains(t, content, "DTSTART:20250110T140000")
	assert.Contains(t, content, "DTEND:20250110T150000")
	assert.Contains(t, content, "SUMMARY:Прием у Иванов Иван Иванович (терапевт)")
	assert.Contains(t, content, `DESCRIPTION:Пациент: Иван Петров\nПроцедура: ЭКГ`)
	assert.Contains(t, content, "LOCATION:Клиника «Здоровье»")
	assert.Contains(t, content, "STATUS:CONFIRMED")
}

func TestGenerate_BadTime(t *testing.T) {
	m := NewManager(t.TempDir(), "Клиника", zap.NewNop())

	a := testAppointment()
	a.Date = "not-a-date"
	_, err := m.Generate(a)
	assert.Error(t, err)
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, "Клиника", zap.NewNop())

	_, err := m.Generate(testAppointment())
	require.NoError(t, err)
	other := filepath.Join(dir, "keep.txt")
	require.NoError(t, os.WriteFile(other, []byte("data"), 0644))

	m.Cleanup()

	_, err = os.Stat(filepath.Join(dir, "appointment_5.ics"))
	assert.True(t, os.IsNotExist(err))
	// Unrelated files are untouched.
	_, err = os.Stat(other)
	assert.NoError(t, err)
}

func TestCleanup_MissingDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "gone"), "Клиника", zap.NewNop())
	// Must not panic; failures are swallowed.
	m.Cleanup()
}
