package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T) (*JSONStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "appointments.json")
	s, err := NewJSONStorage(path, zap.NewNop())
	require.NoError(t, err)
	return s, path
}

func TestNewJSONStorage_CreatesEmptyDocument(t *testing.T) {
	s, path := newTestStorage(t)

	// The empty document is persisted immediately.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"appointments"`)
	assert.Contains(t, string(data), `"users"`)
	assert.Contains(t, string(data), `"next_id"`)

	assert.Empty(t, s.GetAppointments(0))
	assert.Empty(t, s.GetUsers())
}

func TestNewJSONStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewJSONStorage(path, zap.NewNop())
	assert.Error(t, err)
}

func TestAddUser_InsertOnly(t *testing.T) {
	s, _ := newTestStorage(t)

	require.NoError(t, s.AddUser(42, "ivan", "Иван"))
	first := s.GetUsers()["42"]
	assert.Equal(t, "ivan", first.Username)
	assert.Equal(t, "Иван", first.FirstName)

	// A second call with different data is a no-op, not an update.
	require.NoError(t, s.AddUser(42, "other", "Другой"))
	again := s.GetUsers()["42"]
	assert.Equal(t, "ivan", again.Username)
	assert.Equal(t, "Иван", again.FirstName)
	assert.True(t, first.RegisteredAt.Equal(again.RegisteredAt))
}

func TestCreateAppointment_MonotonicIDs(t *testing.T) {
	s, path := newTestStorage(t)

	id1, err := s.CreateAppointment(1, "Иван Петров", "Др. Смирнов", "Консультация", "10.01.2025", "10:00")
	require.NoError(t, err)
	id2, err := s.CreateAppointment(1, "Иван Петров", "Др. Смирнов", "Консультация", "10.01.2025", "11:00")
	require.NoError(t, err)
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, id2)

	// The sequence counter survives a restart.
	reloaded, err := NewJSONStorage(path, zap.NewNop())
	require.NoError(t, err)
	id3, err := reloaded.CreateAppointment(2, "Анна", "Др. Смирнов", "Консультация", "10.01.2025", "12:00")
	require.NoError(t, err)
	assert.Equal(t, 3, id3)
}

func TestCreateAppointment_SlotConflict(t *testing.T) {
	s, _ := newTestStorage(t)

	_, err := s.CreateAppointment(1, "Иван", "Др. X", "Консультация", "10.01.2025", "10:00")
	require.NoError(t, err)

	// Even a caller that skipped IsSlotAvailable cannot double-book.
	_, err = s.CreateAppointment(2, "Петр", "Др. X", "Консультация", "10.01.2025", "10:00")
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Другой врач, другая дата или другое время не конфликтуют.
	_, err = s.CreateAppointment(2, "Петр", "Др. Y", "Консультация", "10.01.2025", "10:00")
	assert.NoError(t, err)
	_, err = s.CreateAppointment(2, "Петр", "Др. X", "Консультация", "11.01.2025", "10:00")
	assert.NoError(t, err)
	_, err = s.CreateAppointment(2, "Петр", "Др. X", "Консультация", "10.01.2025", "11:00")
	assert.NoError(t, err)
}

func TestIsSlotAvailable(t *testing.T) {
	s, _ := newTestStorage(t)

	assert.True(t, s.IsSlotAvailable("Др. X", "10.01.2025", "10:00"))

	id, err := s.CreateAppointment(1, "Иван", "Др. X", "Консультация", "10.01.2025", "10:00")
	require.NoError(t, err)
	assert.False(t, s.IsSlotAvailable("Др. X", "10.01.2025", "10:00"))

	// A deleted appointment never blocks a slot.
	require.NoError(t, s.DeleteAppointment(id))
	assert.True(t, s.IsSlotAvailable("Др. X", "10.01.2025", "10:00"))
}

func TestGetAppointments_FilterAndOrder(t *testing.T) {
	s, _ := newTestStorage(t)

	id1, _ := s.CreateAppointment(1, "Иван", "Др. X", "Консультация", "10.01.2025", "10:00")
	id2, _ := s.CreateAppointment(2, "Анна", "Др. X", "Консультация", "10.01.2025", "11:00")
	id3, _ := s.CreateAppointment(1, "Иван", "Др. Y", "Консультация", "10.01.2025", "10:00")

	all := s.GetAppointments(0)
	require.Len(t, all, 3)
	assert.Equal(t, []int{id1, id2, id3}, []int{all[0].ID, all[1].ID, all[2].ID})

	mine := s.GetAppointments(1)
	require.Len(t, mine, 2)
	assert.Equal(t, id1, mine[0].ID)
	assert.Equal(t, id3, mine[1].ID)

	require.NoError(t, s.DeleteAppointment(id1))
	assert.Len(t, s.GetAppointments(0), 2)
	assert.Len(t, s.GetAppointments(1), 1)
}

func TestGetAppointment(t *testing.T) {
	s, _ := newTestStorage(t)

	id, _ := s.CreateAppointment(1, "Иван", "Др. X", "Консультация", "10.01.2025", "10:00")

	a, err := s.GetAppointment(id)
	require.NoError(t, err)
	assert.Equal(t, "Иван", a.PatientName)
	assert.Equal(t, StatusActive, a.Status)

	// Deleted records stay reachable by id.
	require.NoError(t, s.DeleteAppointment(id))
	a, err = s.GetAppointment(id)
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, a.Status)

	_, err = s.GetAppointment(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAppointment_PartialMerge(t *testing.T) {
	s, _ := newTestStorage(t)

	id, _ := s.CreateAppointment(1, "Иван", "Др. X", "Консультация", "10.01.2025", "10:00")

	newName := "Петр Сидоров"
	newTime := "15:00"
	require.NoError(t, s.UpdateAppointment(id, AppointmentUpdate{PatientName: &newName, Time: &newTime}))

	a, err := s.GetAppointment(id)
	require.NoError(t, err)
	assert.Equal(t, "Петр Сидоров", a.PatientName)
	assert.Equal(t, "15:00", a.Time)
	// Untouched fields survive the merge.
	assert.Equal(t, "Др. X", a.Doctor)
	assert.Equal(t, "10.01.2025", a.Date)

	assert.ErrorIs(t, s.UpdateAppointment(999, AppointmentUpdate{PatientName: &newName}), ErrNotFound)
}

func TestDeleteAppointment_SoftAndIdempotent(t *testing.T) {
	s, _ := newTestStorage(t)

	id, _ := s.CreateAppointment(1, "Иван", "Др. X", "Консультация", "10.01.2025", "10:00")
	require.NoError(t, s.DeleteAppointment(id))

	// The second delete finds no active record; the status stays deleted.
	assert.ErrorIs(t, s.DeleteAppointment(id), ErrNotFound)
	a, err := s.GetAppointment(id)
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, a.Status)

	assert.ErrorIs(t, s.DeleteAppointment(999), ErrNotFound)
}

func TestRoundTrip_PreservesDocument(t *testing.T) {
	s, path := newTestStorage(t)

	require.NoError(t, s.AddUser(1, "ivan", "Иван"))
	require.NoError(t, s.AddUser(2, "", "Анна"))
	s.CreateAppointment(1, "Иван", "Др. X", "Консультация", "10.01.2025", "10:00")
	s.CreateAppointment(2, "Анна", "Др. Y", "ЭКГ", "11.01.2025", "09:00")

	reloaded, err := NewJSONStorage(path, zap.NewNop())
	require.NoError(t, err)

	before := s.GetAppointments(0)
	after := reloaded.GetAppointments(0)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].UserID, after[i].UserID)
		assert.Equal(t, before[i].PatientName, after[i].PatientName)
		assert.Equal(t, before[i].Doctor, after[i].Doctor)
		assert.Equal(t, before[i].Procedure, after[i].Procedure)
		assert.Equal(t, before[i].Date, after[i].Date)
		assert.Equal(t, before[i].Time, after[i].Time)
		assert.Equal(t, before[i].Status, after[i].Status)
		assert.True(t, before[i].CreatedAt.Equal(after[i].CreatedAt))
	}

	users := reloaded.GetUsers()
	require.Len(t, users, 2)
	assert.Equal(t, "ivan", users["1"].Username)
	assert.Equal(t, "Анна", users["2"].FirstName)
}

// Сценарий из двух пользователей: конфликт слота и выбор другого времени.
func TestBookingScenario_TwoUsers(t *testing.T) {
	s, _ := newTestStorage(t)

	id1, err := s.CreateAppointment(100, "Пациент А", "Др. X", "Консультация", "10.01.2025", "10:00")
	require.NoError(t, err)
	assert.Equal(t, 1, id1)

	assert.False(t, s.IsSlotAvailable("Др. X", "10.01.2025", "10:00"))
	_, err = s.CreateAppointment(200, "Пациент Б", "Др. X", "Консультация", "10.01.2025", "10:00")
	assert.ErrorIs(t, err, ErrSlotTaken)

	id2, err := s.CreateAppointment(200, "Пациент Б", "Др. X", "Консультация", "10.01.2025", "11:00")
	require.NoError(t, err)
	assert.Equal(t, 2, id2)

	// Админ удаляет первую запись, слот освобождается.
	require.NoError(t, s.DeleteAppointment(id1))
	assert.True(t, s.IsSlotAvailable("Др. X", "10.01.2025", "10:00"))
	all := s.GetAppointments(0)
	require.Len(t, all, 1)
	assert.Equal(t, id2, all[0].ID)
}
