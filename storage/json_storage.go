package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// document is the persisted shape of the whole store: one JSON file
// rewritten after every mutation.
type document struct {
	Appointments []Appointment   `json:"appointments"`
	Users        map[string]User `json:"users"`
	NextID       int             `json:"next_id"`
}

// JSONStorage is a write-through store backed by a single JSON document.
// It implements the Store interface.
type JSONStorage struct {
	mu       sync.RWMutex
	filePath string
	doc      document
	log      *zap.Logger
}

// NewJSONStorage opens the document at filePath, creating an empty one if
// the file does not exist. A present but unreadable document is an error;
// there is no recovery path for a corrupt file.
func NewJSONStorage(filePath string, log *zap.Logger) (*JSONStorage, error) {
	if dir := filepath.Dir(filePath); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	s := &JSONStorage{
		filePath: filePath,
		log:      log,
		doc: document{
			Appointments: []Appointment{},
			Users:        make(map[string]User),
			NextID:       1,
		},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read data file %s: %w", filePath, err)
		}
		if err := s.save(); err != nil {
			return nil, err
		}
		log.Info("Created empty data file", zap.String("path", filePath))
		return s, nil
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", filePath, err)
	}
	if s.doc.Users == nil {
		s.doc.Users = make(map[string]User)
	}

	log.Info("Loaded data file",
		zap.String("path", filePath),
		zap.Int("appointments", len(s.doc.Appointments)),
		zap.Int("users", len(s.doc.Users)))
	return s, nil
}

// save writes the whole document to disk. Callers must hold the write lock.
func (s *JSONStorage) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write data file %s: %w", s.filePath, err)
	}
	return nil
}

// AddUser registers a user if the id is new; a no-op otherwise.
func (s *JSONStorage) AddUser(userID int64, username, firstName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strconv.FormatInt(userID, 10)
	if _, ok := s.doc.Users[key]; ok {
		return nil
	}

	s.doc.Users[key] = User{
		Username:     username,
		FirstName:    firstName,
		RegisteredAt: time.Now(),
	}
	return s.save()
}

// CreateAppointment stores a new active appointment and returns its id.
// The slot check happens under the same lock as the insert, so two
// bookings for one (doctor, date, time) slot cannot both succeed.
func (s *JSONStorage) CreateAppointment(userID int64, patientName, doctor, procedure, date, timeSlot string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.slotAvailable(doctor, date, timeSlot) {
		return 0, ErrSlotTaken
	}

	id := s.doc.NextID
	s.doc.Appointments = append(s.doc.Appointments, Appointment{
		ID:          id,
		UserID:      userID,
		PatientName: patientName,
		Doctor:      doctor,
		Procedure:   procedure,
		Date:        date,
		Time:        timeSlot,
		CreatedAt:   time.Now(),
		Status:      StatusActive,
	})
	s.doc.NextID++

	if err := s.save(); err != nil {
		return 0, err
	}
	s.log.Info("Created appointment",
		zap.Int("id", id),
		zap.Int64("user_id", userID),
		zap.String("doctor", doctor),
		zap.String("date", date),
		zap.String("time", timeSlot))
	return id, nil
}

// GetAppointments returns active appointments in insertion order.
// A zero userID returns appointments of all users.
func (s *JSONStorage) GetAppointments(userID int64) []Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Appointment
	for _, a := range s.doc.Appointments {
		if a.Status != StatusActive {
			continue
		}
		if userID != 0 && a.UserID != userID {
			continue
		}
		result = append(result, a)
	}
	return result
}

// GetAppointment returns the appointment with the given id.
func (s *JSONStorage) GetAppointment(id int) (Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.doc.Appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return Appointment{}, ErrNotFound
}

// UpdateAppointment merges non-nil fields of upd into the record.
func (s *JSONStorage) UpdateAppointment(id int, upd AppointmentUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Appointments {
		if s.doc.Appointments[i].ID != id {
			continue
		}
		a := &s.doc.Appointments[i]
		if upd.PatientName != nil {
			a.PatientName = *upd.PatientName
		}
		if upd.Doctor != nil {
			a.Doctor = *upd.Doctor
		}
		if upd.Procedure != nil {
			a.Procedure = *upd.Procedure
		}
		if upd.Date != nil {
			a.Date = *upd.Date
		}
		if upd.Time != nil {
			a.Time = *upd.Time
		}
		if upd.Status != nil {
			a.Status = *upd.Status
		}
		return s.save()
	}
	return ErrNotFound
}

// DeleteAppointment soft-deletes an active appointment. Deleting an id
// that is missing or already deleted yields ErrNotFound, so the status
// transition happens at most once.
func (s *JSONStorage) DeleteAppointment(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Appointments {
		if s.doc.Appointments[i].ID != id {
			continue
		}
		if s.doc.Appointments[i].Status != StatusActive {
			return ErrNotFound
		}
		s.doc.Appointments[i].Status = StatusDeleted
		if err := s.save(); err != nil {
			return err
		}
		s.log.Info("Deleted appointment", zap.Int("id", id))
		return nil
	}
	return ErrNotFound
}

// IsSlotAvailable reports whether no active appointment occupies the slot.
func (s *JSONStorage) IsSlotAvailable(doctor, date, timeSlot string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slotAvailable(doctor, date, timeSlot)
}

// slotAvailable is the lock-free core of IsSlotAvailable, shared with
// CreateAppointment. Callers must hold at least the read lock.
func (s *JSONStorage) slotAvailable(doctor, date, timeSlot string) bool {
	for _, a := range s.doc.Appointments {
		if a.Status == StatusActive && a.Doctor == doctor && a.Date == date && a.Time == timeSlot {
			return false
		}
	}
	return true
}

// GetUsers returns a copy of all registered users keyed by stringified id.
func (s *JSONStorage) GetUsers() map[string]User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]User, len(s.doc.Users))
	for k, v := range s.doc.Users {
		users[k] = v
	}
	return users
}
