// Package calendar generates per-appointment iCalendar files and sweeps
// them from the output directory as a best-effort cleanup.
package calendar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avoronov/clinicbot/storage"
)

const (
	filePrefix = "appointment_"
	fileSuffix = ".ics"

	// Appointment date and time as the bot presents them.
	eventTimeLayout = "02.01.2006 15:04"
	icsTimeLayout   = "20060102T150405"
)

// Manager writes .ics files for appointments into a single directory.
type Manager struct {
	dir      string
	location string
	log      *zap.Logger
}

// NewManager creates a calendar manager writing into dir. location is the
// clinic name used as the event LOCATION.
func NewManager(dir, location string, log *zap.Logger) *Manager {
	if dir == "" {
		dir = "."
	}
	return &Manager{
		dir:      dir,
		location: location,
		log:      log,
	}
}

// Generate writes an iCalendar file for the appointment and returns its
// path. The event lasts one hour and carries local floating time, no
// timezone marker.
func (m *Manager) Generate(a storage.Appointment) (string, error) {
	start, err := time.Parse(eventTimeLayout, a.Date+" "+a.Time)
	if err != nil {
		return "", fmt.Errorf("failed to parse appointment time %q %q: %w", a.Date, a.Time, err)
	}
	end := start.Add(time.Hour)

	content := fmt.Sprintf(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Clinic Bot//EN
BEGIN:VEVENT
UID:%d@clinicbot
DTSTART:%s
DTEND:%s
SUMMARY:Прием у %s
DESCRIPTION:Пациент: %s\nПроцедура: %s
LOCATION:%s
STATUS:CONFIRMED
END:VEVENT
END:VCALENDAR`,
		a.ID,
		start.Format(icsTimeLayout),
		end.Format(icsTimeLayout),
		a.Doctor,
		a.PatientName,
		a.Procedure,
		m.location,
	)

	path := filepath.Join(m.dir, fmt.Sprintf("%s%d%s", filePrefix, a.ID, fileSuffix))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write calendar file %s: %w", path, err)
	}

	m.log.Info("Generated calendar file", zap.Int("appointment_id", a.ID), zap.String("path", path))
	return path, nil
}

// Cleanup removes every appointment_*.ics file in the directory.
// Failures are logged and otherwise ignored.
func (m *Manager) Cleanup() {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		m.log.Warn("Calendar cleanup failed to read directory", zap.String("dir", m.dir), zap.Error(err))
		return
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, name)); err != nil {
			m.log.Warn("Failed to remove calendar file", zap.String("file", name), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		m.log.Info("Removed calendar files", zap.Int("count", removed))
	}
}
