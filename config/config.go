package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the static configuration of the bot: the clinic catalog,
// the admin allow-list and file locations. Loaded once at startup and
// never mutated during a run.
type Config struct {
	DataFile    string              `yaml:"data_file"`
	CalendarDir string              `yaml:"calendar_dir"`
	AdminIDs    []int64             `yaml:"admin_ids"`
	Doctors     []string            `yaml:"doctors"`
	Procedures  map[string][]string `yaml:"procedures"`
	TimeSlots   []string            `yaml:"time_slots"`
	Clinic      ClinicConfig        `yaml:"clinic"`
	Worker      WorkerConfig        `yaml:"worker"`
}

// ClinicConfig describes the clinic itself, shown on the about screen
// and used as the calendar event location.
type ClinicConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Hours   string `yaml:"hours"`
}

// WorkerConfig configures the completion sweep.
type WorkerConfig struct {
	SweepMinutes int `yaml:"sweep_minutes"`
}

// Default returns the built-in configuration used when no config file is
// present. A partial config file overrides individual fields of it.
func Default() *Config {
	return &Config{
		DataFile:    "data/appointments.json",
		CalendarDir: ".",
		Doctors: []string{
			"Иванов Иван Иванович (терапевт)",
			"Петрова Анна Сергеевна (стоматолог)",
			"Сидоров Павел Олегович (хирург)",
			"Козлова Елена Викторовна (офтальмолог)",
		},
		Procedures: map[string][]string{
			"иванов":  {"Консультация", "ЭКГ", "Общий осмотр"},
			"петрова": {"Лечение кариеса", "Чистка зубов", "Консультация"},
			"сидоров": {"Консультация хирурга", "Перевязка", "Снятие швов"},
			"козлова": {"Проверка зрения", "Подбор очков", "Консультация"},
		},
		TimeSlots: []string{
			"09:00", "10:00", "11:00", "12:00",
			"14:00", "15:00", "16:00", "17:00",
		},
		Clinic: ClinicConfig{
			Name:    "Клиника «Здоровье»",
			Address: "г. Москва, ул. Медицинская, д. 10",
			Phone:   "+7 (495) 123-45-67",
			Hours:   "Пн-Пт 8:00-20:00, Сб 9:00-18:00",
		},
		Worker: WorkerConfig{
			SweepMinutes: 30,
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults.
// A missing file is not an error: the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// IsAdmin reports whether the identifier is on the admin allow-list.
// The bot receives this method as its admin capability predicate.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ProceduresFor returns the procedure catalog for a doctor. The catalog is
// keyed by the lowercased first word of the doctor's name; a doctor with no
// entry gets the generic consultation.
func (c *Config) ProceduresFor(doctor string) []string {
	fields := strings.Fields(doctor)
	if len(fields) > 0 {
		if procedures, ok := c.Procedures[strings.ToLower(fields[0])]; ok {
			return procedures
		}
	}
	return []string{"Консультация"}
}

// HasDoctor reports whether the doctor is in the configured list.
func (c *Config) HasDoctor(doctor string) bool {
	for _, d := range c.Doctors {
		if d == doctor {
			return true
		}
	}
	return false
}

// HasTimeSlot reports whether the time is one of the configured slots.
func (c *Config) HasTimeSlot(timeSlot string) bool {
	for _, t := range c.TimeSlots {
		if t == timeSlot {
			return true
		}
	}
	return false
}
