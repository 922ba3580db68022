package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// WindowConfig описывает рабочее окно дня для подбора слотов.
type WindowConfig struct {
	// Часы открытия/закрытия окна (локальный календарь юриста,
	// по умолчанию трактуется как UTC).
	OpenHour  int `yaml:"open_hour"`
	CloseHour int `yaml:"close_hour"`
	// Шаг сетки начала слотов в минутах.
	GridMinutes int `yaml:"grid_minutes"`
}

// JobsConfig — cron-расписания фоновых задач (5-польный синтаксис).
type JobsConfig struct {
	// Перевод просроченных встреч в completed.
	SweepCron string `yaml:"sweep"`
	// Сканы напоминаний: длинное окно раз в сутки, короткое — каждые полчаса.
	LongReminderCron  string `yaml:"long_reminder"`
	ShortReminderCron string `yaml:"short_reminder"`
	// Пауза между последовательными отправками в одном прогоне, мс.
	ThrottleMS int `yaml:"throttle_ms"`
}

// RemindersConfig — границы окон «встреча скоро начнётся».
type RemindersConfig struct {
	LongMinHours    int `yaml:"long_min_hours"`
	LongMaxHours    int `yaml:"long_max_hours"`
	ShortMinMinutes int `yaml:"short_min_minutes"`
	ShortMaxMinutes int `yaml:"short_max_minutes"`
}

// AppConfig — верхнеуровневая конфигурация сервиса.
type AppConfig struct {
	// Listen — адрес HTTP-фасада.
	Listen string `yaml:"listen"`

	Window    WindowConfig    `yaml:"working_window"`
	Jobs      JobsConfig      `yaml:"jobs"`
	Reminders RemindersConfig `yaml:"reminders"`
}

// DefaultAppConfig возвращает конфигурацию по умолчанию.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Listen: "127.0.0.1:8081",
		Window: WindowConfig{
			OpenHour:    9,
			CloseHour:   18,
			GridMinutes: 30,
		},
		Jobs: JobsConfig{
			SweepCron:         "0 * * * *",
			LongReminderCron:  "0 8 * * *",
			ShortReminderCron: "*/30 * * * *",
			ThrottleMS:        200,
		},
		Reminders: RemindersConfig{
			LongMinHours:    23,
			LongMaxHours:    25,
			ShortMinMinutes: 90,
			ShortMaxMinutes: 150,
		},
	}
}

// Normalize заполняет нулевые значения дефолтами, чтобы частично
// заполненные конфиги вели себя предсказуемо.
func (c *AppConfig) Normalize() {
	def := DefaultAppConfig()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Window.OpenHour <= 0 {
		c.Window.OpenHour = def.Window.OpenHour
	}
	if c.Window.CloseHour <= 0 || c.Window.CloseHour <= c.Window.OpenHour {
		c.Window.CloseHour = def.Window.CloseHour
	}
	if c.Window.GridMinutes <= 0 {
		c.Window.GridMinutes = def.Window.GridMinutes
	}
	if c.Jobs.SweepCron == "" {
		c.Jobs.SweepCron = def.Jobs.SweepCron
	}
	if c.Jobs.LongReminderCron == "" {
		c.Jobs.LongReminderCron = def.Jobs.LongReminderCron
	}
	if c.Jobs.ShortReminderCron == "" {
		c.Jobs.ShortReminderCron = def.Jobs.ShortReminderCron
	}
	if c.Jobs.ThrottleMS <= 0 {
		c.Jobs.ThrottleMS = def.Jobs.ThrottleMS
	}
	if c.Reminders.LongMinHours <= 0 {
		c.Reminders.LongMinHours = def.Reminders.LongMinHours
	}
	if c.Reminders.LongMaxHours <= c.Reminders.LongMinHours {
		c.Reminders.LongMaxHours = def.Reminders.LongMaxHours
	}
	if c.Reminders.ShortMinMinutes <= 0 {
		c.Reminders.ShortMinMinutes = def.Reminders.ShortMinMinutes
	}
	if c.Reminders.ShortMaxMinutes <= c.Reminders.ShortMinMinutes {
		c.Reminders.ShortMaxMinutes = def.Reminders.ShortMaxMinutes
	}
}

// LoadApp загружает конфигурацию из YAML-файла.
// Отсутствующий файл не считается ошибкой: возвращаются дефолты.
func LoadApp(path string) (*AppConfig, error) {
	if path == "" {
		return DefaultAppConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultAppConfig(), nil
		}
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}
