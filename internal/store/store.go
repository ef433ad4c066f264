package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dynamic-island/internal/logger"
	"dynamic-island/internal/model"
	"dynamic-island/internal/reminder"
)

// gormStore implements reminder.SettingsStore using GORM.
type gormStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewGormStore creates a new GORM-backed settings store.
func NewGormStore(db *gorm.DB) reminder.SettingsStore {
	return &gormStore{db: db, log: logger.WithComponent("store")}
}

// Load reads the settings. Any failure yields the defaults.
func (s *gormStore) Load(ctx context.Context) reminder.Settings {
	settings, err := s.load(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Debug().Msg("no stored settings, using defaults")
		return reminder.Defaults()
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to load settings, using defaults")
		return reminder.Defaults()
	}
	return settings
}

func (s *gormStore) load(ctx context.Context) (reminder.Settings, error) {
	db := s.db.WithContext(ctx)

	var cfg model.ReminderConfig
	if err := db.First(&cfg, model.SettingsRowID).Error; err != nil {
		return reminder.Settings{}, err
	}

	var times []model.CustomTime
	if err := db.Order("position").Find(&times).Error; err != nil {
		return reminder.Settings{}, fmt.Errorf("failed to load custom times: %w", err)
	}

	var todos []model.TodoItem
	if err := db.Order("position").Find(&todos).Error; err != nil {
		return reminder.Settings{}, fmt.Errorf("failed to load todos: %w", err)
	}

	out := reminder.Settings{
		DrinkEnabled:    cfg.DrinkEnabled,
		DrinkMode:       reminder.DrinkMode(cfg.DrinkMode),
		IntervalMinutes: cfg.IntervalMinutes,
		ActiveStart:     cfg.ActiveStart,
		ActiveEnd:       cfg.ActiveEnd,
		TodoEnabled:     cfg.TodoEnabled,
		CustomTimes:     make([]string, 0, len(times)),
		Todos:           make([]reminder.Todo, 0, len(todos)),
	}
	for _, t := range times {
		out.CustomTimes = append(out.CustomTimes, t.Clock)
	}
	for _, t := range todos {
		out.Todos = append(out.Todos, reminder.Todo{
			ID:           t.ID,
			ReminderTime: t.ReminderTime,
			Content:      t.Content,
			Completed:    t.Completed,
		})
	}
	return out.Normalize(), nil
}

// Save replaces the stored settings in one transaction.
func (s *gormStore) Save(ctx context.Context, settings reminder.Settings) error {
	settings = settings.Normalize()

	cfg := model.ReminderConfig{
		ID:              model.SettingsRowID,
		DrinkEnabled:    settings.DrinkEnabled,
		DrinkMode:       string(settings.DrinkMode),
		IntervalMinutes: settings.IntervalMinutes,
		ActiveStart:     settings.ActiveStart,
		ActiveEnd:       settings.ActiveEnd,
		TodoEnabled:     settings.TodoEnabled,
	}

	times := make([]model.CustomTime, 0, len(settings.CustomTimes))
	for i, c := range settings.CustomTimes {
		times = append(times, model.CustomTime{Clock: c, Position: i})
	}

	todos := make([]model.TodoItem, 0, len(settings.Todos))
	for i, t := range settings.Todos {
		todos = append(todos, model.TodoItem{
			ID:           t.ID,
			Position:     i,
			ReminderTime: t.ReminderTime,
			Content:      t.Content,
			Completed:    t.Completed,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&cfg).Error; err != nil {
			return fmt.Errorf("failed to upsert reminder config: %w", err)
		}

		if err := tx.Where("1 = 1").Delete(&model.CustomTime{}).Error; err != nil {
			return fmt.Errorf("failed to clear custom times: %w", err)
		}
		if len(times) > 0 {
			if err := tx.Create(&times).Error; err != nil {
				return fmt.Errorf("failed to insert custom times: %w", err)
			}
		}

		if err := tx.Where("1 = 1").Delete(&model.TodoItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear todos: %w", err)
		}
		if len(todos) > 0 {
			if err := tx.Create(&todos).Error; err != nil {
				return fmt.Errorf("failed to insert todos: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug().
		Int("custom_times", len(times)).
		Int("todos", len(todos)).
		Msg("settings saved")
	return nil
}
