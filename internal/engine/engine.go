// Package engine implements the care-plan regimen synchronization and
// daily-instance engine: it derives regimen items from the declarative care
// config, expands them into dated instances, completes instances from logged
// events, freezes a per-day plan snapshot, applies per-day overrides, and
// enforces the retention bounds on its own history.
package engine

import (
	"sync"
	"time"

	"github.com/jordanmae/carekeep/carekeep-cli/internal/constants"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/logger"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/models"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/storage"
	"github.com/jordanmae/carekeep/carekeep-cli/internal/utils"
)

// Observer receives a fire-and-forget notice that data changed for a patient
// in a category. It is owned by the engine's caller; the engine never touches
// process-wide state to announce changes. No ordering is guaranteed relative
// to storage durability.
type Observer func(patientID string, category constants.Category)

// Engine serializes all public operations behind a single mutex, turning the
// storage layer's read-modify-write pattern into a real last-writer-wins
// guarantee instead of a race.
type Engine struct {
	mu       sync.Mutex
	store    storage.Provider
	observer Observer
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver sets the data-change observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithClock overrides the engine's clock. Tests use this to pin "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given storage provider.
func New(store storage.Provider, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) notify(patientID string, category constants.Category) {
	if e.observer != nil {
		e.observer(patientID, category)
	}
}

// today returns the current date in the configured timezone, falling back to
// the system timezone when settings are unreadable.
func (e *Engine) today() string {
	settings, err := e.store.GetSettings()
	if err != nil {
		return e.now().Format(constants.DateFormat)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone in settings, using system timezone", "timezone", settings.Timezone)
		return e.now().Format(constants.DateFormat)
	}
	return e.now().In(loc).Format(constants.DateFormat)
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

// GetOrCreateCarePlanConfig returns the patient's care configuration,
// creating the default one on first access.
func (e *Engine) GetOrCreateCarePlanConfig(patientID string) (models.CarePlanConfig, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.getOrCreateConfig(patientID)
}

func (e *Engine) getOrCreateConfig(patientID string) (models.CarePlanConfig, error) {
	cfg, err := e.store.GetCarePlanConfig(patientID)
	if err == nil {
		return cfg, nil
	}
	if !isNotFound(err) {
		return models.CarePlanConfig{}, err
	}

	cfg = models.DefaultCarePlanConfig(patientID)
	cfg.UpdatedAt = e.timestamp()
	if err := e.store.SaveCarePlanConfig(cfg); err != nil {
		return models.CarePlanConfig{}, err
	}
	return cfg, nil
}
