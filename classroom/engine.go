// Package classroom holds the classroom assistant engine: the class store,
// rosters, scores, seating charts, groupings and the random draw. Every
// mutation is validated, applied and persisted as one step.
package classroom

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"classroom-assistant-go/models"

	"github.com/labstack/gommon/log"
)

// NoSelection is the current index when no class is selected.
const NoSelection = -1

// DefaultDrawFrames is how many preview names a draw animation shows.
const DefaultDrawFrames = 15

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Notifier   Notifier
	Rand       *rand.Rand
	DrawFrames int
	Now        func() time.Time
	// Rows and Cols size the seating chart of new classes.
	Rows, Cols int
}

// Engine owns the class store. All methods are safe for concurrent use;
// operations are serialized so each one sees the result of the last.
type Engine struct {
	mu         sync.Mutex
	repo       Repository
	notifier   Notifier
	rng        *rand.Rand
	drawFrames int
	now        func() time.Time
	rows, cols int

	classes []models.Class
	current int
}

// Snapshot is a deep copy of the store at one point in time.
type Snapshot struct {
	Classes []models.Class `json:"classes"`
	Current int            `json:"current"`
}

// New returns an empty engine backed by repo. Call Load to restore saved state.
func New(repo Repository, opts Options) *Engine {
	e := &Engine{
		repo:       repo,
		notifier:   opts.Notifier,
		rng:        opts.Rand,
		drawFrames: opts.DrawFrames,
		now:        opts.Now,
		rows:       opts.Rows,
		cols:       opts.Cols,
		classes:    []models.Class{},
		current:    NoSelection,
	}
	if e.notifier == nil {
		e.notifier = discardNotifier{}
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.drawFrames <= 0 {
		e.drawFrames = DefaultDrawFrames
	}
	if e.now == nil {
		e.now = time.Now
	}
	if !models.ValidGridSize(e.rows) || !models.ValidGridSize(e.cols) {
		e.rows, e.cols = models.DefaultRows, models.DefaultCols
	}
	return e
}

// Load restores the store from the repository. Missing data leaves the store
// empty. Bad records inside a readable document are repaired or dropped with a
// warning. A payload that is not a JSON array is backed up, reported as a
// storage corruption error and the store starts empty.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.classes = []models.Class{}
	e.current = NoSelection

	payload, lastSelected, found, err := e.repo.Load(ctx)
	if err != nil {
		log.Errorf("failed to load classroom data: %v", err)
		return wrapError(ErrStorage, err)
	}
	if !found {
		log.Info("no saved classroom data, starting empty")
		return nil
	}

	classes, err := decodeDocument(payload, decodeLenient)
	if err != nil {
		log.Errorf("stored classroom data is corrupt: %v", err)
		if berr := e.repo.Backup(ctx, payload); berr != nil {
			log.Errorf("failed to back up corrupt classroom data: %v", berr)
		}
		e.notifier.Notify("Saved data could not be read and was ignored.", NoticeLong)
		return wrapError(ErrCorruptStorage, err)
	}

	e.classes = classes
	e.current = e.indexOf(lastSelected)
	if e.current == NoSelection && len(e.classes) > 0 {
		e.current = 0
	}
	log.Infof("loaded %d classes, current=%d", len(e.classes), e.current)
	return nil
}

// Snapshot returns a deep copy of all classes and the current selection.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{Classes: models.CloneClasses(e.classes), Current: e.current}
}

// Classes returns a deep copy of all classes in creation order.
func (e *Engine) Classes() []models.Class {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.CloneClasses(e.classes)
}

// Class returns a copy of the class at index.
func (e *Engine) Class(index int) (models.Class, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.class(index)
	if err != nil {
		return models.Class{}, err
	}
	return c.Clone(), nil
}

// Current returns the selected class index or NoSelection.
func (e *Engine) Current() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// SelectClass makes index the current class and remembers it across restarts.
func (e *Engine) SelectClass(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.update(ctx, func() error {
		if _, err := e.class(index); err != nil {
			return err
		}
		e.current = index
		return nil
	})
}

func (e *Engine) class(index int) (*models.Class, error) {
	if index < 0 || index >= len(e.classes) {
		return nil, newError(ErrClassNotFound, "class %d not found", index)
	}
	return &e.classes[index], nil
}

func (e *Engine) indexOf(name string) int {
	if name == "" {
		return NoSelection
	}
	for i := range e.classes {
		if e.classes[i].Name == name {
			return i
		}
	}
	return NoSelection
}

// nameTaken reports whether another class than skip already uses name.
func (e *Engine) nameTaken(name string, skip int) bool {
	for i := range e.classes {
		if i != skip && e.classes[i].Name == name {
			return true
		}
	}
	return false
}

// update runs fn and persists the result. When fn fails or the save fails the
// store is restored to its state before fn ran.
func (e *Engine) update(ctx context.Context, fn func() error) error {
	prevClasses := models.CloneClasses(e.classes)
	prevCurrent := e.current

	if err := fn(); err != nil {
		e.classes, e.current = prevClasses, prevCurrent
		return err
	}
	if err := e.save(ctx); err != nil {
		e.classes, e.current = prevClasses, prevCurrent
		e.notifier.Notify("Changes could not be saved.", NoticeLong)
		return err
	}
	return nil
}

func (e *Engine) save(ctx context.Context) error {
	payload, err := encodeDocument(e.classes)
	if err != nil {
		log.Errorf("failed to encode classroom data: %v", err)
		return wrapError(ErrStorage, err)
	}
	lastSelected := ""
	if e.current != NoSelection {
		lastSelected = e.classes[e.current].Name
	}
	if err := e.repo.Save(ctx, payload, lastSelected); err != nil {
		log.Errorf("failed to save classroom data: %v", err)
		return wrapError(ErrStorage, err)
	}
	return nil
}

// repair prunes stale seat and group references of c and persists when any were
// found. A failed save is logged; the repaired state stays in memory.
func (e *Engine) repair(ctx context.Context, index int) {
	c := &e.classes[index]
	if dropped := c.Prune(); dropped > 0 {
		log.Warnf("class %q: dropped %d stale seat or group references", c.Name, dropped)
		if err := e.save(ctx); err != nil {
			log.Warnf("class %q: repair not persisted: %v", c.Name, err)
		}
	}
}
