package classroom

import (
	"context"
	"fmt"

	"classroom-assistant-go/models"
)

// DrawResult is the outcome of a draw. Frames are preview names for a short
// animation and carry no meaning; Winner is chosen independently of them.
type DrawResult struct {
	Winner     models.Student   `json:"winner"`
	Frames     []models.Student `json:"frames"`
	Candidates int              `json:"candidates"`
}

// Draw picks one selected student of the class uniformly at random.
// It does not modify the store.
func (e *Engine) Draw(_ context.Context, index int) (DrawResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cls, err := e.class(index)
	if err != nil {
		return DrawResult{}, err
	}
	pool := cls.Selectable()
	if len(pool) == 0 {
		return DrawResult{}, ErrNothingSelected
	}

	res := DrawResult{Frames: make([]models.Student, e.drawFrames), Candidates: len(pool)}
	for i := range res.Frames {
		res.Frames[i] = pool[e.rng.Intn(len(pool))]
	}
	res.Winner = pool[e.rng.Intn(len(pool))]

	e.notifier.Notify(fmt.Sprintf("Drawn: %d %s", res.Winner.ID, res.Winner.Name), NoticeShort)
	return res, nil
}

// Selectable returns the students of the class that a draw can pick. An empty
// result means drawing is currently not possible.
func (e *Engine) Selectable(index int) ([]models.Student, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cls, err := e.class(index)
	if err != nil {
		return nil, err
	}
	return cls.Selectable(), nil
}
