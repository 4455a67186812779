package classroom

import (
	"context"
	"fmt"

	"classroom-assistant-go/models"

	"github.com/labstack/gommon/log"
)

// SeatAssignment is one occupied cell.
type SeatAssignment struct {
	Seat    models.SeatKey `json:"seat"`
	Student models.Student `json:"student"`
}

// SeatingView is the seating chart of a class resolved against its roster.
type SeatingView struct {
	Rows     int              `json:"rows"`
	Cols     int              `json:"cols"`
	Seats    []SeatAssignment `json:"seats"`
	Unseated []models.Student `json:"unseated"`
}

// AssignResult summarizes a random seat or group assignment.
type AssignResult struct {
	Assigned  int `json:"assigned"`
	Remaining int `json:"remaining"`
}

// SeatingView returns the seats in row-major order and the unseated students
// by id. Stale references found on the way are dropped and persisted.
func (e *Engine) SeatingView(ctx context.Context, index int) (SeatingView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.class(index); err != nil {
		return SeatingView{}, err
	}
	e.repair(ctx, index)
	c := &e.classes[index]

	view := SeatingView{
		Rows:     c.SeatingChart.Rows,
		Cols:     c.SeatingChart.Cols,
		Seats:    make([]SeatAssignment, 0, c.SeatingChart.Occupied()),
		Unseated: []models.Student{},
	}
	for _, k := range c.SeatingChart.Keys() {
		view.Seats = append(view.Seats, SeatAssignment{Seat: k, Student: *c.Student(c.SeatingChart.Seats[k])})
	}
	seated := c.SeatingChart.SeatedIDs()
	for _, s := range c.Students {
		if !seated[s.ID] {
			view.Unseated = append(view.Unseated, s)
		}
	}
	return view, nil
}

// GenerateGrid replaces the seating chart with an empty rows x cols grid.
// Confirmation is required when any seat is occupied.
func (e *Engine) GenerateGrid(ctx context.Context, index, rows, cols int, c Confirmer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.update(ctx, func() error {
		cls, err := e.class(index)
		if err != nil {
			return err
		}
		if !models.ValidGridSize(rows) || !models.ValidGridSize(cols) {
			return newError(ErrInvalidDimensions, "rows and columns must be between %d and %d, got %dx%d",
				models.MinGridSize, models.MaxGridSize, rows, cols)
		}
		if cls.SeatingChart.Occupied() > 0 {
			if err := confirm(c, "Generate seating chart", "A new chart clears every current seat. Continue?"); err != nil {
				return err
			}
		}
		cls.SeatingChart = models.NewSeatingChart(rows, cols)
		return nil
	})
	if err != nil {
		return err
	}
	e.notifier.Notify(fmt.Sprintf("New %dx%d seating chart generated.", rows, cols), NoticeShort)
	return nil
}

// PlaceStudent seats a student at seat, moving them from any previous seat.
// A different occupant of seat becomes unseated; their id is returned, or 0.
func (e *Engine) PlaceStudent(ctx context.Context, index, id int, seat models.SeatKey) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	evicted := 0
	err := e.update(ctx, func() error {
		cls, _, err := e.student(index, id)
		if err != nil {
			return err
		}
		if !seat.InGrid(cls.SeatingChart.Rows, cls.SeatingChart.Cols) {
			return newError(ErrInvalidSeat, "seat %s is outside the %dx%d chart", seat, cls.SeatingChart.Rows, cls.SeatingChart.Cols)
		}
		if prev, ok := cls.SeatingChart.Place(id, seat); ok {
			evicted = prev
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return evicted, nil
}

// RemoveStudentFromSeat unseats a student. It reports whether they had a seat.
func (e *Engine) RemoveStudentFromSeat(ctx context.Context, index, id int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cls, err := e.class(index)
	if err != nil {
		return false, err
	}
	if _, seated := cls.SeatingChart.SeatOf(id); !seated {
		return false, nil
	}
	err = e.update(ctx, func() error {
		e.classes[index].SeatingChart.Vacate(id)
		return nil
	})
	return err == nil, err
}

// ResetSeats clears every seat after confirmation, keeping the grid size.
// It reports false without prompting when no seat was occupied.
func (e *Engine) ResetSeats(ctx context.Context, index int, c Confirmer) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cls, err := e.class(index)
	if err != nil {
		return false, err
	}
	if cls.SeatingChart.Occupied() == 0 {
		e.notifier.Notify("The seating chart is already empty.", NoticeShort)
		return false, nil
	}
	err = e.update(ctx, func() error {
		if err := confirm(c, "Clear seating chart", "Move every student back to unseated?"); err != nil {
			return err
		}
		sc := &e.classes[index].SeatingChart
		*sc = models.NewSeatingChart(sc.Rows, sc.Cols)
		return nil
	})
	if err != nil {
		return false, err
	}
	e.notifier.Notify("Seating chart cleared.", NoticeShort)
	return true, nil
}

// RandomAssign fills empty seats with a random pairing of unseated students.
// Already seated students keep their seats. When seats run out the remaining
// students stay unseated.
func (e *Engine) RandomAssign(ctx context.Context, index int) (AssignResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.class(index); err != nil {
		return AssignResult{}, err
	}
	e.repair(ctx, index)
	cls := &e.classes[index]

	seated := cls.SeatingChart.SeatedIDs()
	unseated := make([]int, 0, len(cls.Students))
	for _, s := range cls.Students {
		if !seated[s.ID] {
			unseated = append(unseated, s.ID)
		}
	}
	cells := cls.SeatingChart.EmptyCells()

	if len(unseated) == 0 {
		e.notifier.Notify("Every student already has a seat.", NoticeShort)
		return AssignResult{}, nil
	}
	if len(cells) == 0 {
		e.notifier.Notify("There are no empty seats left.", NoticeShort)
		return AssignResult{Remaining: len(unseated)}, nil
	}

	shuffle(e.rng, unseated)
	shuffle(e.rng, cells)
	n := len(unseated)
	if len(cells) < n {
		n = len(cells)
	}
	res := AssignResult{Assigned: n, Remaining: len(unseated) - n}

	err := e.update(ctx, func() error {
		sc := &e.classes[index].SeatingChart
		for i := 0; i < n; i++ {
			sc.Seats[cells[i]] = unseated[i]
		}
		return nil
	})
	if err != nil {
		return AssignResult{}, err
	}

	log.Debugf("class %q: randomly seated %d students", cls.Name, n)
	msg := fmt.Sprintf("Randomly seated %d students.", res.Assigned)
	if res.Remaining > 0 {
		msg += fmt.Sprintf(" %d students have no seat; enlarge the chart to fit everyone.", res.Remaining)
	}
	e.notifier.Notify(msg, NoticeShort)
	return res, nil
}
