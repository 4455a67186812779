package classroom

import (
	"context"
	"fmt"
	"strings"

	"classroom-assistant-go/models"
	"classroom-assistant-go/roster"

	"github.com/labstack/gommon/log"
)

// RosterResult summarizes how a roster text was applied.
type RosterResult struct {
	Added      int `json:"added"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

// parseRoster validates roster text and returns its students.
func parseRoster(text string) ([]models.Student, int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, 0, ErrEmptyRoster
	}
	students, errs := roster.Parse(text)
	if len(students) == 0 {
		return nil, errs, ErrNoValidStudents
	}
	return students, errs, nil
}

// CreateClass appends a class built from roster text, selects it and persists.
// It returns the new class index.
func (e *Engine) CreateClass(ctx context.Context, name, rosterText string) (int, RosterResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res RosterResult
	name = strings.TrimSpace(name)
	err := e.update(ctx, func() error {
		if name == "" {
			return ErrEmptyName
		}
		if e.nameTaken(name, NoSelection) {
			return newError(ErrDuplicateName, "class %q already exists", name)
		}
		students, skipped, err := parseRoster(rosterText)
		if err != nil {
			return err
		}
		cls := models.NewClass(name, students)
		cls.SeatingChart = models.NewSeatingChart(e.rows, e.cols)
		e.classes = append(e.classes, cls)
		e.current = len(e.classes) - 1
		res = RosterResult{Added: len(students), Skipped: skipped}
		return nil
	})
	if err != nil {
		return NoSelection, RosterResult{}, err
	}

	log.Infof("created class %q with %d students", name, res.Added)
	e.notifier.Notify(rosterMessage(fmt.Sprintf("Class %q created.", name), res), NoticeShort)
	return e.current, res, nil
}

// UpdateClass renames the class at index and replaces its roster with the
// freshly parsed one. Seats and groups of students no longer on the roster are
// dropped right away.
func (e *Engine) UpdateClass(ctx context.Context, index int, name, rosterText string) (RosterResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res RosterResult
	name = strings.TrimSpace(name)
	err := e.update(ctx, func() error {
		c, err := e.class(index)
		if err != nil {
			return err
		}
		if name == "" {
			return ErrEmptyName
		}
		if e.nameTaken(name, index) {
			return newError(ErrDuplicateName, "class %q already exists", name)
		}
		students, skipped, err := parseRoster(rosterText)
		if err != nil {
			return err
		}
		c.Name = name
		c.Students = students
		c.SortStudents()
		if dropped := c.Prune(); dropped > 0 {
			log.Debugf("class %q: dropped %d references after roster update", name, dropped)
		}
		res = RosterResult{Added: len(students), Skipped: skipped}
		return nil
	})
	if err != nil {
		return RosterResult{}, err
	}

	e.notifier.Notify(rosterMessage(fmt.Sprintf("Class %q updated.", name), res), NoticeShort)
	return res, nil
}

// DeleteClass removes the class at index after confirmation. When it was the
// current class, selection moves to the class now at the same position, or the
// last class, or none.
func (e *Engine) DeleteClass(ctx context.Context, index int, c Confirmer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var name string
	err := e.update(ctx, func() error {
		cls, err := e.class(index)
		if err != nil {
			return err
		}
		name = cls.Name
		if err := confirm(c, "Delete class", fmt.Sprintf("Delete class %q and all of its data? This cannot be undone.", name)); err != nil {
			return err
		}
		e.classes = append(e.classes[:index:index], e.classes[index+1:]...)
		switch {
		case e.current == index:
			e.current = index
			if e.current >= len(e.classes) {
				e.current = len(e.classes) - 1
			}
		case e.current > index:
			e.current--
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Infof("deleted class %q", name)
	e.notifier.Notify(fmt.Sprintf("Class %q deleted.", name), NoticeShort)
	return nil
}

// AddStudents merges the parsed roster into the class at index. Students whose
// id is already present are skipped and counted as duplicates.
func (e *Engine) AddStudents(ctx context.Context, index int, rosterText string) (RosterResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cls, err := e.class(index)
	if err != nil {
		return RosterResult{}, err
	}
	students, skipped, err := parseRoster(rosterText)
	if err != nil {
		return RosterResult{}, err
	}

	res := RosterResult{Skipped: skipped}
	fresh := make([]models.Student, 0, len(students))
	for _, s := range students {
		if cls.HasStudent(s.ID) {
			res.Duplicates++
			continue
		}
		fresh = append(fresh, s)
	}
	res.Added = len(fresh)

	if res.Added > 0 {
		err = e.update(ctx, func() error {
			c := &e.classes[index]
			c.Students = append(c.Students, fresh...)
			c.SortStudents()
			return nil
		})
		if err != nil {
			return RosterResult{}, err
		}
	}

	e.notifier.Notify(rosterMessage(fmt.Sprintf("Added %d students.", res.Added), res), NoticeShort)
	return res, nil
}

// ResetScores sets every score in the class to zero after confirmation.
func (e *Engine) ResetScores(ctx context.Context, index int, c Confirmer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.update(ctx, func() error {
		cls, err := e.class(index)
		if err != nil {
			return err
		}
		if err := confirm(c, "Reset scores", fmt.Sprintf("Reset every score in %q to 0?", cls.Name)); err != nil {
			return err
		}
		for i := range cls.Students {
			cls.Students[i].Score = 0
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.notifier.Notify("All scores reset.", NoticeShort)
	return nil
}

// ClearAll removes every class and the stored selection after confirmation.
func (e *Engine) ClearAll(ctx context.Context, c Confirmer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := confirm(c, "Clear all data", "Delete every class and all saved data? This cannot be undone."); err != nil {
		return err
	}
	if err := e.repo.Clear(ctx); err != nil {
		log.Errorf("failed to clear classroom data: %v", err)
		return wrapError(ErrStorage, err)
	}
	e.classes = []models.Class{}
	e.current = NoSelection

	log.Info("cleared all classroom data")
	e.notifier.Notify("All data cleared.", NoticeShort)
	return nil
}

func rosterMessage(head string, res RosterResult) string {
	msg := head
	if res.Duplicates > 0 {
		msg += fmt.Sprintf(" %d duplicate ids skipped.", res.Duplicates)
	}
	if res.Skipped > 0 {
		msg += fmt.Sprintf(" %d lines could not be parsed.", res.Skipped)
	}
	return msg
}
