package classroom

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"classroom-assistant-go/models"

	"github.com/labstack/gommon/log"
)

func (e *Engine) student(index, id int) (*models.Class, *models.Student, error) {
	c, err := e.class(index)
	if err != nil {
		return nil, nil, err
	}
	s := c.Student(id)
	if s == nil {
		return nil, nil, newError(ErrStudentNotFound, "student %d not found in %q", id, c.Name)
	}
	return c, s, nil
}

// DeleteStudent removes a student after confirmation, along with their seat
// and group membership.
func (e *Engine) DeleteStudent(ctx context.Context, index, id int, c Confirmer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var name string
	err := e.update(ctx, func() error {
		cls, s, err := e.student(index, id)
		if err != nil {
			return err
		}
		name = s.Name
		if err := confirm(c, "Delete student", fmt.Sprintf("Remove %d %s from %q?", id, name, cls.Name)); err != nil {
			return err
		}
		i := cls.StudentIndex(id)
		cls.Students = append(cls.Students[:i:i], cls.Students[i+1:]...)
		cls.ForgetStudent(id)
		return nil
	})
	if err != nil {
		return err
	}
	e.notifier.Notify(fmt.Sprintf("Student %s removed.", name), NoticeShort)
	return nil
}

// RenumberStudent changes a student's id to the integer in value. Seat and
// group references follow the student. It reports whether anything changed.
func (e *Engine) RenumberStudent(ctx context.Context, index, id int, value string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value = strings.TrimSpace(value)
	changed := false
	err := e.update(ctx, func() error {
		cls, s, err := e.student(index, id)
		if err != nil {
			return err
		}
		if value == "" {
			return ErrEmptyValue
		}
		newID, err := strconv.Atoi(value)
		if err != nil || newID < 1 {
			return newError(ErrInvalidID, "%q is not a positive integer", value)
		}
		if newID == id {
			return nil
		}
		if cls.HasStudent(newID) {
			return newError(ErrDuplicateID, "id %d is already used in %q", newID, cls.Name)
		}
		s.ID = newID
		cls.RemapStudent(id, newID)
		cls.SortStudents()
		changed = true
		return nil
	})
	if err != nil || !changed {
		return false, err
	}
	log.Debugf("renumbered student %d to %s", id, value)
	return true, nil
}

// RenameStudent sets a student's name. It reports whether anything changed.
func (e *Engine) RenameStudent(ctx context.Context, index, id int, name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	name = strings.TrimSpace(name)
	changed := false
	err := e.update(ctx, func() error {
		_, s, err := e.student(index, id)
		if err != nil {
			return err
		}
		if name == "" {
			return ErrEmptyValue
		}
		if s.Name == name {
			return nil
		}
		s.Name = name
		changed = true
		return nil
	})
	return changed && err == nil, err
}

// UpdateScore adds delta to a student's score and returns the new score.
func (e *Engine) UpdateScore(ctx context.Context, index, id, delta int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	score := 0
	err := e.update(ctx, func() error {
		_, s, err := e.student(index, id)
		if err != nil {
			return err
		}
		s.Score += delta
		score = s.Score
		return nil
	})
	if err != nil {
		return 0, err
	}
	return score, nil
}

// ToggleSelected flips whether a student takes part in draws and returns the new value.
func (e *Engine) ToggleSelected(ctx context.Context, index, id int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	selected := false
	err := e.update(ctx, func() error {
		_, s, err := e.student(index, id)
		if err != nil {
			return err
		}
		s.Selected = !s.Selected
		selected = s.Selected
		return nil
	})
	if err != nil {
		return false, err
	}
	return selected, nil
}

// SetAllSelected sets the draw flag of every student in the class and returns
// how many students were affected.
func (e *Engine) SetAllSelected(ctx context.Context, index int, selected bool) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	err := e.update(ctx, func() error {
		cls, err := e.class(index)
		if err != nil {
			return err
		}
		for i := range cls.Students {
			cls.Students[i].Selected = selected
		}
		n = len(cls.Students)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
