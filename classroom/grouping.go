package classroom

import (
	"context"
	"fmt"

	"classroom-assistant-go/models"

	"github.com/labstack/gommon/log"
)

// GroupView is one group with its members resolved against the roster.
type GroupView struct {
	Group    models.GroupKey  `json:"group"`
	Students []models.Student `json:"students"`
}

// GroupingView lists groups 1..GroupCount in order and the ungrouped students by id.
type GroupingView struct {
	GroupCount int              `json:"group_count"`
	Groups     []GroupView      `json:"groups"`
	Ungrouped  []models.Student `json:"ungrouped"`
}

// GroupingView returns the grouping of a class. Stale references found on the
// way are dropped and persisted.
func (e *Engine) GroupingView(ctx context.Context, index int) (GroupingView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.class(index); err != nil {
		return GroupingView{}, err
	}
	e.repair(ctx, index)
	c := &e.classes[index]
	g := &c.Grouping

	view := GroupingView{
		GroupCount: g.GroupCount,
		Groups:     make([]GroupView, 0, g.GroupCount),
		Ungrouped:  []models.Student{},
	}
	for i := 1; i <= g.GroupCount; i++ {
		key := models.GroupKey(i)
		gv := GroupView{Group: key, Students: []models.Student{}}
		for _, id := range g.Groups[key] {
			gv.Students = append(gv.Students, *c.Student(id))
		}
		view.Groups = append(view.Groups, gv)
	}
	grouped := g.GroupedIDs()
	for _, s := range c.Students {
		if !grouped[s.ID] {
			view.Ungrouped = append(view.Ungrouped, s)
		}
	}
	return view, nil
}

// GenerateGroups sets the number of groups and empties all of them.
// Confirmation is required when any group has members.
func (e *Engine) GenerateGroups(ctx context.Context, index, count int, c Confirmer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.update(ctx, func() error {
		cls, err := e.class(index)
		if err != nil {
			return err
		}
		if !models.ValidGroupCount(count) {
			return newError(ErrInvalidCount, "group count must be between %d and %d, got %d",
				models.MinGroupCount, models.MaxGroupCount, count)
		}
		if cls.Grouping.Members() > 0 {
			if err := confirm(c, "Generate groups", "New groups clear every current group. Continue?"); err != nil {
				return err
			}
		}
		cls.Grouping = models.NewGrouping(count)
		return nil
	})
	if err != nil {
		return err
	}
	e.notifier.Notify(fmt.Sprintf("Generated %d groups.", count), NoticeShort)
	return nil
}

// MoveStudentToGroup appends a student to group, leaving any previous group.
func (e *Engine) MoveStudentToGroup(ctx context.Context, index, id int, group models.GroupKey) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.update(ctx, func() error {
		cls, _, err := e.student(index, id)
		if err != nil {
			return err
		}
		if !cls.Grouping.Contains(group) {
			return newError(ErrInvalidGroup, "%s does not exist; there are %d groups", group, cls.Grouping.GroupCount)
		}
		cls.Grouping.Move(id, group)
		return nil
	})
}

// RemoveStudentFromGroups makes a student ungrouped. It reports whether they
// were in a group.
func (e *Engine) RemoveStudentFromGroups(ctx context.Context, index, id int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cls, err := e.class(index)
	if err != nil {
		return false, err
	}
	if _, grouped := cls.Grouping.GroupOf(id); !grouped {
		return false, nil
	}
	err = e.update(ctx, func() error {
		e.classes[index].Grouping.Remove(id)
		return nil
	})
	return err == nil, err
}

// ResetGroups empties every group after confirmation, keeping the group count.
// It reports false without prompting when no group had members.
func (e *Engine) ResetGroups(ctx context.Context, index int, c Confirmer) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cls, err := e.class(index)
	if err != nil {
		return false, err
	}
	if cls.Grouping.Members() == 0 {
		e.notifier.Notify("Every group is already empty.", NoticeShort)
		return false, nil
	}
	err = e.update(ctx, func() error {
		if err := confirm(c, "Clear groups", "Move every student back to ungrouped?"); err != nil {
			return err
		}
		g := &e.classes[index].Grouping
		*g = models.NewGrouping(g.GroupCount)
		return nil
	})
	if err != nil {
		return false, err
	}
	e.notifier.Notify("Groups cleared.", NoticeShort)
	return true, nil
}

// RandomGroupAssign shuffles the ungrouped students and deals them round-robin
// starting at group 1. Grouped students stay where they are.
func (e *Engine) RandomGroupAssign(ctx context.Context, index int) (AssignResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cls, err := e.class(index)
	if err != nil {
		return AssignResult{}, err
	}
	if cls.Grouping.GroupCount == 0 {
		return AssignResult{}, ErrNoGroupsGenerated
	}
	e.repair(ctx, index)
	cls = &e.classes[index]

	grouped := cls.Grouping.GroupedIDs()
	ungrouped := make([]int, 0, len(cls.Students))
	for _, s := range cls.Students {
		if !grouped[s.ID] {
			ungrouped = append(ungrouped, s.ID)
		}
	}
	if len(ungrouped) == 0 {
		e.notifier.Notify("Every student is already in a group.", NoticeShort)
		return AssignResult{}, nil
	}

	shuffle(e.rng, ungrouped)
	err = e.update(ctx, func() error {
		g := &e.classes[index].Grouping
		g.EnsureGroups()
		for i, id := range ungrouped {
			key := models.GroupKey(i%g.GroupCount + 1)
			g.Groups[key] = append(g.Groups[key], id)
		}
		return nil
	})
	if err != nil {
		return AssignResult{}, err
	}

	log.Debugf("class %q: dealt %d students into %d groups", cls.Name, len(ungrouped), cls.Grouping.GroupCount)
	e.notifier.Notify(fmt.Sprintf("Randomly grouped %d students.", len(ungrouped)), NoticeShort)
	return AssignResult{Assigned: len(ungrouped)}, nil
}
