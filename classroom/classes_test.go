package classroom

import (
	"context"
	"errors"
	"testing"

	"classroom-assistant-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClass(t *testing.T) {
	e, repo, rec := newTestEngine(t)

	index, res, err := e.CreateClass(context.Background(), "  6年1班 ", "1 王小明\n2 李小華\n3\nabc")
	require.NoError(t, err)
	assert.Equal(t, 0, index)
	assert.Equal(t, RosterResult{Added: 2, Skipped: 2}, res)
	assert.Equal(t, 0, e.Current())
	assert.Equal(t, "6年1班", repo.last)
	assert.Equal(t, 1, repo.saves)
	require.NotEmpty(t, rec.messages)

	c, err := e.Class(0)
	require.NoError(t, err)
	assert.Equal(t, "6年1班", c.Name)
	assert.Equal(t, []models.Student{
		{ID: 1, Name: "王小明", Selected: true},
		{ID: 2, Name: "李小華", Selected: true},
	}, c.Students)
	assert.Equal(t, 6, c.SeatingChart.Rows)
	assert.Equal(t, 7, c.SeatingChart.Cols)
}

func TestCreateClassValidation(t *testing.T) {
	e, repo, _ := newTestEngine(t)
	seedClass(t, e, "A", 1)

	tests := []struct {
		name   string
		class  string
		roster string
		want   *Error
	}{
		{"empty name", "  ", "1 Amy", ErrEmptyName},
		{"duplicate name", "A", "1 Amy", ErrDuplicateName},
		{"empty roster", "B", " \n ", ErrEmptyRoster},
		{"no valid lines", "B", "abc\n0 Zero\n", ErrNoValidStudents},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := e.CreateClass(context.Background(), tt.class, tt.roster)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, tt.want.Kind, KindOf(err))
		})
	}
	assert.Len(t, e.Classes(), 1)
	assert.Equal(t, 1, repo.saves)
}

func TestUpdateClassPrunesRemovedStudents(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	index := seedClass(t, e, "A", 3)
	require.NoError(t, e.GenerateGroups(ctx, index, 2, AlwaysConfirm))
	_, err := e.PlaceStudent(ctx, index, 3, models.SeatKey{Row: 1, Col: 1})
	require.NoError(t, err)
	require.NoError(t, e.MoveStudentToGroup(ctx, index, 3, 1))
	_, err = e.PlaceStudent(ctx, index, 1, models.SeatKey{Row: 0, Col: 0})
	require.NoError(t, err)

	res, err := e.UpdateClass(ctx, index, "A2", "1 Amy\n2 Ben")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)

	c, _ := e.Class(index)
	assert.Equal(t, "A2", c.Name)
	assert.Equal(t, map[models.SeatKey]int{{Row: 0, Col: 0}: 1}, c.SeatingChart.Seats)
	assert.Empty(t, c.Grouping.GroupedIDs())
}

func TestUpdateClassDuplicateNameExcludesSelf(t *testing.T) {
	e, _, _ := newTestEngine(t)
	seedClass(t, e, "A", 1)
	seedClass(t, e, "B", 1)

	_, err := e.UpdateClass(context.Background(), 0, "A", "1 Amy")
	assert.NoError(t, err)
	_, err = e.UpdateClass(context.Background(), 0, "B", "1 Amy")
	assert.True(t, errors.Is(err, ErrDuplicateName))
	_, err = e.UpdateClass(context.Background(), 9, "C", "1 Amy")
	assert.True(t, errors.Is(err, ErrClassNotFound))
}

func TestDeleteClass(t *testing.T) {
	ctx := context.Background()

	t.Run("declined", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		seedClass(t, e, "A", 1)
		err := e.DeleteClass(ctx, 0, NeverConfirm)
		assert.True(t, errors.Is(err, ErrNotConfirmed))
		assert.Equal(t, KindConfirmation, KindOf(err))
		assert.Len(t, e.Classes(), 1)
	})

	t.Run("current moves to same position", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		seedClass(t, e, "A", 1)
		seedClass(t, e, "B", 1)
		seedClass(t, e, "C", 1)
		require.NoError(t, e.SelectClass(ctx, 1))
		require.NoError(t, e.DeleteClass(ctx, 1, AlwaysConfirm))
		assert.Equal(t, 1, e.Current())
		c, _ := e.Class(e.Current())
		assert.Equal(t, "C", c.Name)
	})

	t.Run("earlier class shifts selection", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		seedClass(t, e, "A", 1)
		seedClass(t, e, "B", 1)
		require.NoError(t, e.DeleteClass(ctx, 0, AlwaysConfirm))
		assert.Equal(t, 0, e.Current())
		c, _ := e.Class(0)
		assert.Equal(t, "B", c.Name)
	})

	t.Run("last class leaves no selection", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		seedClass(t, e, "A", 1)
		require.NoError(t, e.DeleteClass(ctx, 0, AlwaysConfirm))
		assert.Equal(t, NoSelection, e.Current())
		assert.Empty(t, e.Classes())
	})

	t.Run("prompt names the class", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		seedClass(t, e, "A", 1)
		var title, msg string
		err := e.DeleteClass(ctx, 0, ConfirmFunc(func(t, m string) bool {
			title, msg = t, m
			return false
		}))
		require.Error(t, err)
		assert.Equal(t, "Delete class", title)
		assert.Contains(t, msg, `"A"`)
	})
}

func TestAddStudents(t *testing.T) {
	e, repo, _ := newTestEngine(t)
	index := seedClass(t, e, "A", 2)
	saves := repo.saves

	res, err := e.AddStudents(context.Background(), index, "2 Dup\n5 Eve\n3 Cat\nbad")
	require.NoError(t, err)
	assert.Equal(t, RosterResult{Added: 2, Duplicates: 1, Skipped: 1}, res)

	c, _ := e.Class(index)
	ids := []int{}
	for _, s := range c.Students {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int{1, 2, 3, 5}, ids)
	assert.Equal(t, "S2", c.Students[1].Name)
	assert.Equal(t, saves+1, repo.saves)

	res, err = e.AddStudents(context.Background(), index, "1 Again")
	require.NoError(t, err)
	assert.Equal(t, RosterResult{Duplicates: 1}, res)
	assert.Equal(t, saves+1, repo.saves)

	_, err = e.AddStudents(context.Background(), index, "")
	assert.True(t, errors.Is(err, ErrEmptyRoster))
}

func TestResetScores(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	index := seedClass(t, e, "A", 2)
	_, err := e.UpdateScore(ctx, index, 1, 3)
	require.NoError(t, err)
	_, err = e.UpdateScore(ctx, index, 2, -2)
	require.NoError(t, err)

	assert.True(t, errors.Is(e.ResetScores(ctx, index, NeverConfirm), ErrNotConfirmed))
	c, _ := e.Class(index)
	assert.Equal(t, 3, c.Students[0].Score)

	require.NoError(t, e.ResetScores(ctx, index, AlwaysConfirm))
	c, _ = e.Class(index)
	for _, s := range c.Students {
		assert.Zero(t, s.Score)
	}
}

func TestClearAll(t *testing.T) {
	e, repo, _ := newTestEngine(t)
	seedClass(t, e, "A", 2)

	assert.True(t, errors.Is(e.ClearAll(context.Background(), NeverConfirm), ErrNotConfirmed))
	assert.Len(t, e.Classes(), 1)

	require.NoError(t, e.ClearAll(context.Background(), AlwaysConfirm))
	assert.Empty(t, e.Classes())
	assert.Equal(t, NoSelection, e.Current())
	assert.False(t, repo.found)
	assert.Empty(t, repo.last)
}

func TestCreateClassUsesConfiguredGrid(t *testing.T) {
	e := New(&memRepo{}, Options{Rows: 4, Cols: 9})
	index, _, err := e.CreateClass(context.Background(), "A", "1 Amy")
	require.NoError(t, err)
	c, _ := e.Class(index)
	assert.Equal(t, 4, c.SeatingChart.Rows)
	assert.Equal(t, 9, c.SeatingChart.Cols)
}

func TestCreateClassDuplicateLinesScenario(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, res, err := e.CreateClass(context.Background(), "6年1班", "1 王小明\n2 林小美\n2 重複\nnotanumber foo")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 2, res.Skipped)

	c, _ := e.Class(0)
	require.Len(t, c.Students, 2)
	assert.Equal(t, "王小明", c.Students[0].Name)
	assert.Equal(t, "林小美", c.Students[1].Name)
}
