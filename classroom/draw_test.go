package classroom

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawOnlyPicksSelected(t *testing.T) {
	e, repo, _ := newTestEngine(t)
	ctx := context.Background()
	index := seedClass(t, e, "A", 5)
	_, err := e.SetAllSelected(ctx, index, false)
	require.NoError(t, err)

	_, err = e.Draw(ctx, index)
	assert.True(t, errors.Is(err, ErrNothingSelected))

	_, err = e.ToggleSelected(ctx, index, 2)
	require.NoError(t, err)
	_, err = e.ToggleSelected(ctx, index, 4)
	require.NoError(t, err)
	saves := repo.saves

	counts := map[int]int{}
	for i := 0; i < 200; i++ {
		res, err := e.Draw(ctx, index)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Candidates)
		assert.Len(t, res.Frames, DefaultDrawFrames)
		for _, f := range res.Frames {
			assert.True(t, f.ID == 2 || f.ID == 4)
		}
		counts[res.Winner.ID]++
	}
	assert.Len(t, counts, 2)
	assert.Greater(t, counts[2], 50)
	assert.Greater(t, counts[4], 50)
	assert.Equal(t, saves, repo.saves)
}

func TestDrawSingleCandidate(t *testing.T) {
	e, _, _ := newTestEngine(t)
	index := seedClass(t, e, "A", 1)
	res, err := e.Draw(context.Background(), index)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Winner.ID)

	_, err = e.Draw(context.Background(), 3)
	assert.True(t, errors.Is(err, ErrClassNotFound))
}

func TestSelectableMatchesDrawPool(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	index := seedClass(t, e, "A", 4)
	_, err := e.ToggleSelected(ctx, index, 2)
	require.NoError(t, err)

	pool, err := e.Selectable(index)
	require.NoError(t, err)
	ids := []int{}
	for _, s := range pool {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int{1, 3, 4}, ids)

	for i := 0; i < 20; i++ {
		res, err := e.Draw(ctx, index)
		require.NoError(t, err)
		assert.Contains(t, ids, res.Winner.ID)
		assert.Equal(t, len(pool), res.Candidates)
	}

	_, err = e.Selectable(9)
	assert.True(t, errors.Is(err, ErrClassNotFound))
}
