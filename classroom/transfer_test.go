package classroom

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"classroom-assistant-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportEmptyStore(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, _, err := e.Export(context.Background())
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestExportImportRoundTrip(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	index := seedClass(t, e, "A", 6)
	seedClass(t, e, "B", 2)
	_, err := e.RandomAssign(ctx, index)
	require.NoError(t, err)
	require.NoError(t, e.GenerateGroups(ctx, index, 2, AlwaysConfirm))
	_, err = e.RandomGroupAssign(ctx, index)
	require.NoError(t, err)
	_, err = e.UpdateScore(ctx, index, 3, 4)
	require.NoError(t, err)
	_, err = e.ToggleSelected(ctx, index, 5)
	require.NoError(t, err)

	data, name, err := e.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "classroom-data-20240305140709.json", name)
	assert.Contains(t, string(data), "\n  {")

	other, _, _ := newTestEngine(t)
	n, err := other.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, e.Classes(), other.Classes())
	assert.Equal(t, 0, other.Current())
}

func TestImportKeepsSelectionByName(t *testing.T) {
	e, _, _ := newTestEngine(t)
	seedClass(t, e, "X", 1)
	seedClass(t, e, "B", 1)

	doc := `[{"class_name":"A","students":[]},{"class_name":"B","students":[]}]`
	_, err := e.Import(context.Background(), []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, e.Current())
}

func TestImportCoercesLegacyValues(t *testing.T) {
	e, repo, _ := newTestEngine(t)
	doc := `[{
		"class_name": "Legacy",
		"students": [
			{"id": "3", "name": 42, "score": "7 points"},
			{"id": 1.9, "name": "Al", "selected": 0},
			{"id": 2, "name": "Bo", "selected": "yes", "score": null}
		],
		"seating_chart": {"rows": "5", "cols": 0, "seats": {"0-0": "3", "bad": 1, "1-1": 99}},
		"grouping": {"group_count": "2", "groups": {"group-1": [1, "2"], "group-9": [3]}}
	}]`

	n, err := e.Import(context.Background(), []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "Legacy", repo.last)

	c, _ := e.Class(0)
	assert.Equal(t, []models.Student{
		{ID: 1, Name: "Al", Score: 0, Selected: false},
		{ID: 2, Name: "Bo", Score: 0, Selected: true},
		{ID: 3, Name: "42", Score: 7, Selected: true},
	}, c.Students)
	assert.Equal(t, 5, c.SeatingChart.Rows)
	assert.Equal(t, models.DefaultCols, c.SeatingChart.Cols)
	assert.Equal(t, map[models.SeatKey]int{{Row: 0, Col: 0}: 3}, c.SeatingChart.Seats)
	assert.Equal(t, 2, c.Grouping.GroupCount)
	assert.Equal(t, map[models.GroupKey][]int{1: {1, 2}}, c.Grouping.Groups)
}

func TestImportRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{{`},
		{"not an array", `{"class_name":"A"}`},
		{"class not object", `[1]`},
		{"missing name", `[{"students":[]}]`},
		{"students not array", `[{"class_name":"A","students":{}}]`},
		{"student missing id", `[{"class_name":"A","students":[{"name":"x"}]}]`},
		{"student missing name", `[{"class_name":"A","students":[{"id":1}]}]`},
		{"non-positive id", `[{"class_name":"A","students":[{"id":"abc","name":"x"}]}]`},
		{"duplicate id", `[{"class_name":"A","students":[{"id":1,"name":"x"},{"id":"1","name":"y"}]}]`},
		{"duplicate class", `[{"class_name":"A","students":[]},{"class_name":"A","students":[]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, repo, _ := newTestEngine(t)
			seedClass(t, e, "Keep", 2)
			before := e.Snapshot()
			saves := repo.saves

			_, err := e.Import(context.Background(), []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrImportStructure))
			assert.Equal(t, KindImportStructure, KindOf(err))
			assert.Equal(t, before, e.Snapshot())
			assert.Equal(t, saves, repo.saves)
		})
	}
}

func TestImportSaveFailureLeavesStore(t *testing.T) {
	e, repo, _ := newTestEngine(t)
	seedClass(t, e, "Keep", 2)
	before := e.Snapshot()
	repo.failSave = true

	_, err := e.Import(context.Background(), []byte(`[{"class_name":"New","students":[]}]`))
	assert.Equal(t, KindStorage, KindOf(err))
	assert.Equal(t, before, e.Snapshot())
}

func TestStoredDocumentLayout(t *testing.T) {
	e, repo, _ := newTestEngine(t)
	index := seedClass(t, e, "A", 1)
	_, err := e.PlaceStudent(context.Background(), index, 1, models.SeatKey{Row: 1, Col: 2})
	require.NoError(t, err)

	var doc []map[string]interface{}
	require.NoError(t, json.Unmarshal(repo.payload, &doc))
	require.Len(t, doc, 1)
	chart := doc[0]["seating_chart"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"1-2": float64(1)}, chart["seats"])
	assert.Equal(t, float64(6), chart["rows"])
	assert.Contains(t, doc[0], "grouping")
}
