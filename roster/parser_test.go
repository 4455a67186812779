package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"classroom-assistant-go/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantIDs  []int
		wantName []string
		wantErrs int
	}{
		{
			name:     "class creation scenario",
			input:    "1 王小明\n2 林小美\n2 重複\nnotanumber foo",
			wantIDs:  []int{1, 2},
			wantName: []string{"王小明", "林小美"},
			wantErrs: 2,
		},
		{
			name:     "comments and blank lines are not errors",
			input:    "# roster\n\n   \n3 Ann\n",
			wantIDs:  []int{3},
			wantName: []string{"Ann"},
		},
		{
			name:     "commas tabs and multi word names",
			input:    "4,Mary Jane\n5\tJohn ,  Smith\r\n",
			wantIDs:  []int{4, 5},
			wantName: []string{"Mary Jane", "John Smith"},
		},
		{
			name:     "non positive and non integer ids",
			input:    "0 Zero\n-1 Neg\n1.5 Half\nx1 Bad",
			wantErrs: 4,
		},
		{
			name:     "id without name",
			input:    "7\n8 ",
			wantErrs: 2,
		},
		{
			name:     "output keeps input order",
			input:    "9 Z\n2 B",
			wantIDs:  []int{9, 2},
			wantName: []string{"Z", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students, errs := Parse(tt.input)
			assert.Equal(t, tt.wantErrs, errs)
			assert.Len(t, students, len(tt.wantIDs))
			for i, s := range students {
				assert.Equal(t, tt.wantIDs[i], s.ID)
				assert.Equal(t, tt.wantName[i], s.Name)
				assert.Equal(t, 0, s.Score)
				assert.True(t, s.Selected)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	students, errs := Parse("")
	assert.NotNil(t, students)
	assert.Empty(t, students)
	assert.Zero(t, errs)
}

func TestFormatRoundTrip(t *testing.T) {
	in := []models.Student{{ID: 3, Name: "C c"}, {ID: 1, Name: "A"}}
	text := Format(in)
	assert.Equal(t, "1 A\n3 C c", text)

	out, errs := Parse(text)
	assert.Zero(t, errs)
	assert.Equal(t, []models.Student{{ID: 1, Name: "A", Selected: true}, {ID: 3, Name: "C c", Selected: true}}, out)
}
