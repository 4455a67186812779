// Package roster turns free-text and spreadsheet student lists into roster records.
package roster

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"classroom-assistant-go/models"
)

// Parse reads one "<id> <name>" entry per line. Tokens are separated by runs of
// whitespace and/or commas. Blank lines and lines starting with '#' are ignored.
// Lines with fewer than two tokens, a non-positive or non-integer id, or an id
// already seen earlier in text are dropped and counted in errs. Parsed students
// start with score 0 and selected; they are returned in input order.
func Parse(text string) (students []models.Student, errs int) {
	seen := make(map[int]bool)
	students = []models.Student{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := tokenize(line)
		if len(parts) < 2 {
			errs++
			continue
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil || id < 1 || seen[id] {
			errs++
			continue
		}
		name := strings.Join(parts[1:], " ")
		if name == "" {
			errs++
			continue
		}

		seen[id] = true
		students = append(students, models.Student{ID: id, Name: name, Score: 0, Selected: true})
	}
	return students, errs
}

func tokenize(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// Format renders students back into roster text, one "<id> <name>" line each,
// ordered by id. Parse(Format(s)) reproduces the ids and names of s.
func Format(students []models.Student) string {
	sorted := append([]models.Student(nil), students...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var b strings.Builder
	for i, s := range sorted {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d %s", s.ID, s.Name)
	}
	return b.String()
}
