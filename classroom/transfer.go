package classroom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"classroom-assistant-go/models"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
)

// exportTimeLayout stamps export file names as YYYYMMDDHHmmss.
const exportTimeLayout = "20060102150405"

// Export returns the whole store as indented JSON together with a suggested
// file name. It fails with ErrNoData when there are no classes.
func (e *Engine) Export(_ context.Context) ([]byte, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.classes) == 0 {
		return nil, "", ErrNoData
	}
	data, err := json.MarshalIndent(e.classes, "", "  ")
	if err != nil {
		return nil, "", wrapError(ErrStorage, err)
	}
	name := fmt.Sprintf("classroom-data-%s.json", e.now().UTC().Format(exportTimeLayout))
	e.notifier.Notify("Data exported.", NoticeShort)
	return data, name, nil
}

// Import replaces the whole store with the classes in data. The document is
// validated completely before anything changes; a rejected document leaves the
// store untouched. The current selection is kept by name when possible.
func (e *Engine) Import(ctx context.Context, data []byte) (int, error) {
	classes, err := decodeDocument(data, decodeStrict)
	if err != nil {
		log.Warnf("rejected import: %v", err)
		return 0, wrapError(ErrImportStructure, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	err = e.update(ctx, func() error {
		keep := ""
		if e.current != NoSelection {
			keep = e.classes[e.current].Name
		}
		e.classes = classes
		e.current = e.indexOf(keep)
		if e.current == NoSelection && len(e.classes) > 0 {
			e.current = 0
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Infof("imported %d classes", len(classes))
	e.notifier.Notify(fmt.Sprintf("Imported %d classes.", len(classes)), NoticeShort)
	return len(classes), nil
}

func encodeDocument(classes []models.Class) ([]byte, error) {
	return json.Marshal(classes)
}

// decodeMode selects how decodeDocument treats records it cannot accept.
type decodeMode int

const (
	// decodeStrict rejects the whole document on the first bad record. Used for imports.
	decodeStrict decodeMode = iota
	// decodeLenient repairs or drops bad records and logs each one. Used for stored data,
	// which may have been written by older versions.
	decodeLenient
)

// decodeDocument parses a class store document. Numeric fields accept numbers
// or numeric strings and fall back to defaults, legacy records without seating
// or grouping are backfilled, and references to unknown students are dropped.
// Only a payload that is not a JSON array fails in lenient mode.
func decodeDocument(data []byte, mode decodeMode) ([]models.Class, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, errors.Wrap(err, "not valid JSON")
	}
	items, ok := root.([]interface{})
	if !ok {
		return nil, errors.New("document must be an array of classes")
	}

	classes := make([]models.Class, 0, len(items))
	names := make(map[string]bool, len(items))
	for i, item := range items {
		c, err := decodeClass(item, mode)
		if err != nil {
			if mode == decodeLenient {
				log.Warnf("stored class %d skipped: %v", i, err)
				continue
			}
			return nil, errors.Wrapf(err, "class %d", i)
		}
		if names[c.Name] {
			if mode == decodeLenient {
				log.Warnf("stored class %d skipped: duplicate class name %q", i, c.Name)
				continue
			}
			return nil, errors.Errorf("class %d: duplicate class name %q", i, c.Name)
		}
		names[c.Name] = true
		classes = append(classes, c)
	}
	return classes, nil
}

func decodeClass(v interface{}, mode decodeMode) (models.Class, error) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return models.Class{}, errors.New("not an object")
	}
	name, _ := obj["class_name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Class{}, errors.New("missing class_name")
	}
	rawStudents, ok := obj["students"].([]interface{})
	if !ok {
		if mode == decodeStrict {
			return models.Class{}, errors.Errorf("class %q: students must be an array", name)
		}
		log.Warnf("class %q: unreadable roster replaced with an empty one", name)
	}

	c := models.Class{Name: name, Students: make([]models.Student, 0, len(rawStudents))}
	seen := make(map[int]bool, len(rawStudents))
	var renumber []models.Student
	for j, rs := range rawStudents {
		s, err := decodeStudent(rs)
		if err == nil && seen[s.ID] {
			err = errors.Errorf("duplicate student id %d", s.ID)
		}
		if err != nil {
			if mode == decodeStrict {
				return models.Class{}, errors.Wrapf(err, "class %q student %d", name, j)
			}
			if s.Name != "" {
				renumber = append(renumber, s)
				continue
			}
			log.Warnf("class %q: student %d skipped: %v", name, j, err)
			continue
		}
		seen[s.ID] = true
		c.Students = append(c.Students, s)
	}

	next := 1
	for id := range seen {
		if id >= next {
			next = id + 1
		}
	}
	for _, s := range renumber {
		log.Warnf("class %q: student %q had unusable id %d, renumbered to %d", name, s.Name, s.ID, next)
		s.ID = next
		next++
		c.Students = append(c.Students, s)
	}

	if sc, ok := obj["seating_chart"].(map[string]interface{}); ok {
		c.SeatingChart = decodeSeatingChart(sc)
	}
	if g, ok := obj["grouping"].(map[string]interface{}); ok {
		c.Grouping = decodeGrouping(g)
	}
	c.Normalize()
	c.SortStudents()
	if dropped := c.Prune(); dropped > 0 {
		log.Debugf("class %q: dropped %d stale references while decoding", name, dropped)
	}
	return c, nil
}

// decodeStudent reads one roster entry. When only the id is unusable the
// returned student carries the remaining fields along with the error.
func decodeStudent(v interface{}) (models.Student, error) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return models.Student{}, errors.New("not an object")
	}
	rawID, hasID := obj["id"]
	rawName, hasName := obj["name"]
	if !hasID || !hasName {
		return models.Student{}, errors.New("id and name are required")
	}
	s := models.Student{
		ID:       coerceInt(rawID, 0),
		Name:     coerceString(rawName),
		Score:    coerceInt(obj["score"], 0),
		Selected: true,
	}
	if sel, ok := obj["selected"]; ok {
		s.Selected = truthy(sel)
	}
	if s.ID < 1 {
		return s, errors.Errorf("invalid student id %v", rawID)
	}
	return s, nil
}

func decodeSeatingChart(obj map[string]interface{}) models.SeatingChart {
	sc := models.NewSeatingChart(coerceInt(obj["rows"], models.DefaultRows), coerceInt(obj["cols"], models.DefaultCols))
	seats, _ := obj["seats"].(map[string]interface{})
	for k, v := range seats {
		key, err := models.ParseSeatKey(k)
		if err != nil {
			continue
		}
		if id := coerceInt(v, 0); id >= 1 {
			sc.Seats[key] = id
		}
	}
	return sc
}

func decodeGrouping(obj map[string]interface{}) models.Grouping {
	count := coerceInt(obj["group_count"], 0)
	if count < 0 {
		count = 0
	}
	if count > models.MaxGroupCount {
		count = models.MaxGroupCount
	}
	g := models.NewGrouping(count)
	groups, _ := obj["groups"].(map[string]interface{})
	for k, v := range groups {
		key, err := models.ParseGroupKey(k)
		if err != nil {
			continue
		}
		members, _ := v.([]interface{})
		ids := make([]int, 0, len(members))
		for _, m := range members {
			if id := coerceInt(m, 0); id >= 1 {
				ids = append(ids, id)
			}
		}
		g.Groups[key] = ids
	}
	return g
}

// coerceInt reads an integer from a JSON number or the leading integer of a
// string. Missing, unparsable and zero values yield def.
func coerceInt(v interface{}, def int) int {
	n := 0
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			n = int(i)
		} else if f, err := x.Float64(); err == nil && !math.IsInf(f, 0) {
			n = int(math.Trunc(f))
		}
	case float64:
		n = int(math.Trunc(x))
	case string:
		n = leadingInt(x)
	}
	if n == 0 {
		return def
	}
	return n
}

// leadingInt parses an optional sign and the digits that follow it after
// leading whitespace, ignoring any trailing text.
func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func coerceString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "null"
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}
