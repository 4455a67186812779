package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Grid size limits for a seating chart.
const (
	MinGridSize = 1
	MaxGridSize = 20
)

// SeatKey addresses one cell of a seating chart. It serializes as "row-col".
type SeatKey struct {
	Row int
	Col int
}

func (k SeatKey) String() string {
	return fmt.Sprintf("%d-%d", k.Row, k.Col)
}

// MarshalText implements encoding.TextMarshaler so SeatKey can key a JSON object.
func (k SeatKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SeatKey) UnmarshalText(text []byte) error {
	parsed, err := ParseSeatKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseSeatKey parses the "row-col" form.
func ParseSeatKey(s string) (SeatKey, error) {
	row, col, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return SeatKey{}, fmt.Errorf("invalid seat key %q", s)
	}
	r, err := strconv.Atoi(row)
	if err != nil {
		return SeatKey{}, fmt.Errorf("invalid seat key %q: %w", s, err)
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return SeatKey{}, fmt.Errorf("invalid seat key %q: %w", s, err)
	}
	return SeatKey{Row: r, Col: c}, nil
}

// InGrid reports whether the key addresses a cell of a rows x cols grid.
func (k SeatKey) InGrid(rows, cols int) bool {
	return k.Row >= 0 && k.Row < rows && k.Col >= 0 && k.Col < cols
}

// ValidGridSize reports whether n is an accepted row or column count.
func ValidGridSize(n int) bool {
	return n >= MinGridSize && n <= MaxGridSize
}

// SeatingChart maps grid cells to student ids. A student occupies at most one cell.
type SeatingChart struct {
	Rows  int             `json:"rows"`
	Cols  int             `json:"cols"`
	Seats map[SeatKey]int `json:"seats"`
}

// NewSeatingChart returns an empty chart of the given size.
func NewSeatingChart(rows, cols int) SeatingChart {
	return SeatingChart{Rows: rows, Cols: cols, Seats: map[SeatKey]int{}}
}

func (sc *SeatingChart) normalize() {
	if !ValidGridSize(sc.Rows) {
		sc.Rows = DefaultRows
	}
	if !ValidGridSize(sc.Cols) {
		sc.Cols = DefaultCols
	}
	if sc.Seats == nil {
		sc.Seats = map[SeatKey]int{}
	}
}

// Capacity is the number of cells in the grid.
func (sc *SeatingChart) Capacity() int {
	return sc.Rows * sc.Cols
}

// Occupied is the number of assigned cells.
func (sc *SeatingChart) Occupied() int {
	return len(sc.Seats)
}

// SeatOf returns the cell held by id.
func (sc *SeatingChart) SeatOf(id int) (SeatKey, bool) {
	for k, v := range sc.Seats {
		if v == id {
			return k, true
		}
	}
	return SeatKey{}, false
}

// Vacate frees the cell held by id, if any.
func (sc *SeatingChart) Vacate(id int) bool {
	vacated := false
	for k, v := range sc.Seats {
		if v == id {
			delete(sc.Seats, k)
			vacated = true
		}
	}
	return vacated
}

// Place moves id into key. A different occupant of key is evicted to unseated
// and returned with ok set; it does not take over id's previous cell.
func (sc *SeatingChart) Place(id int, key SeatKey) (evicted int, ok bool) {
	if sc.Seats == nil {
		sc.Seats = map[SeatKey]int{}
	}
	sc.Vacate(id)
	if occupant, taken := sc.Seats[key]; taken && occupant != id {
		evicted, ok = occupant, true
	}
	sc.Seats[key] = id
	return evicted, ok
}

// Remap rewrites oldID to newID in place.
func (sc *SeatingChart) Remap(oldID, newID int) {
	for k, v := range sc.Seats {
		if v == oldID {
			sc.Seats[k] = newID
		}
	}
}

// Prune drops seats held by ids outside roster, cells outside the grid and
// second seats of the same student (the first in row-major order is kept).
func (sc *SeatingChart) Prune(roster map[int]bool) int {
	dropped := 0
	seen := make(map[int]bool, len(sc.Seats))
	for _, k := range sc.Keys() {
		v := sc.Seats[k]
		if !roster[v] || !k.InGrid(sc.Rows, sc.Cols) || seen[v] {
			delete(sc.Seats, k)
			dropped++
			continue
		}
		seen[v] = true
	}
	return dropped
}

// EmptyCells lists unassigned cells in row-major order.
func (sc *SeatingChart) EmptyCells() []SeatKey {
	cells := make([]SeatKey, 0, sc.Capacity()-sc.Occupied())
	for r := 0; r < sc.Rows; r++ {
		for c := 0; c < sc.Cols; c++ {
			k := SeatKey{Row: r, Col: c}
			if _, taken := sc.Seats[k]; !taken {
				cells = append(cells, k)
			}
		}
	}
	return cells
}

// SeatedIDs returns the ids currently holding a cell.
func (sc *SeatingChart) SeatedIDs() map[int]bool {
	ids := make(map[int]bool, len(sc.Seats))
	for _, v := range sc.Seats {
		ids[v] = true
	}
	return ids
}

// Keys returns the occupied cells in row-major order.
func (sc *SeatingChart) Keys() []SeatKey {
	keys := make([]SeatKey, 0, len(sc.Seats))
	for k := range sc.Seats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Row != keys[j].Row {
			return keys[i].Row < keys[j].Row
		}
		return keys[i].Col < keys[j].Col
	})
	return keys
}

// Clone returns a deep copy.
func (sc SeatingChart) Clone() SeatingChart {
	out := SeatingChart{Rows: sc.Rows, Cols: sc.Cols, Seats: make(map[SeatKey]int, len(sc.Seats))}
	for k, v := range sc.Seats {
		out.Seats[k] = v
	}
	return out
}
