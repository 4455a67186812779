package models

import "sort"

// Default seating chart dimensions for new and legacy classes.
const (
	DefaultRows = 6
	DefaultCols = 7
)

// Student represents a student on a class roster
type Student struct {
	ID       int    `json:"id"`       // Seat number, unique within the class
	Name     string `json:"name"`     // Student name
	Score    int    `json:"score"`    // Signed running score
	Selected bool   `json:"selected"` // Whether the student takes part in draws
}

// Class represents a class with its roster, seating chart and grouping
type Class struct {
	Name         string       `json:"class_name"`
	Students     []Student    `json:"students"`
	SeatingChart SeatingChart `json:"seating_chart"`
	Grouping     Grouping     `json:"grouping"`
}

// NewClass returns a class with an empty default seating chart and no groups.
// The roster is sorted by id.
func NewClass(name string, students []Student) Class {
	c := Class{
		Name:         name,
		Students:     students,
		SeatingChart: NewSeatingChart(DefaultRows, DefaultCols),
		Grouping:     NewGrouping(0),
	}
	c.SortStudents()
	return c
}

// SortStudents orders the roster by ascending id.
func (c *Class) SortStudents() {
	sort.SliceStable(c.Students, func(i, j int) bool { return c.Students[i].ID < c.Students[j].ID })
}

// StudentIndex returns the roster position of id, or -1.
func (c *Class) StudentIndex(id int) int {
	for i := range c.Students {
		if c.Students[i].ID == id {
			return i
		}
	}
	return -1
}

// Student returns a pointer into the roster for id, or nil.
func (c *Class) Student(id int) *Student {
	if i := c.StudentIndex(id); i >= 0 {
		return &c.Students[i]
	}
	return nil
}

// HasStudent reports whether id is on the roster.
func (c *Class) HasStudent(id int) bool {
	return c.StudentIndex(id) >= 0
}

// Selectable returns the students taking part in draws, in roster order.
func (c *Class) Selectable() []Student {
	out := make([]Student, 0, len(c.Students))
	for _, s := range c.Students {
		if s.Selected {
			out = append(out, s)
		}
	}
	return out
}

// StudentIDs returns the roster ids as a set.
func (c *Class) StudentIDs() map[int]bool {
	ids := make(map[int]bool, len(c.Students))
	for _, s := range c.Students {
		ids[s.ID] = true
	}
	return ids
}

// ForgetStudent drops every seat and group reference to id.
// Seating and grouping are always purged together.
func (c *Class) ForgetStudent(id int) {
	c.SeatingChart.Vacate(id)
	c.Grouping.Remove(id)
}

// RemapStudent rewrites every seat and group reference from oldID to newID,
// keeping the seat and group membership in place.
func (c *Class) RemapStudent(oldID, newID int) {
	c.SeatingChart.Remap(oldID, newID)
	c.Grouping.Remap(oldID, newID)
}

// Prune removes seat and group references to students missing from the roster
// and seats outside the grid. It returns how many references were dropped.
func (c *Class) Prune() int {
	ids := c.StudentIDs()
	return c.SeatingChart.Prune(ids) + c.Grouping.Prune(ids)
}

// Normalize backfills defaults for records written before seating charts or
// groupings existed, and for values that fail their range checks.
func (c *Class) Normalize() {
	if c.Students == nil {
		c.Students = []Student{}
	}
	c.SeatingChart.normalize()
	c.Grouping.normalize()
}

// Clone returns a deep copy of the class.
func (c Class) Clone() Class {
	out := Class{
		Name:         c.Name,
		Students:     append([]Student(nil), c.Students...),
		SeatingChart: c.SeatingChart.Clone(),
		Grouping:     c.Grouping.Clone(),
	}
	if out.Students == nil {
		out.Students = []Student{}
	}
	return out
}

// CloneClasses deep copies a slice of classes.
func CloneClasses(classes []Class) []Class {
	out := make([]Class, len(classes))
	for i := range classes {
		out[i] = classes[i].Clone()
	}
	return out
}
