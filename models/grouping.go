package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Group count limits for a grouping.
const (
	MinGroupCount = 1
	MaxGroupCount = 20
)

const groupKeyPrefix = "group-"

// GroupKey is the 1-indexed number of a group. It serializes as "group-N".
type GroupKey int

func (k GroupKey) String() string {
	return groupKeyPrefix + strconv.Itoa(int(k))
}

// MarshalText implements encoding.TextMarshaler so GroupKey can key a JSON object.
func (k GroupKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *GroupKey) UnmarshalText(text []byte) error {
	parsed, err := ParseGroupKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseGroupKey accepts "group-N" or a bare "N".
func ParseGroupKey(s string) (GroupKey, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), groupKeyPrefix)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid group key %q: %w", s, err)
	}
	return GroupKey(n), nil
}

// ValidGroupCount reports whether n is an accepted number of groups.
func ValidGroupCount(n int) bool {
	return n >= MinGroupCount && n <= MaxGroupCount
}

// Grouping assigns students to numbered groups. A student belongs to at most one group;
// order inside a group is display order only.
type Grouping struct {
	GroupCount int                `json:"group_count"`
	Groups     map[GroupKey][]int `json:"groups"`
}

// NewGrouping returns count empty groups.
func NewGrouping(count int) Grouping {
	return Grouping{GroupCount: count, Groups: map[GroupKey][]int{}}
}

func (g *Grouping) normalize() {
	if g.GroupCount < 0 {
		g.GroupCount = 0
	}
	if g.Groups == nil {
		g.Groups = map[GroupKey][]int{}
	}
}

// Contains reports whether key is one of the generated groups.
func (g *Grouping) Contains(key GroupKey) bool {
	return int(key) >= 1 && int(key) <= g.GroupCount
}

// GroupOf returns the group holding id.
func (g *Grouping) GroupOf(id int) (GroupKey, bool) {
	for k, members := range g.Groups {
		for _, m := range members {
			if m == id {
				return k, true
			}
		}
	}
	return 0, false
}

// Remove takes id out of whichever group holds it.
func (g *Grouping) Remove(id int) bool {
	for k, members := range g.Groups {
		for i, m := range members {
			if m == id {
				g.Groups[k] = append(members[:i:i], members[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Move takes id out of its current group and appends it to key.
func (g *Grouping) Move(id int, key GroupKey) {
	if g.Groups == nil {
		g.Groups = map[GroupKey][]int{}
	}
	g.Remove(id)
	g.Groups[key] = append(g.Groups[key], id)
}

// Remap rewrites oldID to newID in place.
func (g *Grouping) Remap(oldID, newID int) {
	for _, members := range g.Groups {
		for i, m := range members {
			if m == oldID {
				members[i] = newID
			}
		}
	}
}

// Prune drops members missing from roster, repeated members, and groups beyond GroupCount.
func (g *Grouping) Prune(roster map[int]bool) int {
	dropped := 0
	seen := make(map[int]bool)
	for _, k := range g.Keys() {
		members := g.Groups[k]
		if !g.Contains(k) {
			dropped += len(members)
			delete(g.Groups, k)
			continue
		}
		kept := make([]int, 0, len(members))
		for _, m := range members {
			if !roster[m] || seen[m] {
				dropped++
				continue
			}
			seen[m] = true
			kept = append(kept, m)
		}
		g.Groups[k] = kept
	}
	return dropped
}

// EnsureGroups creates an empty member list for every group 1..GroupCount.
func (g *Grouping) EnsureGroups() {
	if g.Groups == nil {
		g.Groups = map[GroupKey][]int{}
	}
	for i := 1; i <= g.GroupCount; i++ {
		if g.Groups[GroupKey(i)] == nil {
			g.Groups[GroupKey(i)] = []int{}
		}
	}
}

// Members is the total number of grouped students.
func (g *Grouping) Members() int {
	n := 0
	for _, members := range g.Groups {
		n += len(members)
	}
	return n
}

// GroupedIDs returns the ids that belong to some group.
func (g *Grouping) GroupedIDs() map[int]bool {
	ids := make(map[int]bool)
	for _, members := range g.Groups {
		for _, m := range members {
			ids[m] = true
		}
	}
	return ids
}

// Keys returns the group keys present in the map, ascending.
func (g *Grouping) Keys() []GroupKey {
	keys := make([]GroupKey, 0, len(g.Groups))
	for k := range g.Groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns a deep copy.
func (g Grouping) Clone() Grouping {
	out := Grouping{GroupCount: g.GroupCount, Groups: make(map[GroupKey][]int, len(g.Groups))}
	for k, members := range g.Groups {
		out.Groups[k] = append([]int{}, members...)
	}
	return out
}
