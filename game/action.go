package game

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Pos is a board coordinate carried by spatial actions.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Pos) distance() int {
	return p.X*p.X + p.Y*p.Y
}

// Action is a loosely structured move payload. Kind is the action category.
type Action struct {
	Kind   string         `json:"kind"`
	Pos    *Pos           `json:"pos,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Int reads an integer field, tolerating values that went through JSON.
func (a Action) Int(name string) (int, bool) {
	switch v := a.Fields[name].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func (a Action) String() string {
	return Encode(a)
}

// Encode returns the plain canonical encoding of an action. Field order does
// not matter since JSON objects are written with sorted keys.
func Encode(a Action) string {
	var sb strings.Builder
	sb.WriteString(a.Kind)
	if a.Pos != nil {
		fmt.Fprintf(&sb, "@%d,%d", a.Pos.X, a.Pos.Y)
	}
	if len(a.Fields) > 0 {
		b, err := json.Marshal(a.Fields)
		if err != nil {
			fmt.Fprintf(&sb, "%v", a.Fields)
		} else {
			sb.Write(b)
		}
	}
	return sb.String()
}

// DefaultKey is a ready-made ActionKey for plugins whose payloads are already
// canonical.
func DefaultKey(a Action, context string) string {
	if context == "" {
		return Encode(a)
	}
	return Encode(a) + "|" + context
}

// Less orders actions by category, then spatial proximity to the board
// origin, then encoding. Positioned actions come before unpositioned ones
// within a category.
func Less(a, b Action) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	switch {
	case a.Pos != nil && b.Pos == nil:
		return true
	case a.Pos == nil && b.Pos != nil:
		return false
	case a.Pos != nil && b.Pos != nil:
		if da, db := a.Pos.distance(), b.Pos.distance(); da != db {
			return da < db
		}
		if a.Pos.Y != b.Pos.Y {
			return a.Pos.Y < b.Pos.Y
		}
		if a.Pos.X != b.Pos.X {
			return a.Pos.X < b.Pos.X
		}
	}
	return Encode(a) < Encode(b)
}

// SortActions sorts in place by Less.
func SortActions(actions []Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		return Less(actions[i], actions[j])
	})
}
