package grocery

import (
	"fmt"
	"strings"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter accepts a filter name case-insensitively. An empty string means
// FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	}
	return FilterAll, fmt.Errorf("%w: unknown filter %q", model.ErrValidation, s)
}

func (f Filter) Match(item model.GroceryItem) bool {
	switch f {
	case FilterActive:
		return !item.Completed
	case FilterCompleted:
		return item.Completed
	default:
		return true
	}
}

// Apply returns the items matching f in their original order. The input is
// not modified.
func (f Filter) Apply(items []model.GroceryItem) []model.GroceryItem {
	out := make([]model.GroceryItem, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Stats summarizes a list. Remaining always equals Active.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

func ComputeStats(items []model.GroceryItem) Stats {
	var s Stats
	for _, item := range items {
		s.Total++
		if item.Completed {
			s.Completed++
		} else {
			s.Active++
		}
	}
	s.Remaining = s.Active
	return s
}
