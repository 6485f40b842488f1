// Package vote holds the counting rules shared by ratings and availability:
// rating means and the reconciliation of a viewer's in-progress selection
// against the last server snapshot.
package vote

import (
	"math"
	"sort"
	"strings"
)

// Selection is a set of dates (YYYY-MM-DD).
type Selection map[string]bool

func NewSelection(dates ...string) Selection {
	s := make(Selection, len(dates))
	for _, d := range dates {
		s[d] = true
	}
	return s
}

// Dates returns the selection sorted ascending.
func (s Selection) Dates() []string {
	out := make([]string, 0, len(s))
	for d, ok := range s {
		if ok {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// Adjusted returns the count a viewer should see for one option while editing.
// dbCount comes from the server snapshot, which already includes the viewer's
// vote when wasSelected is true.
func Adjusted(dbCount int, wasSelected, isSelected bool) int {
	n := dbCount
	switch {
	case isSelected && !wasSelected:
		n++
	case wasSelected && !isSelected:
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}

// AdjustedCounts applies Adjusted to every date known to the snapshot or to
// either selection.
func AdjustedCounts(snapshot map[string]int, initial, current Selection) map[string]int {
	out := make(map[string]int, len(snapshot)+len(current))
	for d, n := range snapshot {
		out[d] = Adjusted(n, initial[d], current[d])
	}
	for d := range initial {
		if _, ok := out[d]; !ok {
			out[d] = Adjusted(0, initial[d], current[d])
		}
	}
	for d := range current {
		if _, ok := out[d]; !ok {
			out[d] = Adjusted(0, initial[d], current[d])
		}
	}
	return out
}

// MonthMax returns the highest count among dates in month (YYYY-MM) and the
// dates holding it, sorted. An empty month considers every date. A maximum of
// zero highlights nothing.
func MonthMax(counts map[string]int, month string) (int, []string) {
	top := 0
	var dates []string
	for d, n := range counts {
		if month != "" && !strings.HasPrefix(d, month+"-") {
			continue
		}
		switch {
		case n > top:
			top = n
			dates = []string{d}
		case n == top && n > 0:
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	return top, dates
}

// RoundTenth rounds v to one decimal place.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// Mean returns the mean of ratings rounded to one decimal place. ok is false
// when there are no ratings.
func Mean(ratings []int) (mean float64, ok bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return RoundTenth(float64(sum) / float64(len(ratings))), true
}
