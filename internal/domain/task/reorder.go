package task

import (
	"cmp"
	"math"
	"slices"
)

// CompareOrder orders tasks by position ascending with unordered tasks last.
func CompareOrder(a, b Task) int {
	return cmp.Compare(sortKey(a), sortKey(b))
}

func sortKey(t Task) int {
	if v, ok := t.OrderValue(); ok {
		return v
	}
	return math.MaxInt
}

// SortByOrder sorts tasks in place by position, then newest first.
func SortByOrder(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		if c := CompareOrder(a, b); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// Renumber assigns order = index to every task and returns the writes
// needed to make stored positions match. tasks must already be in display
// sequence.
func Renumber(tasks []Task) []PositionUpdate {
	var updates []PositionUpdate
	for i := range tasks {
		if cur, ok := tasks[i].OrderValue(); ok && cur == i {
			continue
		}
		pos := i
		tasks[i].Order = &pos
		updates = append(updates, PositionUpdate{TaskID: tasks[i].ID, Order: pos})
	}
	return updates
}

// PlanMove moves taskID to endIndex within tasks (in display sequence) and
// renumbers the result densely. endIndex is clamped to the list bounds.
// The input slice is not modified.
func PlanMove(tasks []Task, taskID string, endIndex int) ([]Task, []PositionUpdate, error) {
	from := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == taskID })
	if from < 0 {
		return nil, nil, ErrTaskNotFound
	}

	to := min(max(endIndex, 0), len(tasks)-1)

	moved := tasks[from]
	out := make([]Task, 0, len(tasks))
	out = append(out, tasks[:from]...)
	out = append(out, tasks[from+1:]...)
	out = slices.Insert(out, to, moved)

	// Copy order pointers so Renumber doesn't write through to the caller.
	for i := range out {
		if v, ok := out[i].OrderValue(); ok {
			out[i].Order = &v
		}
	}

	return out, Renumber(out), nil
}
