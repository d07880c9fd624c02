// Package view derives the visible task list from search, filter and
// project scope, and holds the client-side task state.
package view

import (
	"slices"
	"strings"

	"github.com/rpggio/tasker/internal/domain/task"
)

// ShowAll is the active filter value that disables filtering. The Russian
// label used by the web client is accepted as well.
const (
	ShowAll       = "all"
	ShowAllLegacy = "Все"
)

// Criteria selects which tasks are visible.
type Criteria struct {
	ProjectID    string
	SearchTerm   string
	ActiveFilter string
}

// IsShowAll reports whether filter disables the active filter.
func IsShowAll(filter string) bool {
	return filter == "" || filter == ShowAll || filter == ShowAllLegacy
}

// Apply returns the tasks matching c, sorted by order with unordered tasks
// last. The input is not modified.
func Apply(tasks []task.Task, c Criteria) []task.Task {
	term := strings.ToLower(c.SearchTerm)

	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesSearch(t, term) {
			continue
		}
		if c.ProjectID != "" && t.ProjectID != c.ProjectID {
			continue
		}
		if !matchesFilter(t, c.ActiveFilter) {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, task.CompareOrder)
	return out
}

func matchesSearch(t task.Task, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{t.ID, t.Task, t.Object, t.Assignee} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesFilter(t task.Task, filter string) bool {
	if IsShowAll(filter) {
		return true
	}
	if t.Date == filter || t.Assignee == filter {
		return true
	}
	if string(t.Status) == filter || t.StatusLabel == filter {
		return true
	}
	return slices.ContainsFunc(t.SubTasks, func(st task.SubTask) bool {
		return st.Assignee == filter || string(st.Status) == filter || st.StatusLabel == filter
	})
}

// FilterOptions lists the values the active filter can take for tasks:
// ShowAll first, then dates, assignees and status labels in first-seen order.
func FilterOptions(tasks []task.Task) []string {
	seen := map[string]bool{ShowAll: true}
	options := []string{ShowAll}
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			options = append(options, v)
		}
	}

	for _, t := range tasks {
		add(t.Date)
	}
	for _, t := range tasks {
		add(t.Assignee)
		for _, st := range t.SubTasks {
			add(st.Assignee)
		}
	}
	for _, s := range task.Statuses {
		add(s.Label())
	}
	return options
}
