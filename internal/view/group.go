package view

import "github.com/rpggio/tasker/internal/domain/task"

// Group is the tasks of one project.
type Group struct {
	ProjectID string
	Tasks     []task.Task
}

// Groups splits tasks by project, keeping projects in first-appearance order
// and tasks in their incoming order.
func Groups(tasks []task.Task) []Group {
	var groups []Group
	index := map[string]int{}
	for _, t := range tasks {
		i, ok := index[t.ProjectID]
		if !ok {
			i = len(groups)
			index[t.ProjectID] = i
			groups = append(groups, Group{ProjectID: t.ProjectID})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}
