package task

import "fmt"

// Status is the workflow state shared by tasks and subtasks.
type Status string

const (
	StatusInProgress Status = "inProgress"
	StatusTake       Status = "take"
	StatusCheck      Status = "check"
	StatusBlocked    Status = "blocked"
)

// DefaultStatus is applied when a create request omits the status.
const DefaultStatus = StatusTake

var statusLabels = map[Status]string{
	StatusInProgress: "В работе",
	StatusTake:       "Взять",
	StatusCheck:      "Проверить",
	StatusBlocked:    "Блок софта",
}

// Statuses lists every status in display order.
var Statuses = []Status{StatusTake, StatusInProgress, StatusCheck, StatusBlocked}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label for s. Unknown statuses map to themselves.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Next returns the status that follows s in the badge cycle.
func (s Status) Next() Status {
	switch s {
	case StatusTake:
		return StatusInProgress
	case StatusInProgress:
		return StatusCheck
	case StatusCheck:
		return StatusBlocked
	default:
		return StatusTake
	}
}

// ParseStatus validates a raw status, defaulting empty input.
func ParseStatus(raw string) (Status, error) {
	if raw == "" {
		return DefaultStatus, nil
	}
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}
