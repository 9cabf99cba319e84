package domain

// Status is the lifecycle label of a question.
type Status string

const (
	StatusUnassigned Status = "unassigned"
	StatusOpen       Status = "open"
	StatusAssigned   Status = "assigned"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// ClaimableStatuses are the two labels of the single "waiting for a tutor" state.
var ClaimableStatuses = []Status{StatusUnassigned, StatusOpen}

func (s Status) Valid() bool {
	switch s {
	case StatusUnassigned, StatusOpen, StatusAssigned, StatusResolved, StatusClosed:
		return true
	}

	return false
}

// Claimable reports whether any tutor may assign themselves.
// "unassigned" and "open" are the same state.
func (s Status) Claimable() bool {
	return s == StatusUnassigned || s == StatusOpen
}

func (s Status) String() string { return string(s) }
