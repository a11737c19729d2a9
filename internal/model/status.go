package model

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusFailed    Status = "FAILED"
	StatusDelivered Status = "DELIVERED"
	StatusBooked    Status = "BOOKED" // quotes only
)

// transitions is the single source of truth for payable status progression.
// Once a row leaves PENDING it can never return.
var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusCancelled, StatusFailed},
	StatusPaid:    {StatusDelivered, StatusBooked},
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// SourcesOf returns every status a row may be in for the given target to be a
// valid transition. Repositories use this as the WHERE status IN (...) guard
// so the update and the check are one atomic statement.
func SourcesOf(to Status) []Status {
	var from []Status
	for src, nexts := range transitions {
		for _, next := range nexts {
			if next == to {
				from = append(from, src)
			}
		}
	}
	return from
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}
