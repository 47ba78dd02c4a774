package requests

// Status is the lifecycle state of a request. Every request starts as
// pending; fulfilled and closed are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusFulfilled Status = "fulfilled"
	StatusClosed    Status = "closed"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusFulfilled},
	StatusRejected: {StatusClosed},
}

// CanTransition reports whether a request can move from one status to
// another. Staying in the same status is not a transition.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}
