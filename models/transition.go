package models

// TransitionPolicy decides whether an order may move between two valid statuses.
type TransitionPolicy interface {
	Allow(from, to string) bool
}

// PermissivePolicy lets any valid status follow any other.
type PermissivePolicy struct{}

func (PermissivePolicy) Allow(from, to string) bool { return true }

// WorkflowPolicy follows the kitchen workflow
// PENDING -> CONFIRMED -> PREPARING -> COMPLETED, with CANCELLED reachable
// from every non-terminal status. Re-applying the current status is allowed.
type WorkflowPolicy struct{}

var workflowTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusCompleted, StatusCancelled},
}

func (WorkflowPolicy) Allow(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range workflowTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionStatusWith checks the target against the status set first, then
// against policy. The order is left untouched on any failure.
func (o *Order) TransitionStatusWith(policy TransitionPolicy, status string) error {
	if !IsValidStatus(status) {
		return &InvalidStatusError{Status: status}
	}
	if policy != nil && !policy.Allow(o.Status, status) {
		return &InvalidStatusError{Status: status, From: o.Status}
	}
	return o.TransitionStatus(status)
}
