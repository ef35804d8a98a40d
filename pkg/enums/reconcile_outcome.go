package enums

import "fmt"

// ReconcileOutcome labels how a cart quantity request was resolved.
type ReconcileOutcome string

const (
	ReconcileOutcomeApplied  ReconcileOutcome = "applied"
	ReconcileOutcomeCapped   ReconcileOutcome = "capped"
	ReconcileOutcomeRejected ReconcileOutcome = "rejected"
)

var validReconcileOutcomes = []ReconcileOutcome{
	ReconcileOutcomeApplied,
	ReconcileOutcomeCapped,
	ReconcileOutcomeRejected,
}

func (r ReconcileOutcome) String() string {
	return string(r)
}

func (r ReconcileOutcome) IsValid() bool {
	for _, candidate := range validReconcileOutcomes {
		if candidate == r {
			return true
		}
	}
	return false
}

func ParseReconcileOutcome(value string) (ReconcileOutcome, error) {
	for _, candidate := range validReconcileOutcomes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reconcile outcome %q", value)
}
