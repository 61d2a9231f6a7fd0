package inventory

import "fmt"

// Failure describes a single cart entry that could not proceed. Requested
// and Available are only set for insufficient-stock failures.
type Failure struct {
	ItemID    string `json:"itemId,omitempty"`
	Message   string `json:"message"`
	Requested int    `json:"requested,omitempty"`
	Available int    `json:"available,omitempty"`
}

// ValidationError aggregates the failed subset of a batch. It is the
// workflows' sole error-propagation primitive: raised after cart validation
// and again after the per-item business-rule checks, so a batch is either
// accepted entirely or rejected entirely before any write occurs.
type ValidationError struct {
	Failures []Failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d validation(s) failed", len(e.Failures))
}

// filterErrors passes a fully-successful batch through, or returns a
// ValidationError carrying exactly the failed entries.
func filterErrors(validations []validation) error {
	var failures []Failure
	for _, v := range validations {
		if !v.OK {
			failures = append(failures, v.Failure)
		}
	}

	if len(failures) > 0 {
		return &ValidationError{Failures: failures}
	}
	return nil
}
