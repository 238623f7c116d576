package models

import "fmt"

// NotFoundError reports a reference to an entity uid that does not exist.
type NotFoundError struct {
	Kind string
	UID  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.UID)
}

// ValidationError reports input that fails a metadata schema or an
// out-of-range field value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConsistencyError reports a balance recomputation that cannot be trusted:
// a summed row pointing at a foreign invoice, or a sum outside the range the
// balance columns can store.
type ConsistencyError struct {
	InvoiceUID string
	Detail     string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("invoice %s: %s", e.InvoiceUID, e.Detail)
}
