package services

import "strings"

// ValidationError reports a request that is missing required fields (or
// carries an otherwise unusable value). Controllers surface it as HTTP 400
// with the exact message below.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Missing " + strings.Join(e.Fields, ", ")
}

// ConflictError reports a tree replacement rejected because the caller's
// revision no longer matches the stored document. The caller re-fetches and
// retries.
type ConflictError struct{}

func (e *ConflictError) Error() string {
	return "Conflict"
}

type requiredField struct {
	name  string
	value string
}

// requireFields returns a ValidationError naming every required field whose
// value is empty after trimming, in declaration order.
func requireFields(fields ...requiredField) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
