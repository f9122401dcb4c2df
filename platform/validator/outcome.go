package validator

// Violation is a single rejected field with a human-readable reason.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Outcome is the result of validating one request. It lives for a single request
// and is never persisted.
type Outcome struct {
	Violations []Violation `json:"violations,omitempty"`
}

// Valid returns an outcome without violations.
func Valid() Outcome {
	return Outcome{}
}

// Invalid returns an outcome with a single violation.
func Invalid(field, reason string) Outcome {
	return Outcome{Violations: []Violation{{Field: field, Reason: reason}}}
}

// IsValid reports whether no violation was recorded.
func (o Outcome) IsValid() bool {
	return len(o.Violations) == 0
}

// Add returns a copy of the outcome with an extra violation appended.
func (o Outcome) Add(field, reason string) Outcome {
	violations := make([]Violation, len(o.Violations), len(o.Violations)+1)
	copy(violations, o.Violations)
	return Outcome{Violations: append(violations, Violation{Field: field, Reason: reason})}
}

// Merge appends the violations of other after those of o, keeping order.
func (o Outcome) Merge(other Outcome) Outcome {
	if other.IsValid() {
		return o
	}
	violations := make([]Violation, 0, len(o.Violations)+len(other.Violations))
	violations = append(violations, o.Violations...)
	violations = append(violations, other.Violations...)
	return Outcome{Violations: violations}
}

// FieldErrors returns a field -> message map keeping the first reason per field.
// This is the shape returned to API clients in the "details" of a 400 response.
func (o Outcome) FieldErrors() map[string]string {
	if o.IsValid() {
		return nil
	}
	fields := make(map[string]string, len(o.Violations))
	for _, v := range o.Violations {
		if _, exists := fields[v.Field]; !exists {
			fields[v.Field] = v.Reason
		}
	}
	return fields
}
