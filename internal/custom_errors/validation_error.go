// Package custom_errors holds error types shared across packages.
package custom_errors

import (
	"errors"
	"fmt"
)

// ValidationError accumulates the failures of individual config options so a
// bad config reports everything wrong with it at once instead of one field
// per run.
type ValidationError struct {
	Errors []error `json:"errors"`
}

func (v *ValidationError) Add(err error) {
	v.Errors = append(v.Errors, err)
}

func (v *ValidationError) HasError() bool {
	return len(v.Errors) > 0
}

// Error joins the collected failures into one message.
func (v *ValidationError) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}
	return fmt.Sprintf("%v", errors.Join(v.Errors...))
}
