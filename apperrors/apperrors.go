// Package apperrors defines the error taxonomy shared by the service layer.
// Services wrap these sentinels with context; handlers match them with
// errors.Is to pick the response status.
package apperrors

import "fmt"

var (
	ErrValidation = fmt.Errorf("validation failed")
	ErrNotFound   = fmt.Errorf("not found")
	ErrForbidden  = fmt.Errorf("forbidden")
	ErrConflict   = fmt.Errorf("conflict")
	ErrInternal   = fmt.Errorf("internal error")
)
