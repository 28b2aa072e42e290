package services

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderCompleted       = errors.New("order is completed")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrSelfEdit             = errors.New("cannot change own role or status")
	ErrForbiddenField       = errors.New("not allowed to change this field")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrSupervisorNotFound   = errors.New("supervisor not found")
	ErrSupervisorMismatch   = errors.New("supervisor does not belong to the organization")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrNoteNotFound         = errors.New("note not found")
	ErrImageNotFound        = errors.New("image not found")
)

// ValidationError reports invalid input before anything is written
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
