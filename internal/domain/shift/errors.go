package shift

import "errors"

// Shift domain errors
var (
	ErrInvalidRequest    = errors.New("invalid schedule request")
	ErrInvalidEmployeeID = errors.New("employee id is not valid for this provider")
	ErrRunInProgress     = errors.New("a month run is already in progress")
)

// UnknownErrorMessage is recorded when a provider error carries no message.
const UnknownErrorMessage = "Unknown error"
