package apperr

// Error is an application-level error carrying the HTTP status it should be
// rendered with. Handlers return these; the centralized error handler turns
// them into the `{success:false, message}` response shape.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}
