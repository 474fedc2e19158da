package extract

// Error is the domain error of an extraction run. Sentinels carry only a
// Message; wrapped instances add the underlying cause and still match
// their sentinel with errors.Is.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Message == e.Message
}

// Wrap returns a new error of kind carrying cause.
func Wrap(kind *Error, cause error) error {
	return &Error{Message: kind.Message, Err: cause}
}

var (
	// ErrRootNotFound aborts a run whose page lacks the slide container.
	ErrRootNotFound = &Error{Message: "required root container not found"}
	// ErrNoOutputDir aborts a run that would capture without a destination.
	ErrNoOutputDir = &Error{Message: "output directory not configured"}
	// ErrCaptureFailed marks a failed element screenshot.
	ErrCaptureFailed = &Error{Message: "screenshot capture failed"}
	// ErrRasterizeFailed marks a failed vector-graphic conversion.
	ErrRasterizeFailed = &Error{Message: "vector graphic rasterization failed"}
)
