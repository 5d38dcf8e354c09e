package jobs

// busyError signals that a run is already in progress (409 mapping).
type busyError struct{}

func (e busyError) Error() string { return "a conversion run is already in progress" }

// IsBusy reports whether err indicates a rejected concurrent run.
func IsBusy(err error) bool {
	_, ok := err.(busyError)
	return ok
}

// ErrBusy constructs a busyError.
func ErrBusy() error { return busyError{} }
