package usecase

type ErrNotFound string

func (e ErrNotFound) Error() string { return string(e) + " not found" }

type ErrConflict string

func (e ErrConflict) Error() string { return string(e) }

type ErrBadRequest string

func (e ErrBadRequest) Error() string { return string(e) }

type ErrUnauthorized string

func (e ErrUnauthorized) Error() string { return string(e) }

type ErrForbidden string

func (e ErrForbidden) Error() string { return string(e) }

// ErrGateway wraps a payment gateway rejection or transport failure.
type ErrGateway struct {
	Err error
}

func (e ErrGateway) Error() string { return "payment gateway: " + e.Err.Error() }

func (e ErrGateway) Unwrap() error { return e.Err }
