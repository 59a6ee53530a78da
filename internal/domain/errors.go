package domain

import "errors"

// ErrDuplicate is returned by stores when a unique key (user email, order
// transaction id) already exists.
var ErrDuplicate = errors.New("duplicate key")
