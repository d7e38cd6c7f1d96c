package kv

import "github.com/pkg/errors"

// ErrNotFound can be used directly, or as a wrapped DBError, whenever a db method needs to
// indicate that a value couldn't be found.
var ErrNotFound = errors.New("not found in db")

// ErrNotFoundFeeRecipient is a not found error specifically for the fee recipient getter
var ErrNotFoundFeeRecipient = errors.Wrap(ErrNotFound, "fee recipient")

// ErrNotFoundRegistration is a not found error specifically for the validator registration getter
var ErrNotFoundRegistration = errors.Wrap(ErrNotFound, "registration")
