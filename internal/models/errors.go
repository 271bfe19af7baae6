package models

import "errors"

// ErrDuplicate is returned by a store when the record's link is already
// stored and nothing was written.
var ErrDuplicate = errors.New("record already stored")
