package store

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("already exists")
)

// maxCreateAttempts bounds id regeneration when another writer took the same id.
const maxCreateAttempts = 3
