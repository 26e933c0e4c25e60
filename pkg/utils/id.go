package utils

import "github.com/google/uuid"

// NewID returns a random UUID string, used as primary key for every entity.
func NewID() string { return uuid.NewString() }
