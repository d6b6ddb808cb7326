package domain

import (
	"errors"
	"time"
)

type SessionID string

type Timestamp = time.Time

// ErrSessionNotFound is returned by read-only lookups of sessions that were
// never created or were evicted.
var ErrSessionNotFound = errors.New("session not found")
