package calculation

import (
	"time"

	"github.com/google/uuid"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// runIDFunc returns the identifier stamped on a comparison run.
var runIDFunc = uuid.New

// SetRunIDFunc overrides the run identifier provider (use only in tests).
func SetRunIDFunc(f func() uuid.UUID) { runIDFunc = f }
