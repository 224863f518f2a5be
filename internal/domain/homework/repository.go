// internal/domain/homework/repository.go
package homework

import (
	"context"
	"fmt"
	"time"
)

// ErrStateNotFound is returned by Load when nothing has been saved yet.
var ErrStateNotFound = fmt.Errorf("poller state not found")

// State is what the poller persists between restarts.
type State struct {
	Cursor    Cursor
	Report    Report // last successfully dispatched report
	UpdatedAt time.Time
}

// StateRepository persists the poller's cursor and last dispatched report.
type StateRepository interface {
	// Load returns the stored state or an error wrapping ErrStateNotFound.
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}
