// Package repository persists team rosters.
//
// Two implementations share the Store contract: a JSON file keeping the
// historical map[name]team layout, and a SQLite database.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/derby/internal/domain/roster"
	"github.com/okian/derby/pkg/metrics"
)

// Supported drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Store provides read/write access to saved teams.
type Store interface {
	// List returns every team ordered by name.
	List(ctx context.Context) ([]roster.Record, error)

	// Get returns one team. Returns ErrNotFound if the name is unknown.
	Get(ctx context.Context, name string) (roster.Record, error)

	// Create saves a new team. Returns ErrExists if the name is taken.
	Create(ctx context.Context, rec roster.Record) error

	// Put saves a team, replacing any previous squad under the same name.
	Put(ctx context.Context, rec roster.Record) error

	// Delete removes a team. Returns ErrNotFound if the name is unknown.
	Delete(ctx context.Context, name string) error

	// Count returns the number of saved teams.
	Count(ctx context.Context) int

	// Close releases the underlying resources.
	Close() error
}

// Open opens the store for driver at path.
func Open(ctx context.Context, driver, path string, opts ...Option) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverFile, "":
		return OpenFile(ctx, path, opts...)
	case DriverSQLite:
		return OpenSQLite(ctx, path, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func validate(rec *roster.Record) error {
	rec.Name = strings.TrimSpace(rec.Name)
	if rec.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	for i, p := range rec.Players {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: player %d has no name", ErrInvalidRecord, i)
		}
		if p.Overall < 0 {
			return fmt.Errorf("%w: player %q has negative ovr", ErrInvalidRecord, p.Name)
		}
	}
	return nil
}

// observe records latency and, on failure, an error for op.
func observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000.0)
	if err != nil {
		metrics.RecordStoreError(op)
	}
}
