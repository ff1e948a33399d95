package store

import (
	"context"
	"time"

	"github.com/signalsfoundry/contact-scheduler/model"
)

// Store persists the results of a simulation pass. Implementations must be
// safe for concurrent use.
type Store interface {
	// SaveContactWindows persists a batch of contact windows.
	SaveContactWindows(ctx context.Context, windows []model.ContactWindow) error

	// SaveTelemetry persists a batch of telemetry records.
	SaveTelemetry(ctx context.Context, records []model.Telemetry) error

	// PurgeExpiredWindows deletes contact windows whose end time lies
	// strictly before the cutoff and reports how many were removed.
	PurgeExpiredWindows(ctx context.Context, before time.Time) (int64, error)

	// Close releases the underlying resources.
	Close() error
}
