package app

import (
	"github.com/stacklok/instsrc/internal/manager"
	"github.com/stacklok/instsrc/internal/store"
	"github.com/stacklok/instsrc/internal/telemetry"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Manager is the source manager facade served over HTTP
	Manager *manager.Manager

	// Store persists source definitions below the target root
	Store store.Store

	// Telemetry owns the tracer and meter providers
	Telemetry *telemetry.Telemetry
}
