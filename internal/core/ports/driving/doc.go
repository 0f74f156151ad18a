// Package driving declares what the CLI may ask of the core: run or
// schedule a catalog sync and start or stop the scheduler. The
// implementations are in internal/core/services.
package driving
