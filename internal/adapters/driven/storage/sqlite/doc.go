// Package sqlite persists catalog-ingest state in a single SQLite file
// using the pure Go modernc.org/sqlite driver.
//
// One Store hands out three views over the same connection: the
// EntityStore that receives full-replace mutations, the SyncRunStore
// that keeps one row per pipeline run and the SchedulerStore behind the
// serve command's cron tasks. The file lives at catalog.db inside the
// data directory (by default ~/.catalog-ingest/data) and is opened in
// WAL mode. Schema changes ship as embedded migrations.
package sqlite
