// Package kv re-exports the slot store abstractions and selects a backend.
package kv

import "trackcore/internal/kv/core"

type (
	// Driver identifies a slot storage backend.
	Driver = core.Driver
	// Store is the interface implemented by every slot backend.
	Store = core.Store
)

const (
	// DriverMemory is the in-process driver.
	DriverMemory = core.DriverMemory
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverSQLite is the embedded sqlite driver.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres is the PostgreSQL driver.
	DriverPostgres = core.DriverPostgres
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverRedis is the Redis driver.
	DriverRedis = core.DriverRedis
)

// ErrNotFound is returned by Get for absent slots.
var ErrNotFound = core.ErrNotFound
