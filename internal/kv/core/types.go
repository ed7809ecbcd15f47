// Package core defines the slot store abstraction shared by the key-value
// backends and the persistence adapter.
package core

import (
	"context"
	"errors"
)

// Driver identifies a concrete slot storage backend implementation.
type Driver string

const (
	// DriverMemory keeps slots in process memory (tests, ephemeral sessions).
	DriverMemory Driver = "memory"
	// DriverFilesystem stores one file per slot under a root directory.
	DriverFilesystem Driver = "fs"
	// DriverSQLite stores slots in an embedded sqlite state table.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores slots in a PostgreSQL state table.
	DriverPostgres Driver = "postgres"
	// DriverS3 stores one object per slot in an S3 / MinIO bucket.
	DriverS3 Driver = "s3"
	// DriverRedis stores one string key per slot in Redis.
	DriverRedis Driver = "redis"
)

// Store is a synchronous byte store with named slots. Set always replaces the
// whole value; there are no partial writes and no versioning.
type Store interface {
	// Get returns the slot contents or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites the slot with value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the slot, returning false when it did not exist.
	Delete(ctx context.Context, key string) (bool, error)
	// Keys lists slot names with the given prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Driver returns the backend identifier.
	Driver() Driver
	// Close releases backend resources.
	Close() error
}

// ErrNotFound is returned by Get when a slot is absent.
var ErrNotFound = errors.New("kv: slot not found")
