package kv

import (
	"context"
	"fmt"
	"strings"

	"trackcore/internal/infra/kv/fs"
	"trackcore/internal/infra/kv/memory"
	"trackcore/internal/infra/kv/postgres"
	"trackcore/internal/infra/kv/redis"
	"trackcore/internal/infra/kv/s3"
	"trackcore/internal/infra/kv/sqlite"
)

// Options selects and configures a slot backend.
type Options struct {
	Driver      string
	FSRoot      string
	SQLitePath  string
	PostgresDSN string
	S3          s3.Config
	Redis       redis.Config
}

// Open constructs the backend named by opts.Driver (default memory).
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := Driver(strings.ToLower(strings.TrimSpace(opts.Driver)))
	if driver == "" {
		driver = DriverMemory
	}
	switch driver {
	case DriverMemory:
		return memory.New(), nil
	case DriverFilesystem:
		return fs.New(opts.FSRoot)
	case DriverSQLite:
		return sqlite.New(ctx, opts.SQLitePath)
	case DriverPostgres:
		return postgres.New(ctx, opts.PostgresDSN)
	case DriverS3:
		return s3.New(ctx, opts.S3)
	case DriverRedis:
		return redis.New(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("unknown kv driver %s", opts.Driver)
	}
}
