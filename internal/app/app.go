// Package app wires the production admin client from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/janhicken/cloud-bigtable-client/internal/admin"
	"github.com/janhicken/cloud-bigtable-client/internal/call"
	"github.com/janhicken/cloud-bigtable-client/internal/core/config"
	"github.com/janhicken/cloud-bigtable-client/internal/infra/grpctransport"
	redisclient "github.com/janhicken/cloud-bigtable-client/internal/infra/redis"
	"github.com/janhicken/cloud-bigtable-client/internal/infra/storage/postgres"
)

// NewAdminClient builds the admin client from configuration: retry
// options from the call section, the redis read cache when enabled,
// and the postgres audit log when a database URL is set. service wraps
// the generated admin stub over a connection from grpctransport.Dial.
// The returned close function releases the cache and database
// connections.
func NewAdminClient(ctx context.Context, cfg *config.AppConfig, service admin.Service) (*admin.Client, func(), error) {
	backoff, err := cfg.Call.BackoffConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid call config: %w", err)
	}
	retryable, err := cfg.Call.RetryableSet()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid call config: %w", err)
	}
	attemptTimeout, err := cfg.Call.AttemptTimeoutDuration()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid call config: %w", err)
	}
	callTimeout, err := cfg.Call.TimeoutDuration()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid call config: %w", err)
	}

	client := admin.NewClient(service, call.Options{
		Backoff:        backoff,
		Classifier:     call.NewClassifier(retryable),
		Transport:      grpctransport.New(),
		AttemptTimeout: attemptTimeout,
	}).WithCallTimeout(callTimeout)

	var closers []func()
	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}

	if cfg.Cache.Enabled {
		ttl, err := cfg.Cache.TTLDuration()
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cache config: %w", err)
		}
		cache, err := redisclient.NewCache(cfg.Redis, ttl)
		if err != nil {
			return nil, nil, fmt.Errorf("cache: %w", err)
		}
		client.WithCache(cache)
		closers = append(closers, func() { _ = cache.Close() })
	}

	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("audit store: %w", err)
		}
		client.WithAuditor(postgres.NewAuditRepo(db))
		closers = append(closers, func() { _ = db.Close() })
	}

	return client, closeAll, nil
}
