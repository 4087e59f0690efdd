package provision

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"nathanbeddoewebdev/reseed/internal/domain"
)

// InstanceRunner submits creation requests to the provider.
type InstanceRunner interface {
	RunInstances(ctx context.Context, opts domain.LaunchOpts) ([]string, error)
}

// Launch submits a single creation request and returns the created instance
// IDs. Creation is not idempotent, so a failed request is never retried.
func Launch(ctx context.Context, runner InstanceRunner, opts domain.LaunchOpts) ([]string, error) {
	log := clog.FromContext(ctx)

	if opts.MinCount < 1 || opts.MaxCount < opts.MinCount {
		return nil, domain.ConfigError("invalid instance count range [%d, %d]", opts.MinCount, opts.MaxCount)
	}

	log.Info("launching instance",
		"image", opts.ImageID,
		"type", opts.InstanceType,
		"volumes", len(opts.Volumes),
		"user_data_bytes", len(opts.UserData),
		"tag", opts.Tag.String())

	ids, err := runner.RunInstances(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLaunch, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: request succeeded but no instance was created", domain.ErrLaunch)
	}

	for _, id := range ids {
		log.Info("created instance", "id", id)
	}
	return ids, nil
}
