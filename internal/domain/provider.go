package domain

import "context"

// Provider is the capability object for a compute provider. It covers
// everything a provisioning run needs: resolving the image root device,
// discovering instances, terminating them and launching a replacement.
type Provider interface {
	GetDisplayName() string

	// RootDeviceName returns the root device name declared by the image.
	RootDeviceName(ctx context.Context, imageID string) (string, error)

	// ListInstances returns every instance visible to the account/region.
	ListInstances(ctx context.Context) ([]Instance, error)

	// TerminateInstances issues one bulk termination request and returns
	// the current state of each instance in the response.
	TerminateInstances(ctx context.Context, ids []string) ([]InstanceState, error)

	// RunInstances submits one creation request and returns the IDs of the
	// created instances.
	RunInstances(ctx context.Context, opts LaunchOpts) ([]string, error)
}
