package provision

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"nathanbeddoewebdev/reseed/internal/domain"
)

// InstanceLister enumerates the instances visible to the provider account.
type InstanceLister interface {
	ListInstances(ctx context.Context) ([]domain.Instance, error)
}

// Discover returns the IDs of every instance carrying the ownership tag, in
// the order the provider listed them. Instances without tags and tag entries
// without a key are skipped.
func Discover(ctx context.Context, lister InstanceLister, owner domain.Tag) ([]string, error) {
	owned, err := ListOwned(ctx, lister, owner)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(owned))
	for _, inst := range owned {
		clog.FromContext(ctx).Info("found previous instance", "id", inst.ID, "state", inst.State)
		ids = append(ids, inst.ID)
	}
	return ids, nil
}

// ListOwned returns the instances carrying the ownership tag, in provider
// order.
func ListOwned(ctx context.Context, lister InstanceLister, owner domain.Tag) ([]domain.Instance, error) {
	log := clog.FromContext(ctx)

	instances, err := lister.ListInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	var owned []domain.Instance
	for _, inst := range instances {
		if inst.ID == "" {
			log.Debug("skipping instance without an ID")
			continue
		}
		if len(inst.Tags) == 0 {
			log.Debug("skipping untagged instance", "id", inst.ID)
			continue
		}
		if ownedBy(ctx, inst, owner) {
			owned = append(owned, inst)
		}
	}
	return owned, nil
}

func ownedBy(ctx context.Context, inst domain.Instance, owner domain.Tag) bool {
	for _, tag := range inst.Tags {
		if tag.Key == "" {
			clog.FromContext(ctx).Debug("skipping malformed tag", "id", inst.ID)
			continue
		}
		if tag.Key == owner.Key && tag.Value == owner.Value {
			return true
		}
	}
	return false
}
