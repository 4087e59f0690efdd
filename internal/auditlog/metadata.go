package auditlog

import "context"

// Metadata is attached to a command's context by the command itself and
// read back by the audit writer once the command returns.
type Metadata struct {
	Provider   string
	Region     string
	Image      string
	Terminated []string
	Launched   []string
	FailedStep string

	// Outcome overrides the outcome derived from the command's error.
	Outcome string
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context, merging non-empty
// fields over any metadata already present.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Provider:   pick(meta.Provider, existing.Provider),
		Region:     pick(meta.Region, existing.Region),
		Image:      pick(meta.Image, existing.Image),
		Terminated: pickSlice(meta.Terminated, existing.Terminated),
		Launched:   pickSlice(meta.Launched, existing.Launched),
		FailedStep: pick(meta.FailedStep, existing.FailedStep),
		Outcome:    pick(meta.Outcome, existing.Outcome),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}

func pickSlice(next, fallback []string) []string {
	if len(next) > 0 {
		return next
	}
	return fallback
}

// Annotation is the cobra annotation key marking commands that are audited.
const Annotation = "reseed/audit"
