// Package provision replaces the tool's previous instance with a freshly
// launched one: validate the volume layout against the image, find and
// terminate every instance carrying the ownership tag, then launch a new
// instance with a generated cloud-init boot script.
package provision

import (
	"context"
	"errors"

	"github.com/chainguard-dev/clog"

	"nathanbeddoewebdev/reseed/internal/bootscript"
	"nathanbeddoewebdev/reseed/internal/domain"
	"nathanbeddoewebdev/reseed/internal/retry"
)

// Step names reported in *domain.StepError.
const (
	StepLoad       = "load config"
	StepValidate   = "validate"
	StepDiscover   = "discover"
	StepConfirm    = "confirm"
	StepTerminate  = "terminate"
	StepBootScript = "build boot script"
	StepLaunch     = "launch"
)

// ConfirmFunc is asked before previous instances are terminated. Returning
// false aborts the run with domain.ErrAborted.
type ConfirmFunc func(ctx context.Context, ids []string) (bool, error)

// Options configures a Service.
type Options struct {
	// ImageID is used when the server config does not name an image.
	ImageID string

	// Tag marks instances owned by this tool.
	Tag domain.Tag

	// Retry bounds the termination wait.
	Retry retry.Config

	// Sleep overrides the wall-clock sleep between termination attempts.
	Sleep retry.SleepFunc

	// Observer receives termination state transitions.
	Observer func(State)

	// Confirm, when set, gates termination of discovered instances.
	Confirm ConfirmFunc
}

// Result describes what a run did (or, for Plan, would do).
type Result struct {
	ImageID    string   `json:"image_id"`
	RootDevice string   `json:"root_device"`
	Discovered []string `json:"discovered"`
	Terminated []string `json:"terminated"`
	Launched   []string `json:"launched"`
	BootScript string   `json:"boot_script,omitempty"`
}

// Service composes validation, discovery, termination and launch.
type Service struct {
	provider domain.Provider
	opts     Options
	waiter   *Waiter
}

// NewService creates a provisioning service backed by provider.
func NewService(provider domain.Provider, opts Options) *Service {
	if opts.Retry == (retry.Config{}) {
		opts.Retry = retry.DefaultConfig()
	}
	waiter := NewWaiter(provider, opts.Retry, WithSleep(opts.Sleep), WithObserver(opts.Observer))
	return &Service{
		provider: provider,
		opts:     opts,
		waiter:   waiter,
	}
}

// Run validates cfg, terminates the previous instances and launches the
// replacement. Each failure aborts the remaining steps and is returned as
// a *domain.StepError. The returned Result is never nil and records what
// was done before any failure.
func (s *Service) Run(ctx context.Context, cfg *domain.ServerConfig) (*Result, error) {
	log := clog.FromContext(ctx)

	res, err := s.prepare(ctx, cfg)
	if err != nil {
		return res, err
	}

	if len(res.Discovered) > 0 && s.opts.Confirm != nil {
		ok, err := s.opts.Confirm(ctx, res.Discovered)
		if err != nil {
			return res, &domain.StepError{Step: StepConfirm, Err: err}
		}
		if !ok {
			return res, &domain.StepError{Step: StepConfirm, Err: domain.ErrAborted}
		}
	}

	if err := s.waiter.Wait(ctx, res.Discovered); err != nil {
		return res, &domain.StepError{Step: StepTerminate, Err: err}
	}
	res.Terminated = res.Discovered

	if err := s.buildBootScript(res, cfg); err != nil {
		return res, err
	}

	launched, err := Launch(ctx, s.provider, domain.LaunchOpts{
		ImageID:      res.ImageID,
		InstanceType: cfg.InstanceType,
		MinCount:     1,
		MaxCount:     1,
		UserData:     res.BootScript,
		Volumes:      cfg.Volumes,
		Tag:          s.opts.Tag,
	})
	if err != nil {
		if len(res.Terminated) > 0 {
			log.Warn("previous instances were terminated and no replacement is running; re-run to provision", "terminated", res.Terminated)
		}
		return res, &domain.StepError{Step: StepLaunch, Err: err}
	}
	res.Launched = launched

	return res, nil
}

// Plan runs the read-only steps of Run (validate, discover, build boot
// script) without terminating or launching anything.
func (s *Service) Plan(ctx context.Context, cfg *domain.ServerConfig) (*Result, error) {
	res, err := s.prepare(ctx, cfg)
	if err != nil {
		return res, err
	}
	if err := s.buildBootScript(res, cfg); err != nil {
		return res, err
	}
	return res, nil
}

func (s *Service) prepare(ctx context.Context, cfg *domain.ServerConfig) (*Result, error) {
	log := clog.FromContext(ctx)
	res := &Result{}

	if cfg == nil {
		return res, &domain.StepError{Step: StepValidate, Err: domain.ConfigError("server config is missing")}
	}

	res.ImageID = s.imageID(cfg)
	if res.ImageID == "" {
		return res, &domain.StepError{Step: StepValidate, Err: domain.ConfigError("no image ID configured")}
	}

	rootDevice, err := s.provider.RootDeviceName(ctx, res.ImageID)
	if err != nil {
		return res, &domain.StepError{Step: StepValidate, Err: err}
	}
	res.RootDevice = rootDevice

	root, err := ValidateRootVolume(rootDevice, cfg.Volumes)
	if err != nil {
		return res, &domain.StepError{Step: StepValidate, Err: err}
	}
	log.Info("root volume matches image", "image", res.ImageID, "device", root.Device)

	ids, err := Discover(ctx, s.provider, s.opts.Tag)
	if err != nil {
		return res, &domain.StepError{Step: StepDiscover, Err: err}
	}
	res.Discovered = ids

	return res, nil
}

func (s *Service) buildBootScript(res *Result, cfg *domain.ServerConfig) error {
	script, err := bootscript.Render(cfg.Users, cfg.Volumes)
	if err != nil {
		return &domain.StepError{Step: StepBootScript, Err: err}
	}
	res.BootScript = script
	return nil
}

func (s *Service) imageID(cfg *domain.ServerConfig) string {
	if cfg.ImageID != "" {
		return cfg.ImageID
	}
	return s.opts.ImageID
}

// FailedStep returns the step named by a *domain.StepError in err's chain.
func FailedStep(err error) string {
	var stepErr *domain.StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}
