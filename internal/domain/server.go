package domain

// RootMount is the mount point that identifies the boot volume.
const RootMount = "/"

// VolumeSpec declares a block device attached at launch.
type VolumeSpec struct {
	Device string `yaml:"device" json:"device"`   // e.g. "/dev/xvdf"
	SizeGB int32  `yaml:"size_gb" json:"size_gb"` // EBS volume size
	Type   string `yaml:"type" json:"type"`       // filesystem, e.g. "xfs"
	Mount  string `yaml:"mount" json:"mount"`     // absolute path, "/" for the root volume
}

// IsRoot reports whether the volume is the boot volume.
func (v VolumeSpec) IsRoot() bool {
	return v.Mount == RootMount
}

// UserSpec declares an administrative login created at first boot.
type UserSpec struct {
	Login  string `yaml:"login" json:"login"`
	SSHKey string `yaml:"ssh_key" json:"ssh_key"`
}

// ServerConfig is the declarative description of the instance to provision.
// It is loaded once per run and not modified afterwards.
type ServerConfig struct {
	InstanceType string       `yaml:"instance_type" json:"instance_type"`
	ImageID      string       `yaml:"image_id,omitempty" json:"image_id,omitempty"`
	Volumes      []VolumeSpec `yaml:"volumes" json:"volumes"`
	Users        []UserSpec   `yaml:"users" json:"users"`
}

// Tag is a key/value pair attached to a provider resource.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// String renders the tag as key=value.
func (t Tag) String() string {
	return t.Key + "=" + t.Value
}

// Instance is a compute instance as reported by the provider.
type Instance struct {
	ID    string `json:"id"`
	State string `json:"state"`
	Tags  []Tag  `json:"tags,omitempty"`
}

// InstanceState is the per-instance lifecycle state reported by a bulk
// termination request.
type InstanceState struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// Instance lifecycle states shared by providers.
const (
	InstanceStatePending      = "pending"
	InstanceStateRunning      = "running"
	InstanceStateShuttingDown = "shutting-down"
	InstanceStateTerminated   = "terminated"
)

// LaunchOpts holds the parameters of a single creation request.
type LaunchOpts struct {
	ImageID      string
	InstanceType string
	MinCount     int32
	MaxCount     int32

	// UserData is the plain-text boot script. Providers apply any
	// transport encoding their API requires.
	UserData string

	// Volumes are translated, in order, into block device mappings.
	Volumes []VolumeSpec

	// Tag marks the created instances as owned by this tool.
	Tag Tag
}
