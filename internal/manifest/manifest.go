// Package manifest loads and validates the server description file.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"nathanbeddoewebdev/reseed/internal/domain"
	"nathanbeddoewebdev/reseed/internal/sshkeys"
)

// DefaultPath is the file used when no path is given on the command line.
const DefaultPath = "reseed.yaml"

// Example is written by WriteExample. It documents every supported field.
const Example = `# reseed server description.
#
# Exactly one volume must be mounted at "/" and its device must match the
# root device of the image. Every other volume is formatted with its type
# and mounted at first boot.
server:
  instance_type: t2.micro
  # image_id: ami-0603cbe34fd08cb81
  volumes:
  - device: /dev/xvda
    size_gb: 10
    type: ext4
    mount: /
  - device: /dev/xvdf
    size_gb: 100
    type: xfs
    mount: /data
  users:
  - login: user1
    ssh_key: ssh-rsa AAAA... user1@localhost
`

// File is the top-level document.
type File struct {
	Server *domain.ServerConfig `yaml:"server"`
}

// Load reads the file at path, decodes it and validates its shape. A missing
// file is reported with an error matching os.ErrNotExist.
func Load(path string) (*domain.ServerConfig, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a server description. Unknown keys are
// rejected.
func Parse(r io.Reader) (*domain.ServerConfig, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ConfigError("file is empty")
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	if f.Server == nil {
		return nil, domain.ConfigError("missing top-level \"server\" section")
	}

	if err := Validate(f.Server); err != nil {
		return nil, err
	}
	return f.Server, nil
}

// Validate checks the shape of cfg. It does not contact the provider; the
// root device is checked against the image at run time. All problems are
// reported together.
func Validate(cfg *domain.ServerConfig) error {
	if cfg == nil {
		return domain.ConfigError("server config is missing")
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, domain.ConfigError(format, args...))
	}

	if strings.TrimSpace(cfg.InstanceType) == "" {
		fail("server.instance_type is required")
	}
	if cfg.ImageID != "" && !strings.HasPrefix(cfg.ImageID, "ami-") {
		fail("server.image_id %q does not look like an image ID", cfg.ImageID)
	}

	if len(cfg.Volumes) == 0 {
		fail("server.volumes must declare at least the root volume")
	}
	for i, v := range cfg.Volumes {
		field := fmt.Sprintf("server.volumes[%d]", i)
		if strings.TrimSpace(v.Device) == "" {
			fail("%s.device is required", field)
		}
		if v.SizeGB <= 0 {
			fail("%s.size_gb must be positive, got %d", field, v.SizeGB)
		}
		if !filepath.IsAbs(v.Mount) {
			fail("%s.mount must be an absolute path, got %q", field, v.Mount)
		}
		if !v.IsRoot() && strings.TrimSpace(v.Type) == "" {
			fail("%s.type is required for non-root volumes", field)
		}
		if strings.ContainsAny(v.Device+v.Type+v.Mount, " \t\r\n\"") {
			fail("%s must not contain whitespace or quotes", field)
		}
	}

	for i, u := range cfg.Users {
		field := fmt.Sprintf("server.users[%d]", i)
		if strings.TrimSpace(u.Login) == "" {
			fail("%s.login is required", field)
		} else if strings.ContainsAny(u.Login, " \t\r\n:") || plainScalarProblem(u.Login) != "" {
			fail("%s.login %q is not a valid login name", field, u.Login)
		}
		if key, err := sshkeys.ValidatePublicKey(u.SSHKey); err != nil {
			fail("%s.ssh_key: %v", field, err)
		} else if problem := plainScalarProblem(key); problem != "" {
			fail("%s.ssh_key %s", field, problem)
		}
	}

	return errors.Join(errs...)
}

// plainScalarProblem reports why s would not survive as an unquoted YAML
// list item in the boot script, or "" when it would.
func plainScalarProblem(s string) string {
	switch {
	case s == "":
		return ""
	case strings.ContainsRune("-?:,[]{}#&*!|>'\"%@`", rune(s[0])):
		return fmt.Sprintf("must not start with %q", s[0])
	case strings.Contains(s, ": ") || strings.Contains(s, ":\t") || strings.HasSuffix(s, ":"):
		return `must not contain ": " or end with ":"`
	case strings.Contains(s, " #") || strings.Contains(s, "\t#"):
		return `must not contain " #"`
	}
	return ""
}

// exampleUser is the placeholder account in Example.
var exampleUser = domain.UserSpec{Login: "user1", SSHKey: "ssh-rsa AAAA... user1@localhost"}

// ExampleFor returns Example with the placeholder account replaced by user.
// Empty fields keep their placeholder.
func ExampleFor(user domain.UserSpec) string {
	out := Example
	if user.SSHKey != "" {
		out = strings.Replace(out, "ssh_key: "+exampleUser.SSHKey, "ssh_key: "+user.SSHKey, 1)
	}
	if user.Login != "" {
		out = strings.Replace(out, "login: "+exampleUser.Login, "login: "+user.Login, 1)
	}
	return out
}

// WriteExample writes Example to path. An existing file is only replaced
// when force is set.
func WriteExample(path string, force bool) error {
	return writeFile(path, Example, force)
}

// WriteExampleFor writes ExampleFor(user) to path.
func WriteExampleFor(path string, force bool, user domain.UserSpec) error {
	return writeFile(path, ExampleFor(user), force)
}

func writeFile(path, content string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// #nosec G304
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
