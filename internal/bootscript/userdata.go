// Package bootscript renders the cloud-init document attached to a launched
// instance.
package bootscript

import (
	"bytes"
	"fmt"
	"text/template"

	"nathanbeddoewebdev/reseed/internal/domain"
)

// FstabOptions are the mount options written for every data volume.
const FstabOptions = "defaults,noatime"

type userDataParams struct {
	Users   []domain.UserSpec
	Volumes []domain.VolumeSpec
	Options string
}

var userData = template.Must(template.New("userdata").Parse(userDataTemplate))

// Render builds the cloud-init user data for the given users and volumes.
//
// Users become passwordless sudoers with their public key authorized. Every
// non-root volume is formatted, mounted and added to /etc/fstab, in input
// order. The root volume is left untouched. The output depends only on the
// inputs and their order.
func Render(users []domain.UserSpec, volumes []domain.VolumeSpec) (string, error) {
	params := userDataParams{
		Users:   users,
		Volumes: DataVolumes(volumes),
		Options: FstabOptions,
	}

	var buf bytes.Buffer
	if err := userData.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("render user data template: %w", err)
	}

	return buf.String(), nil
}

// DataVolumes returns the volumes that are not mounted at "/", preserving order.
func DataVolumes(volumes []domain.VolumeSpec) []domain.VolumeSpec {
	data := make([]domain.VolumeSpec, 0, len(volumes))
	for _, v := range volumes {
		if v.IsRoot() {
			continue
		}
		data = append(data, v)
	}
	return data
}

// userDataTemplate keeps the cloud-init directive names (users, sudo,
// ssh_authorized_keys, runcmd) exactly as the boot agent expects them.
const userDataTemplate = `#cloud-config
users:
{{- range .Users }}
  - name: {{ .Login }}
    gecos: ""
    sudo: ALL=(ALL) NOPASSWD:ALL
    ssh_authorized_keys:
      - {{ .SSHKey }}
{{- end }}
runcmd:
  - echo "Creating FS and mount additional storage"
{{- range .Volumes }}
  - mkfs -t {{ .Type }} {{ .Device }}
  - mkdir -p {{ .Mount }}
  - mount {{ .Device }} {{ .Mount }}
  - echo "{{ .Device }} {{ .Mount }} {{ .Type }} {{ $.Options }} 1 1" >> /etc/fstab
{{- end }}
  - echo "Finished"
`
