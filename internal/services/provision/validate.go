package provision

import "nathanbeddoewebdev/reseed/internal/domain"

// ValidateRootVolume checks that exactly one volume is mounted at "/" and
// that its device matches the image root device. It returns the root volume.
func ValidateRootVolume(rootDevice string, volumes []domain.VolumeSpec) (domain.VolumeSpec, error) {
	var (
		root  domain.VolumeSpec
		found int
	)
	for _, v := range volumes {
		if v.IsRoot() {
			root = v
			found++
		}
	}

	switch {
	case found == 0:
		return domain.VolumeSpec{}, domain.ConfigError("no volume is mounted at %q", domain.RootMount)
	case found > 1:
		return domain.VolumeSpec{}, domain.ConfigError("%d volumes are mounted at %q, expected exactly one", found, domain.RootMount)
	case root.Device != rootDevice:
		return domain.VolumeSpec{}, domain.ConfigError(
			"root volume device %q does not match image root device %q: check root device in image and config",
			root.Device, rootDevice)
	}

	return root, nil
}
