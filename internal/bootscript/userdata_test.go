package bootscript

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"nathanbeddoewebdev/reseed/internal/domain"
)

const aliceKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIGq0cVdx alice@laptop"

func exampleVolumes() []domain.VolumeSpec {
	return []domain.VolumeSpec{
		{Device: "/dev/xvda", SizeGB: 10, Type: "ext4", Mount: "/"},
		{Device: "/dev/xvdf", SizeGB: 100, Type: "xfs", Mount: "/data"},
	}
}

func TestRender_Example(t *testing.T) {
	users := []domain.UserSpec{{Login: "alice", SSHKey: aliceKey}}

	got, err := Render(users, exampleVolumes())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	want := `#cloud-config
users:
  - name: alice
    gecos: ""
    sudo: ALL=(ALL) NOPASSWD:ALL
    ssh_authorized_keys:
      - ` + aliceKey + `
runcmd:
  - echo "Creating FS and mount additional storage"
  - mkfs -t xfs /dev/xvdf
  - mkdir -p /data
  - mount /dev/xvdf /data
  - echo "/dev/xvdf /data xfs defaults,noatime 1 1" >> /etc/fstab
  - echo "Finished"
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("user data mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_NeverTouchesRootVolume(t *testing.T) {
	volumes := []domain.VolumeSpec{
		{Device: "/dev/sdb", SizeGB: 20, Type: "ext4", Mount: "/srv"},
		{Device: "/dev/xvda", SizeGB: 10, Type: "ext4", Mount: "/"},
		{Device: "/dev/sdc", SizeGB: 30, Type: "xfs", Mount: "/var/lib/db"},
	}

	got, err := Render(nil, volumes)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	if strings.Contains(got, "/dev/xvda") {
		t.Errorf("root device must not appear in user data, got:\n%s", got)
	}
	for _, line := range []string{"mkdir -p /\n", "mount /dev/xvda", "mkfs -t ext4 /dev/xvda"} {
		if strings.Contains(got, line) {
			t.Errorf("unexpected %q in user data:\n%s", line, got)
		}
	}

	srv := strings.Index(got, "mkfs -t ext4 /dev/sdb")
	db := strings.Index(got, "mkfs -t xfs /dev/sdc")
	if srv < 0 || db < 0 {
		t.Fatalf("expected both data volumes to be formatted, got:\n%s", got)
	}
	if srv > db {
		t.Errorf("volume blocks out of input order:\n%s", got)
	}
}

func TestRender_VolumeBlockOrder(t *testing.T) {
	got, err := Render(nil, exampleVolumes())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	want := []string{
		"  - mkfs -t xfs /dev/xvdf",
		"  - mkdir -p /data",
		"  - mount /dev/xvdf /data",
		`  - echo "/dev/xvdf /data xfs defaults,noatime 1 1" >> /etc/fstab`,
	}

	lines := strings.Split(got, "\n")
	start := -1
	for i, l := range lines {
		if l == want[0] {
			start = i
			break
		}
	}
	if start < 0 {
		t.Fatalf("mkfs line not found in:\n%s", got)
	}
	if diff := cmp.Diff(want, lines[start:start+len(want)]); diff != "" {
		t.Errorf("volume block mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_OneBlockPerUserInOrder(t *testing.T) {
	users := []domain.UserSpec{
		{Login: "alice", SSHKey: aliceKey},
		{Login: "bob", SSHKey: "ssh-rsa AAAAB3NzaC1yc2E bob@desk"},
		{Login: "carol", SSHKey: "ecdsa-sha2-nistp256 AAAAE2VjZHNh carol@ci"},
	}

	got, err := Render(users, exampleVolumes())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	if n := strings.Count(got, "sudo: ALL=(ALL) NOPASSWD:ALL"); n != len(users) {
		t.Errorf("expected %d sudo grants, got %d", len(users), n)
	}

	last := -1
	for _, u := range users {
		idx := strings.Index(got, "  - name: "+u.Login+"\n")
		if idx < 0 {
			t.Fatalf("user %q not found in:\n%s", u.Login, got)
		}
		if idx < last {
			t.Errorf("user %q out of order", u.Login)
		}
		last = idx

		if !strings.Contains(got, "      - "+u.SSHKey+"\n") {
			t.Errorf("key for %q not rendered verbatim", u.Login)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	users := []domain.UserSpec{
		{Login: "alice", SSHKey: aliceKey},
		{Login: "bob", SSHKey: "ssh-rsa AAAAB3NzaC1yc2E bob@desk"},
	}
	volumes := append(exampleVolumes(), domain.VolumeSpec{Device: "/dev/xvdg", SizeGB: 5, Type: "ext4", Mount: "/logs"})

	first, err := Render(users, volumes)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Render(users, volumes)
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if again != first {
			t.Fatalf("render %d differs:\n%s", i, cmp.Diff(first, again))
		}
	}
}

func TestRender_NoUsersNoVolumes(t *testing.T) {
	got, err := Render(nil, []domain.VolumeSpec{{Device: "/dev/xvda", SizeGB: 8, Type: "ext4", Mount: "/"}})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	want := "#cloud-config\n" +
		"users:\n" +
		"runcmd:\n" +
		"  - echo \"Creating FS and mount additional storage\"\n" +
		"  - echo \"Finished\"\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("user data mismatch (-want +got):\n%s", diff)
	}
}

func TestDataVolumes(t *testing.T) {
	got := DataVolumes(exampleVolumes())
	want := []domain.VolumeSpec{{Device: "/dev/xvdf", SizeGB: 100, Type: "xfs", Mount: "/data"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DataVolumes mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_KeysParseVerbatim(t *testing.T) {
	users := []domain.UserSpec{
		{Login: "alice", SSHKey: aliceKey},
		{Login: "bob", SSHKey: "ssh-ed25519 AAAAC3NzaC1 bob@host:22"},
		{Login: "carol", SSHKey: "ssh-rsa AAAAB3NzaC1 team#ops it's-carol"},
		{Login: "dave", SSHKey: "ecdsa-sha2-nistp256 AAAAE2VjZHNh"},
	}

	out, err := Render(users, exampleVolumes())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	var doc struct {
		Users []struct {
			Name string   `yaml:"name"`
			Keys []string `yaml:"ssh_authorized_keys"`
		} `yaml:"users"`
		RunCmd []string `yaml:"runcmd"`
	}
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("rendered user data is not valid YAML: %v\n%s", err, out)
	}

	if len(doc.Users) != len(users) {
		t.Fatalf("parsed %d users, want %d", len(doc.Users), len(users))
	}
	for i, u := range users {
		got := doc.Users[i]
		if got.Name != u.Login {
			t.Errorf("users[%d].name = %q, want %q", i, got.Name, u.Login)
		}
		if diff := cmp.Diff([]string{u.SSHKey}, got.Keys); diff != "" {
			t.Errorf("users[%d] keys mismatch (-want +got):\n%s", i, diff)
		}
	}
	if n := len(doc.RunCmd); n != 6 {
		t.Errorf("runcmd has %d entries, want 6", n)
	}
}
