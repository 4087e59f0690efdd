package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"nathanbeddoewebdev/reseed/internal/cache"
)

func TestWithImageCache_StoresSuccessfulLookups(t *testing.T) {
	mock := &MockProvider{RootDevice: "/dev/xvda"}
	p := WithImageCache(mock, cache.New(t.TempDir(), time.Hour), "us-east-2")

	for range 3 {
		got, err := p.RootDeviceName(context.Background(), "ami-1")
		if err != nil {
			t.Fatalf("RootDeviceName: %v", err)
		}
		if got != "/dev/xvda" {
			t.Errorf("device = %q, want /dev/xvda", got)
		}
	}
	if n := mock.CallCount("RootDeviceName"); n != 1 {
		t.Errorf("provider lookups = %d, want 1", n)
	}
}

func TestWithImageCache_KeyedByRegionAndImage(t *testing.T) {
	c := cache.New(t.TempDir(), time.Hour)
	mock := &MockProvider{RootDevice: "/dev/xvda"}

	_, _ = WithImageCache(mock, c, "us-east-2").RootDeviceName(context.Background(), "ami-1")
	_, _ = WithImageCache(mock, c, "eu-west-1").RootDeviceName(context.Background(), "ami-1")
	_, _ = WithImageCache(mock, c, "us-east-2").RootDeviceName(context.Background(), "ami-2")

	if n := mock.CallCount("RootDeviceName"); n != 3 {
		t.Errorf("provider lookups = %d, want 3", n)
	}
}

func TestWithImageCache_ErrorsAreNotCached(t *testing.T) {
	mock := &MockProvider{RootDeviceErr: errors.New("throttled")}
	p := WithImageCache(mock, cache.New(t.TempDir(), time.Hour), "us-east-2")

	if _, err := p.RootDeviceName(context.Background(), "ami-1"); err == nil {
		t.Fatal("expected error")
	}
	mock.RootDeviceErr = nil
	mock.RootDevice = "/dev/sda1"

	got, err := p.RootDeviceName(context.Background(), "ami-1")
	if err != nil || got != "/dev/sda1" {
		t.Errorf("RootDeviceName = (%q, %v), want /dev/sda1", got, err)
	}
}

func TestWithImageCache_NilCache(t *testing.T) {
	mock := &MockProvider{}
	if got := WithImageCache(mock, nil, "us-east-2"); got != mock {
		t.Error("nil cache should return the provider unchanged")
	}
}

func TestWithImageCache_RefreshReplacesEntry(t *testing.T) {
	c := cache.New(t.TempDir(), time.Hour)
	if err := c.Set("root-device/us-east-2/ami-1", "/dev/stale"); err != nil {
		t.Fatal(err)
	}
	mock := &MockProvider{RootDeviceErr: errors.New("throttled")}

	_, err := WithImageCache(mock, c, "us-east-2", RefreshImageCache()).RootDeviceName(context.Background(), "ami-1")
	if err == nil {
		t.Fatal("expected error from fresh lookup")
	}
	var cached string
	if hit, _ := c.Get("root-device/us-east-2/ami-1", &cached); hit {
		t.Errorf("stale entry %q survived a refresh", cached)
	}

	mock.RootDeviceErr = nil
	mock.RootDevice = "/dev/xvda"
	got, err := WithImageCache(mock, c, "us-east-2", RefreshImageCache()).RootDeviceName(context.Background(), "ami-1")
	if err != nil || got != "/dev/xvda" {
		t.Fatalf("RootDeviceName = (%q, %v)", got, err)
	}
	if hit, _ := c.Get("root-device/us-east-2/ami-1", &cached); !hit || cached != "/dev/xvda" {
		t.Errorf("cache = (%v, %q), want fresh answer", hit, cached)
	}
}
