package providers

import (
	"context"
	"sync"

	"nathanbeddoewebdev/reseed/internal/domain"
)

// MockProvider is an in-memory domain.Provider for testing.
//
// TerminateResponses is consumed one entry per TerminateInstances call; once
// exhausted the last entry is repeated. Every call is recorded in Calls.
type MockProvider struct {
	DisplayName string

	RootDevice    string
	RootDeviceErr error

	Instances []domain.Instance
	ListErr   error

	TerminateResponses [][]domain.InstanceState
	TerminateErr       error

	LaunchIDs []string
	LaunchErr error

	mu             sync.Mutex
	Calls          []string
	ImageLookups   []string
	TerminateCalls [][]string
	Launched       []domain.LaunchOpts
}

var _ domain.Provider = (*MockProvider)(nil)

func (m *MockProvider) record(call string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

func (m *MockProvider) GetDisplayName() string {
	if m.DisplayName == "" {
		return "Mock"
	}
	return m.DisplayName
}

func (m *MockProvider) RootDeviceName(_ context.Context, imageID string) (string, error) {
	m.record("RootDeviceName")
	m.mu.Lock()
	m.ImageLookups = append(m.ImageLookups, imageID)
	m.mu.Unlock()
	if m.RootDeviceErr != nil {
		return "", m.RootDeviceErr
	}
	return m.RootDevice, nil
}

func (m *MockProvider) ListInstances(_ context.Context) ([]domain.Instance, error) {
	m.record("ListInstances")
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Instances, nil
}

func (m *MockProvider) TerminateInstances(_ context.Context, ids []string) ([]domain.InstanceState, error) {
	m.record("TerminateInstances")
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TerminateCalls = append(m.TerminateCalls, append([]string(nil), ids...))
	if m.TerminateErr != nil {
		return nil, m.TerminateErr
	}
	if len(m.TerminateResponses) == 0 {
		states := make([]domain.InstanceState, 0, len(ids))
		for _, id := range ids {
			states = append(states, domain.InstanceState{ID: id, State: domain.InstanceStateTerminated})
		}
		return states, nil
	}

	idx := len(m.TerminateCalls) - 1
	if idx >= len(m.TerminateResponses) {
		idx = len(m.TerminateResponses) - 1
	}
	return m.TerminateResponses[idx], nil
}

func (m *MockProvider) RunInstances(_ context.Context, opts domain.LaunchOpts) ([]string, error) {
	m.record("RunInstances")
	m.mu.Lock()
	m.Launched = append(m.Launched, opts)
	m.mu.Unlock()
	if m.LaunchErr != nil {
		return nil, m.LaunchErr
	}
	return m.LaunchIDs, nil
}

// CallCount returns how many times the named method was called.
func (m *MockProvider) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}
