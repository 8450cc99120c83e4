// Package tlsprofile holds the TLS emulation profiles a transport can apply
// to blend in with real browsers. The service only selects and serializes
// profiles; applying the ClientHello to a connection is the transport's job.
package tlsprofile

import (
	"sync"

	utls "github.com/refraction-networking/utls"
)

// Profile pairs a named browser TLS identity with the utls ClientHelloID that
// reproduces it and the JA3 hash a fingerprinting middlebox would compute.
type Profile struct {
	Name        string             `json:"name"`
	JA3Hash     string             `json:"ja3_hash"`
	MinVersion  string             `json:"min_version"`
	ALPN        []string           `json:"alpn"`
	clientHello utls.ClientHelloID
}

// ClientHello returns the utls ClientHelloID to hand to a uTLS connection.
func (p Profile) ClientHello() utls.ClientHelloID {
	return p.clientHello
}

// Manager is a read-mostly registry of TLS profiles keyed by name.
type Manager struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewManager returns a Manager loaded with the built-in browser profiles.
func NewManager() *Manager {
	return &Manager{profiles: defaultProfiles()}
}

// Get returns the profile for name; the second return is false when no
// profile backs the name.
func (m *Manager) Get(name string) (Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[name]
	return p, ok
}

// Names lists the registered profile names.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	return names
}
