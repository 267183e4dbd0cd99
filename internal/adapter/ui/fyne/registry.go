package fyne

import (
	"strings"
	"sync"

	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

// Registry resolves selectors ("name" or "#name") to hosts.
type Registry struct {
	mu    sync.RWMutex
	hosts map[string]ports.Host
}

var _ ports.HostResolver = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{hosts: make(map[string]ports.Host)}
}

// Register adds host under its name, replacing any previous host with that name.
func (r *Registry) Register(host ports.Host) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hosts[host.Name()] = host
}

// Unregister removes the host registered under name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hosts, name)
}

// Lookup implements ports.HostResolver.
func (r *Registry) Lookup(selector string) (ports.Host, bool) {
	name := strings.TrimPrefix(strings.TrimSpace(selector), "#")
	if name == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hosts[name]
	return h, ok
}
