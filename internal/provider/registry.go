// internal/provider/registry.go
package provider

import "sync"

// Registry holds the live Sender. Settings updates swap the sender at
// runtime while request handlers keep reading it, so access goes through
// a read-write lock.
type Registry struct {
	mu     sync.RWMutex
	sender Sender
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Configure installs s as the live sender, replacing any previous one.
func (r *Registry) Configure(s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sender = s
}

// Current returns the live sender, or false when none is configured.
func (r *Registry) Current() (Sender, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sender, r.sender != nil
}

// Configured reports whether a sender is installed.
func (r *Registry) Configured() bool {
	_, ok := r.Current()
	return ok
}

// Identity returns the live sender's identity, or the empty string when
// none is configured.
func (r *Registry) Identity() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.sender == nil {
		return ""
	}
	return r.sender.Identity()
}
