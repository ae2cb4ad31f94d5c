// Package tokenstore holds the client's single bearer token.
//
// A Store keeps at most one token under the fixed key "token". Absence of a
// token is a valid state meaning the client is unauthenticated. There is no
// clear or expire operation: a token is only ever replaced by a newer one.
package tokenstore

import "sync"

// Key is the name the token is stored under.
const Key = "token"

// Store is the token slot read by the request pipeline and written by the login view.
type Store interface {
	// Get returns the current token and whether one is present. An empty
	// token counts as absent.
	Get() (string, bool)
	// Set overwrites the current token.
	Set(token string) error
}

// Memory is an in-process Store. The zero value is an empty store.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *Memory) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}
