// Package ui renders the tournament client as a terminal navigation shell:
// a home view, a login view and a registration view, switched by a router
// the way the web client switches pages.
package ui

import "sync"

// Routes known to the shell.
const (
	RouteHome     = "/"
	RouteLogin    = "/login"
	RouteRegister = "/register"
)

// Navigator moves the shell to another route.
type Navigator interface {
	Navigate(path string)
}

// Router tracks the current route.
type Router struct {
	mu      sync.Mutex
	current string
}

// NewRouter returns a router positioned at RouteHome.
func NewRouter() *Router {
	return &Router{current: RouteHome}
}

func (r *Router) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = path
}

// Current returns the active route.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}
