package transport

import (
	"net/http"

	"go.uber.org/zap"
)

// Option configures a Transport.
type Option func(*Transport)

// WithBase sets the transport that actually performs requests.
func WithBase(base http.RoundTripper) Option {
	return func(t *Transport) {
		if base != nil {
			t.base = base
		}
	}
}

// WithLogger sets the logger used for per-request debug entries.
func WithLogger(log *zap.Logger) Option {
	return func(t *Transport) {
		if log != nil {
			t.log = log
		}
	}
}

// WithHost restricts the token to requests whose URL host (host[:port]) equals
// host. Requests to other hosts, including redirect targets, go out without it.
func WithHost(host string) Option {
	return func(t *Transport) {
		t.host = host
	}
}
