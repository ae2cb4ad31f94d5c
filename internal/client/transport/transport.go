// Package transport implements the authenticated request pipeline: every
// outbound request is decorated with the bearer token currently held by a
// tokenstore.Store.
package transport

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/atinyakov/tourney/internal/client/tokenstore"
)

// Authorize returns req augmented with "Authorization: Bearer <token>" when store
// holds a non-empty token. The store is read on every call. Without a token req
// is returned as is. req itself is never mutated.
func Authorize(req *http.Request, store tokenstore.Store) *http.Request {
	token, ok := store.Get()
	if !ok || token == "" {
		return req
	}
	authed := req.Clone(req.Context())
	(&oauth2.Token{AccessToken: token}).SetAuthHeader(authed)
	return authed
}

// Transport is an http.RoundTripper that runs Authorize before handing the
// request to the wrapped transport. Responses, including 401, are returned untouched.
//
// The token only goes to the API host set with WithHost, or, without one, to the
// host the request chain started at. Redirect hops to any other host are sent
// without it.
type Transport struct {
	store tokenstore.Store
	base  http.RoundTripper
	host  string
	log   *zap.Logger
}

// New builds a Transport reading tokens from store.
func New(store tokenstore.Store, options ...Option) *Transport {
	t := &Transport{
		store: store,
		base:  http.DefaultTransport,
		log:   zap.NewNop(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// NewClient returns an *http.Client whose requests go through the pipeline.
func NewClient(store tokenstore.Store, options ...Option) *http.Client {
	return &http.Client{Transport: New(store, options...)}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req
	if t.trusted(req) {
		out = Authorize(req, t.store)
	}
	t.log.Debug("outbound request",
		zap.String("method", out.Method),
		zap.String("url", out.URL.Redacted()),
		zap.Bool("authenticated", out != req),
	)
	return t.base.RoundTrip(out)
}

// trusted reports whether req targets the host the token belongs to.
func (t *Transport) trusted(req *http.Request) bool {
	host := t.host
	if host == "" {
		host = originHost(req)
	}
	return strings.EqualFold(req.URL.Host, host)
}

// originHost follows the redirect chain back to the first request.
func originHost(req *http.Request) string {
	first := req
	for first.Response != nil && first.Response.Request != nil {
		first = first.Response.Request
	}
	return first.URL.Host
}
