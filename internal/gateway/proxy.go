package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// Route maps a path prefix on the gateway to an upstream base URL.
// The prefix is stripped before forwarding, matching the original routing
// table (e.g. /api/patients/** -> patient service /patients/**).
type Route struct {
	Prefix   string
	Upstream string
}

// NewRouter builds the edge router: every proxied route sits behind the auth
// filter; public paths (login) bypass it so clients can obtain a token.
func NewRouter(filter *Filter, authUpstream string, routes []Route) (chi.Router, error) {
	r := chi.NewRouter()

	login, err := newProxy(authUpstream, "/auth")
	if err != nil {
		return nil, err
	}
	r.Handle("/auth/*", login)

	for _, route := range routes {
		proxy, err := newProxy(route.Upstream, route.Prefix)
		if err != nil {
			return nil, err
		}
		r.Group(func(r chi.Router) {
			r.Use(filter.Middleware)
			r.Handle(route.Prefix+"/*", proxy)
		})
	}
	return r, nil
}

func newProxy(upstream, prefix string) (http.Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("parse upstream %q: %w", upstream, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		req.URL.Path = stripPrefix(req.URL.Path, prefix)
		req.Host = target.Host
	}
	return proxy, nil
}

func stripPrefix(path, prefix string) string {
	if len(path) >= len(prefix) && path[:len(prefix)] == prefix {
		if trimmed := path[len(prefix):]; trimmed != "" {
			return trimmed
		}
		return "/"
	}
	return path
}
