// Package router wraps go-chi with named routes and prefix groups. Names
// feed the route:list command and URL reversal; groups carry a path
// prefix plus the middleware stack shared by their routes.
package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// RouteInfo describes one registered named route.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

type Router struct {
	mux    chi.Router
	mu     sync.RWMutex
	byName map[string]RouteInfo
}

func New() *Router {
	return &Router{
		mux:    chi.NewRouter(),
		byName: make(map[string]RouteInfo),
	}
}

func (r *Router) Handler() http.Handler { return r.mux }

func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

// Group scopes routes under prefix with a shared middleware stack.
func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      joinPath(prefix),
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (r *Router) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.handle(http.MethodGet, joinPath(path), name, h, mws)
}

func (r *Router) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.handle(http.MethodPost, joinPath(path), name, h, mws)
}

func (r *Router) Put(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.handle(http.MethodPut, joinPath(path), name, h, mws)
}

func (r *Router) Patch(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.handle(http.MethodPatch, joinPath(path), name, h, mws)
}

func (r *Router) Delete(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.handle(http.MethodDelete, joinPath(path), name, h, mws)
}

// handle is the single registration point for Router and Group routes.
func (r *Router) handle(method, fullPath, name string, h http.Handler, mws []Middleware) {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	r.mux.Method(method, fullPath, h)

	if name == "" {
		return
	}
	r.mu.Lock()
	r.byName[name] = RouteInfo{Method: method, Path: fullPath, Name: name}
	r.mu.Unlock()
}

// Path returns the registered path for a named route.
func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.byName[name]
	return info.Path, ok
}

// URL reverses a named route, substituting {param} placeholders.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}
	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", value)
	}
	if strings.Contains(path, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}
	return path, nil
}

// Routes lists all named routes sorted by path then method.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	out := make([]RouteInfo, 0, len(r.byName))
	for _, info := range r.byName {
		out = append(out, info)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Group registers routes under a common prefix and middleware stack.
type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

// Group nests a sub-group, inheriting prefix and middleware.
func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      g.router,
		prefix:      joinPath(g.prefix, prefix),
		middlewares: append(append([]Middleware(nil), g.middlewares...), middlewares...),
	}
}

func (g *Group) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.handle(http.MethodGet, path, name, h, mws)
}

func (g *Group) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.handle(http.MethodPost, path, name, h, mws)
}

func (g *Group) Put(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.handle(http.MethodPut, path, name, h, mws)
}

func (g *Group) Patch(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.handle(http.MethodPatch, path, name, h, mws)
}

func (g *Group) Delete(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.handle(http.MethodDelete, path, name, h, mws)
}

func (g *Group) handle(method, path, name string, h http.Handler, mws []Middleware) {
	combined := append(append([]Middleware(nil), g.middlewares...), mws...)
	g.router.handle(method, joinPath(g.prefix, path), name, h, combined)
}

// joinPath joins segments into a clean absolute path. Trailing wildcards
// and params survive untouched.
func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.Trim(part, "/"); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}
