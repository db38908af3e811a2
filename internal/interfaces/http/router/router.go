package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts a set of routes on the versioned API group.
// writeGuard, when non-nil, must run before every mutating handler.
type RouteRegistrar interface {
	RegisterRoutes(api *gin.RouterGroup, writeGuard gin.HandlerFunc)
}

// Router mounts registrars under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	writeGuard gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion overrides the default "v1" prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.apiVersion = version }
}

// WithWriteGuard puts guard in front of every POST and PUT route.
// GET routes stay open.
func WithWriteGuard(guard gin.HandlerFunc) RouterOption {
	return func(r *Router) { r.writeGuard = guard }
}

// NewRouter creates a Router on engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues registrar for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every queued registrar
func (r *Router) Setup() {
	api := r.engine.Group(r.APIPrefix())
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api, r.writeGuard)
	}
}

// APIPrefix returns "/api/<version>"
func (r *Router) APIPrefix() string {
	return "/api/" + r.apiVersion
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// DomainGroup declares the routes of one resource before they are mounted
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*DomainGroup
}

// NewDomainGroup declares a group mounted at prefix
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Name identifies the group
func (dg *DomainGroup) Name() string { return dg.name }

// Prefix is the path the group is mounted at
func (dg *DomainGroup) Prefix() string { return dg.prefix }

// Use adds middleware that runs for every route of the group and its children
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodGet, path, handlers)
}

func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPost, path, handlers)
}

func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPut, path, handlers)
}

func (dg *DomainGroup) add(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: path, handlers: handlers})
	return dg
}

// Group declares a child group mounted below this one
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	child := NewDomainGroup(name, prefix)
	dg.children = append(dg.children, child)
	return child
}

// RegisterRoutes mounts the group on parent
func (dg *DomainGroup) RegisterRoutes(parent *gin.RouterGroup, writeGuard gin.HandlerFunc) {
	group := parent.Group(dg.prefix, dg.middleware...)

	for _, rt := range dg.routes {
		handlers := rt.handlers
		if writeGuard != nil && rt.method != http.MethodGet {
			handlers = append([]gin.HandlerFunc{writeGuard}, handlers...)
		}
		group.Handle(rt.method, rt.path, handlers...)
	}
	for _, child := range dg.children {
		child.RegisterRoutes(group, writeGuard)
	}
}
