// Package hooks implements the plugin extension points of the deployment
// pipeline.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joostfarla/serverless-cors-plugin/internal/metrics"
	"github.com/joostfarla/serverless-cors-plugin/internal/project"
)

// Action is a pipeline step plugins can hook into.
type Action string

const (
	// ActionBuildAPIGateway fires once per endpoint while its API Gateway
	// representation is built.
	ActionBuildAPIGateway Action = "endpointBuildApiGateway"
	// ActionDeploy fires once per deployment.
	ActionDeploy Action = "endpointDeploy"
)

// Event is the moment relative to an action a hook runs at.
type Event string

const (
	EventPre  Event = "pre"
	EventPost Event = "post"
)

var (
	// ErrPluginAlreadyRegistered is returned when two plugins share a name.
	ErrPluginAlreadyRegistered = errors.New("plugin already registered")
	// ErrHookPanicked is returned when a hook panics.
	ErrHookPanicked = errors.New("hook panicked")
)

// Options are the caller supplied options of a pipeline run.
type Options struct {
	// Name is the key of the endpoint being built.
	Name   string
	Stage  string
	Region string
	// All applies deploy hooks to every path.
	All bool
}

// Context is handed to every hook.
type Context struct {
	Project *project.Project
	// Endpoint is the endpoint being built. Nil for deploy hooks.
	Endpoint *project.Endpoint
	Options  Options
}

// Func is a hook implementation.
type Func func(ctx context.Context, hc *Context) error

// Plugin contributes hooks to a Registry.
type Plugin interface {
	Name() string
	RegisterHooks(r *Registry) error
}

type hook struct {
	name string
	fn   Func
}

type point struct {
	action Action
	event  Event
}

// Registry holds plugins and their hooks.
type Registry struct {
	log     logrus.FieldLogger
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []string
	hooks   map[point][]hook
}

// NewRegistry creates an empty Registry.
func NewRegistry(log logrus.FieldLogger) *Registry {
	return &Registry{
		log:     log.WithField("component", "hooks"),
		plugins: make(map[string]Plugin),
		hooks:   make(map[point][]hook),
	}
}

// AddPlugin registers a plugin and lets it register its hooks.
func (r *Registry) AddPlugin(p Plugin) error {
	name := p.Name()

	r.mu.Lock()

	if _, exists := r.plugins[name]; exists {
		r.mu.Unlock()

		return fmt.Errorf("%w: %s", ErrPluginAlreadyRegistered, name)
	}

	r.plugins[name] = p
	r.order = append(r.order, name)

	r.mu.Unlock()

	if err := p.RegisterHooks(r); err != nil {
		return fmt.Errorf("failed to register hooks of plugin %s: %w", name, err)
	}

	r.log.WithField("plugin", name).Debug("Registered plugin")

	return nil
}

// Plugins returns the registered plugin names in registration order.
func (r *Registry) Plugins() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)

	return names
}

// AddHook appends a hook to an action and event.
func (r *Registry) AddHook(action Action, event Event, name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := point{action: action, event: event}
	r.hooks[p] = append(r.hooks[p], hook{name: name, fn: fn})
}

// Run runs the hooks of an action and event sequentially in registration
// order and stops at the first failure. Cancellation of ctx is checked
// between hooks.
func (r *Registry) Run(ctx context.Context, action Action, event Event, hc *Context) error {
	r.mu.RLock()
	hooks := r.hooks[point{action: action, event: event}]
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.invoke(ctx, action, event, h, hc); err != nil {
			return fmt.Errorf("hook %s failed: %w", h.name, err)
		}
	}

	return nil
}

func (r *Registry) invoke(ctx context.Context, action Action, event Event, h hook, hc *Context) (err error) {
	start := time.Now()
	status := metrics.StatusSuccess

	defer func() {
		if rec := recover(); rec != nil {
			r.log.WithFields(logrus.Fields{
				"error":  fmt.Sprintf("%v", rec),
				"stack":  string(debug.Stack()),
				"hook":   h.name,
				"action": action,
				"event":  event,
			}).Error("Panic recovered")

			status = metrics.StatusPanic
			err = fmt.Errorf("%w: %v", ErrHookPanicked, rec)
		} else if err != nil {
			status = metrics.StatusError
		}

		metrics.ObserveHook(string(action), string(event), h.name, status, time.Since(start))
	}()

	return h.fn(ctx, hc)
}
