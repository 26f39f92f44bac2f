// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

// Package deps provides the dependency injection container used to assemble memdb.
package deps

import (
	"fmt"
	"sort"
	"sync"

	"github.com/innovationmech/memdb/internal/memdb/interfaces"
)

// ServiceFactory creates a service instance.
type ServiceFactory func() (interface{}, error)

// Service names registered by the application factory.
const (
	ServiceConfigManager   = "config_manager"
	ServiceLogger          = "logger"
	ServiceStore           = "store"
	ServiceCommandRegistry = "command_registry"
	ServicePluginManager   = "plugin_manager"
)

// Container represents the dependency injection container.
type Container struct {
	services map[string]*serviceRegistration
	created  []string
	mu       sync.Mutex
	closed   bool
}

// serviceRegistration holds service factory and metadata.
type serviceRegistration struct {
	factory  ServiceFactory
	instance interface{}
	done     bool
}

// NewContainer creates a new dependency injection container.
func NewContainer() *Container {
	return &Container{
		services: make(map[string]*serviceRegistration),
	}
}

// RegisterSingleton registers a service created once, on first lookup.
func (c *Container) RegisterSingleton(name string, factory ServiceFactory) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return interfaces.NewInternalError("container is closed", nil)
	}
	if factory == nil {
		return interfaces.NewInternalError(fmt.Sprintf("service %s has no factory", name), nil)
	}
	if _, exists := c.services[name]; exists {
		return interfaces.NewInternalError(fmt.Sprintf("service %s already registered", name), nil)
	}

	c.services[name] = &serviceRegistration{factory: factory}
	return nil
}

// RegisterInstance registers an already built singleton.
func (c *Container) RegisterInstance(name string, instance interface{}) error {
	if err := c.RegisterSingleton(name, func() (interface{}, error) { return instance, nil }); err != nil {
		return err
	}
	_, err := c.GetService(name)
	return err
}

// GetService retrieves a service instance by name. Factories may look up
// other services; the container lock is not held while they run.
func (c *Container) GetService(name string) (interface{}, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, interfaces.NewInternalError("container is closed", nil)
	}
	registration, exists := c.services[name]
	if !exists {
		c.mu.Unlock()
		return nil, interfaces.NewInternalError(fmt.Sprintf("service %s not found", name), nil)
	}
	if registration.done {
		instance := registration.instance
		c.mu.Unlock()
		return instance, nil
	}
	c.mu.Unlock()

	instance, err := registration.factory()
	if err != nil {
		return nil, interfaces.NewInternalError(fmt.Sprintf("failed to create service %s", name), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if registration.done {
		return registration.instance, nil
	}
	registration.instance = instance
	registration.done = true
	c.created = append(c.created, name)
	return instance, nil
}

// Resolve looks up a service and asserts its type.
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	instance, err := c.GetService(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, interfaces.NewInternalError(fmt.Sprintf("service %s has type %T", name, instance), nil)
	}
	return typed, nil
}

// HasService checks if a service is registered with the container.
func (c *Container) HasService(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.services[name]
	return exists
}

// ListServices returns the registered service names, sorted.
func (c *Container) ListServices() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	services := make([]string, 0, len(c.services))
	for name := range c.services {
		services = append(services, name)
	}
	sort.Strings(services)
	return services
}

// Close closes created singletons that implement Close() error, most
// recently created first, and returns the first error encountered.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	var firstErr error
	for i := len(c.created) - 1; i >= 0; i-- {
		name := c.created[i]
		closer, ok := c.services[name].instance.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = interfaces.NewInternalError(fmt.Sprintf("close service %s", name), err)
		}
	}

	c.services = nil
	c.created = nil
	c.closed = true
	return firstErr
}

// IsClosed returns true if the container has been closed.
func (c *Container) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
