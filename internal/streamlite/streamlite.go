// Package streamlite connects the API to catalog change notifications.
package streamlite

import (
	"sync"
	"time"
)

// Connector is a long-running source of catalog changes
type Connector interface {
	Name() string
	Start() error
	Stop() error
}

// BaseConnector tracks the name and run state shared by connectors
type BaseConnector struct {
	name string

	mu        sync.Mutex
	startedAt time.Time
}

// NewBaseConnector creates a new base connector
func NewBaseConnector(name string) *BaseConnector {
	return &BaseConnector{
		name: name,
	}
}

// Name returns the connector name
func (c *BaseConnector) Name() string {
	return c.name
}

// Start marks the connector as started
func (c *BaseConnector) Start() error {
	c.mu.Lock()
	c.startedAt = time.Now()
	c.mu.Unlock()
	return nil
}

// Stop marks the connector as stopped
func (c *BaseConnector) Stop() error {
	c.mu.Lock()
	c.startedAt = time.Time{}
	c.mu.Unlock()
	return nil
}

// Running reports whether Start was called without a later Stop
func (c *BaseConnector) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.startedAt.IsZero()
}

// Uptime is the time since Start, or zero when stopped
func (c *BaseConnector) Uptime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startedAt.IsZero() {
		return 0
	}
	return time.Since(c.startedAt)
}
