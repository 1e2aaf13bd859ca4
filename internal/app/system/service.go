// Package system provides the lifecycle manager every long-running
// component of the orchestration server (the HTTP listener, the optional
// cache warmer) registers with, so main can Start/Stop them in one
// deterministic place.
package system

import "context"

// Service is a lifecycle-managed component: named, startable, stoppable.
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Layer describes which part of the orchestration pipeline a service
// belongs to, for descriptor ordering only; it has no runtime effect.
type Layer string

const (
	LayerIngress Layer = "ingress"
	LayerCache   Layer = "cache"
	LayerEngine  Layer = "engine"
)

// Descriptor advertises a service's placement for diagnostics.
type Descriptor struct {
	Name  string
	Layer Layer
}

// DescriptorProvider is implemented by services that want to advertise a Descriptor.
type DescriptorProvider interface {
	Descriptor() Descriptor
}
