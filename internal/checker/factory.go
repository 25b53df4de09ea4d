package checker

import (
	"fmt"
	"sort"

	"creativecheck/internal/config"
	"creativecheck/internal/port"
)

// ProviderFactory is a function that creates a VisionClient from a checker config.
type ProviderFactory func(cfg *config.CheckerConfig) (port.VisionClient, error)

// registry of vision provider factories, populated at startup via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a vision provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewClient creates a VisionClient from a checker config using the registered factory.
func NewClient(cfg *config.CheckerConfig) (port.VisionClient, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown vision provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// Providers returns the registered provider names in sorted order.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClientFactory builds a VisionClient for the given API key.
type ClientFactory func(apiKey string) (port.VisionClient, error)

// NewClientFactory returns a ClientFactory that applies each key to a copy of cfg.
func NewClientFactory(cfg *config.CheckerConfig) ClientFactory {
	return func(apiKey string) (port.VisionClient, error) {
		return NewClient(cfg.WithAPIKey(apiKey))
	}
}
