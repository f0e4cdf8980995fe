package batchchunker

import (
	"fmt"

	"github.com/c360studio/semstreams/component"
)

// RegistryInterface defines the minimal interface needed for registration.
type RegistryInterface interface {
	RegisterWithConfig(component.RegistrationConfig) error
}

// Register registers the batch-chunker processor component with the given registry.
func Register(registry RegistryInterface) error {
	if registry == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "batch-chunker",
		Factory:     NewComponent,
		Schema:      batchChunkerSchema,
		Type:        "processor",
		Protocol:    "nats",
		Domain:      "chunking",
		Description: "Document batch aggregator producing chunk records",
		Version:     "0.1.0",
	})
}
