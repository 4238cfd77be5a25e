package grader

import (
	"fmt"

	"github.com/c360studio/semstreams/component"
)

// RegistryInterface defines the minimal interface required for registration.
type RegistryInterface interface {
	RegisterWithConfig(component.RegistrationConfig) error
}

// Register registers the grader component with the given registry.
func Register(registry RegistryInterface) error {
	if registry == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "grader",
		Factory:     NewComponent,
		Schema:      graderSchema,
		Type:        "processor",
		Protocol:    "grading",
		Domain:      "apigrade",
		Description: "Grades OpenAPI contract documents against the style guide",
		Version:     "0.1.0",
	})
}
