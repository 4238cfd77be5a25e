package grader

import (
	"fmt"
	"reflect"

	"github.com/c360studio/semstreams/component"
)

// graderSchema defines the configuration schema.
var graderSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// Config holds configuration for the grader component.
type Config struct {
	// StreamName is the JetStream stream for consuming requests and publishing results.
	StreamName string `json:"stream_name" schema:"type:string,description:JetStream stream for grading requests,category:basic,default:GRADING"`

	// ConsumerName is the durable consumer name for request consumption.
	ConsumerName string `json:"consumer_name" schema:"type:string,description:Durable consumer name for request consumption,category:basic,default:grader"`

	// DefaultProfile pins a grading profile for requests that carry no
	// profile_id. Empty means use the detected archetype's default profile.
	DefaultProfile string `json:"default_profile" schema:"type:string,description:Profile id used when a request carries none,category:basic,default:"`

	// StoreRuns enables persisting every grading run to the runs KV bucket.
	StoreRuns bool `json:"store_runs" schema:"type:bool,description:Persist grading runs to KV storage,category:advanced,default:true"`

	// PersistProfiles backs the profile catalog with the profiles KV bucket
	// instead of process memory, so rule overrides survive restarts.
	PersistProfiles bool `json:"persist_profiles" schema:"type:bool,description:Back the profile catalog with KV storage,category:advanced,default:true"`

	// Ports contains input/output port definitions.
	Ports *component.PortConfig `json:"ports,omitempty" schema:"type:ports,description:Input/output port definitions,category:basic"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		StreamName:      "GRADING",
		ConsumerName:    "grader",
		StoreRuns:       true,
		PersistProfiles: true,
		Ports: &component.PortConfig{
			Inputs: []component.PortDefinition{
				{
					Name:        "grade-requests",
					Type:        "jetstream",
					Subject:     "grading.request.grader",
					StreamName:  "GRADING",
					Description: "Receive contract grading requests",
					Required:    true,
				},
			},
			Outputs: []component.PortDefinition{
				{
					Name:        "grade-results",
					Type:        "nats",
					Subject:     "grading.result.grader.>",
					Description: "Publish contract grading results",
					Required:    false,
				},
			},
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.StreamName == "" {
		return fmt.Errorf("stream_name is required")
	}
	if c.ConsumerName == "" {
		return fmt.Errorf("consumer_name is required")
	}
	return nil
}
