// Package grader provides a JetStream processor that grades OpenAPI
// contract documents. It consumes GradeRequest messages, runs the grading
// pipeline, publishes a GradeResult, and optionally persists the run.
package grader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/apigrade/profile"
	"github.com/c360studio/apigrade/storage"
)

// Component implements the grader processor.
type Component struct {
	name       string
	config     Config
	natsClient *natsclient.Client
	logger     *slog.Logger
	executor   *Executor
	decoder    *message.Decoder

	// Run persistence, nil when store_runs is off.
	store *storage.Store

	// JetStream consumer state.
	consumer jetstream.Consumer

	// Lifecycle.
	running   bool
	startTime time.Time
	mu        sync.RWMutex
	cancel    context.CancelFunc

	// Metrics.
	requestsProcessed atomic.Int64
	gradesPassed      atomic.Int64
	gradesFailed      atomic.Int64
	errorsCount       atomic.Int64
	lastActivityMu    sync.RWMutex
	lastActivity      time.Time
}

// NewComponent constructs a grader Component from raw JSON config and
// semstreams dependencies. The profile catalog starts from the seeded
// defaults; overrides arrive via the profile watcher or the API.
func NewComponent(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	var config Config
	if err := json.Unmarshal(rawConfig, &config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Apply defaults for any unset fields.
	defaults := DefaultConfig()
	if config.StreamName == "" {
		config.StreamName = defaults.StreamName
	}
	if config.ConsumerName == "" {
		config.ConsumerName = defaults.ConsumerName
	}
	if config.Ports == nil {
		config.Ports = defaults.Ports
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if deps.PayloadRegistry == nil {
		return nil, fmt.Errorf("payload registry required")
	}

	catalog, err := profile.NewCatalog(profile.NewMemoryStore())
	if err != nil {
		return nil, fmt.Errorf("seed profile catalog: %w", err)
	}

	return &Component{
		name:       "grader",
		config:     config,
		natsClient: deps.NATSClient,
		logger:     deps.GetLogger(),
		executor:   NewExecutor(catalog, config.DefaultProfile),
		decoder:    message.NewDecoder(deps.PayloadRegistry),
	}, nil
}

// Initialize prepares the component for startup.
func (c *Component) Initialize() error {
	c.logger.Debug("Initialized grader",
		"stream", c.config.StreamName,
		"consumer", c.config.ConsumerName,
		"default_profile", c.config.DefaultProfile)
	return nil
}

// Start begins consuming GradeRequest messages from JetStream.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("component already running")
	}
	if c.natsClient == nil {
		c.mu.Unlock()
		return fmt.Errorf("NATS client required")
	}

	c.running = true
	c.startTime = time.Now()

	subCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	js, err := c.natsClient.JetStream()
	if err != nil {
		c.rollbackStart(cancel)
		return fmt.Errorf("get jetstream: %w", err)
	}

	stream, err := js.Stream(subCtx, c.config.StreamName)
	if err != nil {
		c.rollbackStart(cancel)
		return fmt.Errorf("get stream %s: %w", c.config.StreamName, err)
	}

	if c.config.StoreRuns {
		store, err := storage.NewStore(subCtx, js)
		if err != nil {
			c.rollbackStart(cancel)
			return fmt.Errorf("open run storage: %w", err)
		}
		c.store = store
	}

	if c.config.PersistProfiles {
		profStore, err := storage.NewKVProfileStore(subCtx, js)
		if err != nil {
			c.rollbackStart(cancel)
			return fmt.Errorf("open profile storage: %w", err)
		}
		catalog, err := profile.NewCatalog(profStore)
		if err != nil {
			c.rollbackStart(cancel)
			return fmt.Errorf("seed persisted catalog: %w", err)
		}
		c.executor = NewExecutor(catalog, c.config.DefaultProfile)
	}

	requestSubject := "grading.request.grader"
	if c.config.Ports != nil && len(c.config.Ports.Inputs) > 0 {
		requestSubject = c.config.Ports.Inputs[0].Subject
	}

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       c.config.ConsumerName,
		FilterSubject: requestSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       60 * time.Second,
		MaxDeliver:    3,
	}

	consumer, err := stream.CreateOrUpdateConsumer(subCtx, consumerConfig)
	if err != nil {
		c.rollbackStart(cancel)
		return fmt.Errorf("create consumer: %w", err)
	}
	c.consumer = consumer

	go c.consumeLoop(subCtx)

	c.logger.Info("grader started",
		"stream", c.config.StreamName,
		"consumer", c.config.ConsumerName,
		"subject", requestSubject)

	return nil
}

func (c *Component) rollbackStart(cancel context.CancelFunc) {
	c.mu.Lock()
	c.running = false
	c.cancel = nil
	c.mu.Unlock()
	cancel()
}

// consumeLoop fetches messages from the JetStream consumer in a tight loop
// until the context is cancelled.
func (c *Component) consumeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := c.consumer.Fetch(1, jetstream.FetchMaxWait(5*time.Second))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Debug("Fetch timeout or error", "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			c.handleMessage(ctx, msg)
		}

		if msgs.Error() != nil && msgs.Error() != context.DeadlineExceeded {
			c.logger.Warn("Message fetch error", "error", msgs.Error())
		}
	}
}

// handleMessage processes a single GradeRequest message.
func (c *Component) handleMessage(ctx context.Context, msg jetstream.Msg) {
	c.requestsProcessed.Add(1)
	c.updateLastActivity()

	baseMsg, err := c.decoder.Decode(msg.Data())
	if err != nil {
		c.errorsCount.Add(1)
		c.logger.Error("Failed to decode message", "error", err)
		if nakErr := msg.Nak(); nakErr != nil {
			c.logger.Warn("Failed to NAK message", "error", nakErr)
		}
		return
	}

	req, ok := baseMsg.Payload().(*GradeRequest)
	if !ok {
		c.errorsCount.Add(1)
		c.logger.Error("Unexpected payload type", "type", baseMsg.Type().String())
		// ACK; a wrong payload type will not improve on redelivery.
		if ackErr := msg.Ack(); ackErr != nil {
			c.logger.Warn("Failed to ACK message", "error", ackErr)
		}
		return
	}

	if err := req.Validate(); err != nil {
		c.logger.Error("Invalid grading request", "error", err)
		// ACK invalid messages, they will not succeed on retry.
		if ackErr := msg.Ack(); ackErr != nil {
			c.logger.Warn("Failed to ACK invalid message", "error", ackErr)
		}
		return
	}

	c.logger.Info("Processing grading request",
		"request_id", req.RequestID,
		"spec_bytes", len(req.Spec),
		"profile_id", req.ProfileID)

	result, err := c.executor.Execute(req)
	if err != nil {
		c.errorsCount.Add(1)
		c.logger.Error("Executor error",
			"request_id", req.RequestID,
			"error", err)

		// An unparseable spec or unknown profile will not improve on
		// redelivery; publish the failure and ACK.
		failure := &GradeResult{RequestID: req.RequestID, Error: err.Error()}
		if pubErr := c.publishResult(ctx, failure); pubErr != nil {
			c.logger.Warn("Failed to publish failure result", "error", pubErr)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			c.logger.Warn("Failed to ACK message", "error", ackErr)
		}
		return
	}

	if result.Passed {
		c.gradesPassed.Add(1)
	} else {
		c.gradesFailed.Add(1)
	}

	if c.store != nil {
		if err := c.persistRun(ctx, req, result); err != nil {
			c.logger.Warn("Failed to persist grading run",
				"request_id", req.RequestID,
				"error", err)
		}
	}

	if err := c.publishResult(ctx, result); err != nil {
		c.logger.Warn("Failed to publish grading result",
			"request_id", req.RequestID,
			"error", err)
	}

	if ackErr := msg.Ack(); ackErr != nil {
		c.logger.Warn("Failed to ACK message", "error", ackErr)
	}

	c.logger.Info("Grading completed",
		"request_id", req.RequestID,
		"api_id", result.APIID,
		"profile", result.ProfileID,
		"score", result.Score,
		"passed", result.Passed,
		"findings", len(result.Findings))
}

// persistRun stores the grading run in the runs bucket.
func (c *Component) persistRun(ctx context.Context, req *GradeRequest, result *GradeResult) error {
	run := &storage.GradingRun{
		RequestID:       result.RequestID,
		APIID:           result.APIID,
		SpecPath:        req.SpecPath,
		ProfileID:       result.ProfileID,
		Findings:        result.Findings,
		AutoFailReasons: result.AutoFailReasons,
		Detection:       result.Detection,
		Matrix:          result.Matrix,
		Score:           result.AdaptiveScore,
		Passed:          result.Passed,
	}
	_, err := c.store.CreateRun(ctx, run)
	return err
}

// publishResult publishes a GradeResult to JetStream.
// Subject: grading.result.grader.<request_id>
func (c *Component) publishResult(ctx context.Context, result *GradeResult) error {
	baseMsg := message.NewBaseMessage(result.Schema(), result, "grader")

	data, err := json.Marshal(baseMsg)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	js, err := c.natsClient.JetStream()
	if err != nil {
		return fmt.Errorf("get jetstream: %w", err)
	}

	subject := fmt.Sprintf("grading.result.grader.%s", result.RequestID)
	if _, err := js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Stop gracefully stops the component.
func (c *Component) Stop(_ time.Duration) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}

	cancel := c.cancel
	c.running = false
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	c.logger.Info("grader stopped",
		"requests_processed", c.requestsProcessed.Load(),
		"grades_passed", c.gradesPassed.Load(),
		"grades_failed", c.gradesFailed.Load(),
		"errors", c.errorsCount.Load())

	return nil
}

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        "grader",
		Type:        "processor",
		Description: "Grades OpenAPI contract documents against the style guide",
		Version:     "0.1.0",
	}
}

// InputPorts returns the configured input port definitions.
func (c *Component) InputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}
	ports := make([]component.Port, len(c.config.Ports.Inputs))
	for i, def := range c.config.Ports.Inputs {
		ports[i] = component.Port{
			Name:        def.Name,
			Direction:   component.DirectionInput,
			Required:    def.Required,
			Description: def.Description,
			Config:      component.NATSPort{Subject: def.Subject},
		}
	}
	return ports
}

// OutputPorts returns the configured output port definitions.
func (c *Component) OutputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}
	ports := make([]component.Port, len(c.config.Ports.Outputs))
	for i, def := range c.config.Ports.Outputs {
		ports[i] = component.Port{
			Name:        def.Name,
			Direction:   component.DirectionOutput,
			Required:    def.Required,
			Description: def.Description,
			Config:      component.NATSPort{Subject: def.Subject},
		}
	}
	return ports
}

// ConfigSchema returns the configuration schema.
func (c *Component) ConfigSchema() component.ConfigSchema {
	return graderSchema
}

// Health returns the current health status.
func (c *Component) Health() component.HealthStatus {
	c.mu.RLock()
	running := c.running
	startTime := c.startTime
	c.mu.RUnlock()

	status := "stopped"
	if running {
		status = "running"
	}

	return component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(c.errorsCount.Load()),
		Uptime:     time.Since(startTime),
		Status:     status,
	}
}

// DataFlow returns current data flow metrics.
func (c *Component) DataFlow() component.FlowMetrics {
	return component.FlowMetrics{
		MessagesPerSecond: 0,
		BytesPerSecond:    0,
		ErrorRate:         0,
		LastActivity:      c.getLastActivity(),
	}
}

func (c *Component) updateLastActivity() {
	c.lastActivityMu.Lock()
	c.lastActivity = time.Now()
	c.lastActivityMu.Unlock()
}

func (c *Component) getLastActivity() time.Time {
	c.lastActivityMu.RLock()
	defer c.lastActivityMu.RUnlock()
	return c.lastActivity
}
