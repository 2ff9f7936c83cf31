package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mark3labs/inkbook/internal/catalog"
	"github.com/mark3labs/inkbook/internal/config"
	"github.com/mark3labs/inkbook/internal/hooks"
	"github.com/mark3labs/inkbook/internal/journal"
	"github.com/mark3labs/inkbook/internal/logger"
	"github.com/mark3labs/inkbook/internal/metrics"
	"github.com/mark3labs/inkbook/internal/nats"
	"github.com/mark3labs/inkbook/internal/wizard"
	natsserver "github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
)

// Config holds configuration for the orchestrator.
type Config struct {
	Settings  *config.Config   // Loaded inkbook configuration
	Catalog   *catalog.Catalog // Studio catalog the wizard offers
	Scheduler wizard.Scheduler // Timer source for the engine (nil = real timers)
	Metrics   *metrics.Metrics // Collectors (nil = fresh registry)
	DataDir   string           // JetStream metadata directory ("" = temp dir)

	// WrapSubmitter, when set, wraps the combined submitter before it is
	// handed to the engine. The TUI uses it to move hooks off its loop.
	WrapSubmitter func(wizard.Submitter) wizard.Submitter
}

// Orchestrator owns the embedded NATS journal, the submit hooks, the metrics
// and the wizard engine for one inkbook process.
type Orchestrator struct {
	cfg      Config
	ns       *natsserver.Server // Embedded NATS server
	nc       *natsgo.Conn       // In-process NATS connection
	store    *journal.Store     // Booking journal
	recorder *journal.Recorder  // Journals this process's wizard session
	hooks    *hooks.Submitter   // on_submit hooks
	metrics  *metrics.Metrics
	engine   *wizard.Engine
	ctx      context.Context    // Context for cancellation
	cancel   context.CancelFunc // Cancel function

	mu      sync.Mutex
	stopped bool // Track if Stop() was already called
}

// New creates a new Orchestrator with the given configuration.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Settings == nil {
		cfg.Settings = config.Defaults()
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Catalog == nil {
		c, err := catalog.Load(cfg.Settings.CatalogPath)
		if err != nil {
			return nil, err
		}
		cfg.Catalog = c
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New(nil)
	}

	// Create context for lifecycle management
	ctx, cancel := context.WithCancel(context.Background())

	return &Orchestrator{
		cfg:     cfg,
		metrics: cfg.Metrics,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start brings up the journal and builds the wizard engine.
func (o *Orchestrator) Start() error {
	logger.Info("Starting inkbook for %s", o.Studio())

	if err := o.startNATS(); err != nil {
		return err
	}
	logger.Debug("Journal stream ready")

	hookCfg, err := hooks.LoadConfig(o.cfg.Settings.HooksDir)
	if err != nil {
		_ = o.shutdownNATS()
		return err
	}
	o.hooks = hooks.NewSubmitter(hookCfg, o.cfg.Settings.HooksDir)

	o.recorder = journal.NewRecorder(o.store, journal.NewSession())
	o.engine = wizard.New(o.cfg.Catalog, o.engineOptions()...)

	logger.Info("Booking session %s ready", o.recorder.Session())
	return nil
}

func (o *Orchestrator) engineOptions() []wizard.Option {
	var submitter wizard.Submitter = o.metrics.Submitter(wizard.MultiSubmitter{o.recorder, o.hooks})
	if o.cfg.WrapSubmitter != nil {
		submitter = o.cfg.WrapSubmitter(submitter)
	}

	opts := []wizard.Option{
		wizard.WithContext(o.ctx),
		wizard.WithAutoAdvanceDelay(o.cfg.Settings.AutoAdvanceDelay),
		wizard.WithSubmitDelay(o.cfg.Settings.SubmitDelay),
		wizard.WithMaxReferenceBytes(o.cfg.Settings.MaxReferenceBytes),
		wizard.WithObserver(o.recorder),
		wizard.WithObserver(o.metrics),
		wizard.WithSubmitter(submitter),
	}
	if o.cfg.Scheduler != nil {
		opts = append(opts, wizard.WithScheduler(o.cfg.Scheduler))
	}
	return opts
}

// startNATS starts the embedded server and prepares the journal stream.
func (o *Orchestrator) startNATS() error {
	dataDir := o.cfg.DataDir
	if dataDir != "" {
		dataDir = filepath.Join(dataDir, "nats")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create NATS data directory: %w", err)
		}
	}

	ns, err := nats.StartEmbeddedNATS(dataDir)
	if err != nil {
		return fmt.Errorf("failed to start NATS server: %w", err)
	}
	o.ns = ns

	nc, err := nats.ConnectInProcess(ns)
	if err != nil {
		// Failed to connect to server we just started - shut it down
		_ = o.shutdownNATS()
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	o.nc = nc

	js, err := nats.CreateJetStream(nc)
	if err != nil {
		_ = o.shutdownNATS()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	stream, err := nats.SetupStream(o.ctx, js)
	if err != nil {
		_ = o.shutdownNATS()
		return fmt.Errorf("failed to setup stream: %w", err)
	}

	o.store = journal.NewStore(js, stream)
	return nil
}

func (o *Orchestrator) shutdownNATS() error {
	err := nats.Shutdown(o.nc, o.ns)
	o.nc = nil
	o.ns = nil
	return err
}

// Engine returns the wizard engine. It is nil until Start succeeds.
func (o *Orchestrator) Engine() *wizard.Engine {
	return o.engine
}

// Store returns the booking journal.
func (o *Orchestrator) Store() *journal.Store {
	return o.store
}

// Session returns the journal session ID of this process's wizard.
func (o *Orchestrator) Session() string {
	if o.recorder == nil {
		return ""
	}
	return o.recorder.Session()
}

// Metrics returns the collectors the engine reports to.
func (o *Orchestrator) Metrics() *metrics.Metrics {
	return o.metrics
}

// HookOutput returns the piped output of the last on_submit run.
func (o *Orchestrator) HookOutput() string {
	if o.hooks == nil {
		return ""
	}
	return o.hooks.Output()
}

// Context is cancelled when the orchestrator stops.
func (o *Orchestrator) Context() context.Context {
	return o.ctx
}

// Studio returns the configured studio name, falling back to the catalog.
func (o *Orchestrator) Studio() string {
	if o.cfg.Settings.Studio != "" {
		return o.cfg.Settings.Studio
	}
	return o.cfg.Catalog.Studio
}

// Stop shuts the journal down. The host closes the engine first so the
// closed transition is still journaled. Multiple calls to Stop() are safe
// and idempotent.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return nil
	}
	o.stopped = true

	logger.Info("Stopping inkbook")

	var errs []error
	// Cancel context to signal all goroutines to stop
	o.cancel()

	if o.ns != nil || o.nc != nil {
		logger.Debug("Shutting down NATS")
		if err := o.shutdownNATS(); err != nil {
			logger.Error("NATS shutdown failed: %v", err)
			errs = append(errs, fmt.Errorf("NATS shutdown failed: %w", err))
		}
	}

	logger.Info("inkbook stopped")
	return errors.Join(errs...)
}
