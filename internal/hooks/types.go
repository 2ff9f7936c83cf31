package hooks

// Config is the top-level configuration for hooks loaded from .inkbook.hooks.yml.
type Config struct {
	Version int         `yaml:"version"`
	Hooks   HooksConfig `yaml:"hooks"`
}

// HooksConfig contains all hook configurations.
type HooksConfig struct {
	// OnSubmit runs, in order, once a booking reaches the submitted step.
	OnSubmit []*HookConfig `yaml:"on_submit"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command    string `yaml:"command"`
	Timeout    int    `yaml:"timeout"`     // seconds, default 30
	PipeOutput bool   `yaml:"pipe_output"` // show stdout on the confirmation screen
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30
