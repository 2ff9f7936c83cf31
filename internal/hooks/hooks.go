package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/logger"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".inkbook.hooks.yml"

// LoadConfig loads the hooks configuration from the working directory.
// Returns nil if the config file doesn't exist (hooks are optional).
// Returns an error only if the file exists but cannot be parsed.
func LoadConfig(workDir string) (*Config, error) {
	configPath := filepath.Join(workDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No hooks config found at %s", configPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d, on_submit: %d)", configPath, cfg.Version, len(cfg.Hooks.OnSubmit))
	return &cfg, nil
}

// Variables holds the booking values that can be expanded in hook commands.
type Variables struct {
	Reference string
	Artist    string
	Date      string
	Time      string
	Name      string
	Email     string
	Phone     string
}

// VariablesFromSummary extracts hook variables from a submitted booking.
func VariablesFromSummary(s booking.Summary) Variables {
	return Variables{
		Reference: s.Reference,
		Artist:    s.ArtistName,
		Date:      s.Date,
		Time:      s.Time,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
	}
}

func (v Variables) pairs() [][2]string {
	return [][2]string{
		{"reference", v.Reference},
		{"artist", v.Artist},
		{"date", v.Date},
		{"time", v.Time},
		{"name", v.Name},
		{"email", v.Email},
		{"phone", v.Phone},
	}
}

// run executes one hook and reports failures and timeouts as errors.
// Template variables in the command ({{reference}}, {{name}}, ...) are expanded
// shell-quoted before execution and also exported as INKBOOK_* variables.
func run(ctx context.Context, hook *HookConfig, workDir string, vars Variables) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command, vars)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.WaitDelay = time.Second
	cmd.Env = append(os.Environ(), environment(vars)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if execCtx.Err() == context.DeadlineExceeded {
		logger.Warn("Hook command timed out after %ds: %s", timeout, command)
		return stdout.String(), fmt.Errorf("hook timed out after %ds", timeout)
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		logger.Debug("Hook stderr: %s", stderr.String())
		output += "\n[stderr]\n" + stderr.String()
	}
	if err != nil {
		logger.Warn("Hook command failed: %v", err)
		return output, fmt.Errorf("hook command failed: %w", err)
	}

	logger.Debug("Hook executed successfully, output length: %d bytes", len(output))
	return output, nil
}

// expandVariables replaces {{variable}} placeholders in the command string.
// Values come from the customer, so each is single-quoted for the shell and
// inserted text is never scanned for further placeholders.
func expandVariables(command string, vars Variables) string {
	pairs := vars.pairs()
	oldnew := make([]string, 0, len(pairs)*2)
	for _, kv := range pairs {
		oldnew = append(oldnew, "{{"+kv[0]+"}}", shellQuote(kv[1]))
	}
	return strings.NewReplacer(oldnew...).Replace(command)
}

func environment(vars Variables) []string {
	env := make([]string, 0, 7)
	for _, kv := range vars.pairs() {
		env = append(env, "INKBOOK_"+strings.ToUpper(kv[0])+"="+kv[1])
	}
	return env
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Submitter runs the on_submit hooks for every submitted booking. It
// satisfies wizard.Submitter.
type Submitter struct {
	cfg     *Config
	workDir string

	mu     sync.Mutex
	output string
}

// NewSubmitter returns a submitter for cfg; a nil cfg runs nothing.
func NewSubmitter(cfg *Config, workDir string) *Submitter {
	return &Submitter{cfg: cfg, workDir: workDir}
}

// Submit runs every on_submit hook. Failures are joined and returned; later
// hooks still run.
func (s *Submitter) Submit(ctx context.Context, summary booking.Summary) error {
	if s.cfg == nil || len(s.cfg.Hooks.OnSubmit) == 0 {
		return nil
	}

	vars := VariablesFromSummary(summary)
	var errs []error
	var piped []string
	for i, hook := range s.cfg.Hooks.OnSubmit {
		if hook == nil {
			continue
		}
		output, err := run(ctx, hook, s.workDir, vars)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("on_submit hook %d: %w", i+1, err))
			continue
		}
		if hook.PipeOutput && output != "" {
			piped = append(piped, output)
		}
	}

	s.mu.Lock()
	s.output = strings.Join(piped, "\n")
	s.mu.Unlock()

	return errors.Join(errs...)
}

// Output returns the piped output of the most recent Submit.
func (s *Submitter) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}
