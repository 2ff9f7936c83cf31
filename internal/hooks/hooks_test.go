package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVars = Variables{
	Reference: "jane-doe-1a2b3c4d",
	Artist:    "Mira Vance",
	Date:      "2026-11-03",
	Time:      "13:00",
	Name:      "Jane Doe",
	Email:     "jane@example.com",
	Phone:     "555 010 2030",
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("on_submit hooks", func(t *testing.T) {
		dir := t.TempDir()
		content := "version: 1\nhooks:\n  on_submit:\n    - command: echo {{reference}}\n      pipe_output: true\n    - command: notify\n      timeout: 5\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		require.Len(t, cfg.Hooks.OnSubmit, 2)
		assert.True(t, cfg.Hooks.OnSubmit[0].PipeOutput)
		assert.Equal(t, 5, cfg.Hooks.OnSubmit[1].Timeout)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("hooks: [\n"), 0644))
		_, err := LoadConfig(dir)
		assert.Error(t, err)
	})
}

func TestExpandVariables(t *testing.T) {
	got := expandVariables("echo {{name}} {{date}} {{time}}", testVars)
	assert.Equal(t, "echo 'Jane Doe' '2026-11-03' '13:00'", got)

	// Quotes in customer input stay inside one shell word.
	got = expandVariables("echo {{name}}", Variables{Name: "O'Brien; rm -rf /"})
	assert.Equal(t, `echo 'O'\''Brien; rm -rf /'`, got)
}

func TestExpandVariables_InsertedValuesAreNotExpanded(t *testing.T) {
	vars := Variables{Name: "{{email}}", Email: "x; touch pwned; echo"}

	got := expandVariables("echo {{name}} {{email}}", vars)
	assert.Equal(t, `echo '{{email}}' 'x; touch pwned; echo'`, got)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	workDir := t.TempDir()

	tests := []struct {
		name    string
		hook    *HookConfig
		want    string
		wantErr string
	}{
		{"nil hook", nil, "", ""},
		{"placeholder", &HookConfig{Command: "echo {{reference}}"}, "jane-doe-1a2b3c4d\n", ""},
		{"environment", &HookConfig{Command: `echo "$INKBOOK_EMAIL"`}, "jane@example.com\n", ""},
		{"spaces stay in one word", &HookConfig{Command: "echo {{phone}}"}, "555 010 2030\n", ""},
		{"failure", &HookConfig{Command: "echo oops >&2; exit 3"}, "\n[stderr]\noops\n", "hook command failed"},
		{"timeout", &HookConfig{Command: "sleep 5", Timeout: 1}, "", "hook timed out after 1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(ctx, tt.hook, workDir, testVars)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, output)
		})
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := run(ctx, &HookConfig{Command: "echo test"}, t.TempDir(), testVars)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubmitter(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	out := filepath.Join(dir, "bookings.txt")

	summary := booking.Summary{
		Reference:  "jane-doe-1a2b3c4d",
		ArtistName: "Mira Vance",
		Date:       "2026-11-03",
		Time:       "13:00",
		Name:       "Jane Doe",
	}

	t.Run("runs every hook and keeps piped output", func(t *testing.T) {
		sub := NewSubmitter(&Config{Hooks: HooksConfig{OnSubmit: []*HookConfig{
			{Command: "echo {{reference}} {{artist}} >> " + out},
			{Command: "echo 'Booked with {{artist}}'", PipeOutput: true},
		}}}, dir)

		require.NoError(t, sub.Submit(ctx, summary))
		assert.Equal(t, "Booked with Mira Vance\n", sub.Output())

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "jane-doe-1a2b3c4d Mira Vance", strings.TrimSpace(string(data)))
	})

	t.Run("failures are reported but later hooks run", func(t *testing.T) {
		marker := filepath.Join(dir, "ran")
		sub := NewSubmitter(&Config{Hooks: HooksConfig{OnSubmit: []*HookConfig{
			{Command: "exit 1"},
			{Command: "touch " + marker},
		}}}, dir)

		err := sub.Submit(ctx, summary)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "on_submit hook 1")
		assert.FileExists(t, marker)
	})

	t.Run("customer text cannot smuggle shell code", func(t *testing.T) {
		workDir := t.TempDir()
		sub := NewSubmitter(&Config{Hooks: HooksConfig{OnSubmit: []*HookConfig{
			{Command: "echo {{name}}", PipeOutput: true},
		}}}, workDir)

		nested := summary
		nested.Name = "{{email}}"
		nested.Email = "x; touch pwned; echo"
		require.NoError(t, sub.Submit(ctx, nested))

		assert.Equal(t, "{{email}}\n", sub.Output())
		assert.NoFileExists(t, filepath.Join(workDir, "pwned"))
	})

	t.Run("nil config is a no-op", func(t *testing.T) {
		assert.NoError(t, NewSubmitter(nil, dir).Submit(ctx, summary))
	})
}
