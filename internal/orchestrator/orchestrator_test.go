package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/config"
	"github.com/mark3labs/inkbook/internal/hooks"
	"github.com/mark3labs/inkbook/internal/wizard"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.HooksDir = t.TempDir()
	return cfg
}

func fillBooking(t *testing.T, e *wizard.Engine) {
	t.Helper()
	require.NoError(t, e.SetField(booking.FieldArtist, "teo"))
	require.NoError(t, e.Next())
	require.NoError(t, e.SetField(booking.FieldDescription, "koi swimming upstream"))
	require.NoError(t, e.Next())
	require.NoError(t, e.SetField(booking.FieldPlacement, "back"))
	require.NoError(t, e.Next())
	require.NoError(t, e.SetField(booking.FieldSize, "large"))
	require.NoError(t, e.Next())
	require.NoError(t, e.SetDate(time.Now().AddDate(0, 0, 5)))
	require.NoError(t, e.SetField(booking.FieldTime, "13:00"))
	require.NoError(t, e.Next())
	require.NoError(t, e.SetField(booking.FieldBudget, "500-1000"))
	require.NoError(t, e.Next())
	require.NoError(t, e.SetField(booking.FieldName, "Grace Hopper"))
	require.NoError(t, e.SetField(booking.FieldEmail, "grace@example.com"))
	require.NoError(t, e.SetField(booking.FieldPhone, "555 0100"))
	require.NoError(t, e.Next())
	require.Equal(t, wizard.StepReview, e.CurrentStep())
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	cfg := testSettings(t)
	cfg.MaxReferenceBytes = 0

	_, err := New(Config{Settings: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_reference_bytes")
}

func TestNew_LoadsDefaultCatalog(t *testing.T) {
	o, err := New(Config{Settings: testSettings(t)})
	require.NoError(t, err)
	assert.Equal(t, "Black Lantern Tattoo", o.Studio())

	cfg := testSettings(t)
	cfg.Studio = "Night Owl Ink"
	o, err = New(Config{Settings: cfg})
	require.NoError(t, err)
	assert.Equal(t, "Night Owl Ink", o.Studio())
}

func TestOrchestrator_SubmitReachesJournalHooksAndMetrics(t *testing.T) {
	settings := testSettings(t)
	hookYAML := "version: 1\nhooks:\n  on_submit:\n    - command: echo booked {{reference}}\n      pipe_output: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(settings.HooksDir, hooks.ConfigFileName), []byte(hookYAML), 0644))

	sched := &wizard.ManualScheduler{}
	o, err := New(Config{Settings: settings, Scheduler: sched, DataDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, o.Start())
	t.Cleanup(func() { _ = o.Stop() })

	e := o.Engine()
	require.NotNil(t, e)
	assert.NotEmpty(t, o.Session())

	fillBooking(t, e)
	require.NoError(t, e.Submit())
	for sched.Pending() > 0 {
		sched.RunPending()
	}

	summary, ok := e.Summary()
	require.True(t, ok)
	require.NoError(t, e.SubmitErr())
	assert.Equal(t, "booked "+summary.Reference, strings.TrimSpace(o.HookOutput()))

	subs, err := o.Store().Submissions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, summary.Reference, subs[0].Reference)

	assert.Equal(t, float64(1), testutil.ToFloat64(o.Metrics().SubmissionsTotal))
}

func TestOrchestrator_WrapSubmitter(t *testing.T) {
	sched := &wizard.ManualScheduler{}
	var wrapped []string
	o, err := New(Config{
		Settings:  testSettings(t),
		Scheduler: sched,
		WrapSubmitter: func(inner wizard.Submitter) wizard.Submitter {
			return wizard.SubmitterFunc(func(ctx context.Context, s booking.Summary) error {
				wrapped = append(wrapped, s.Reference)
				return inner.Submit(ctx, s)
			})
		},
	})
	require.NoError(t, err)
	require.NoError(t, o.Start())
	t.Cleanup(func() { _ = o.Stop() })

	fillBooking(t, o.Engine())
	require.NoError(t, o.Engine().Submit())
	for sched.Pending() > 0 {
		sched.RunPending()
	}

	summary, ok := o.Engine().Summary()
	require.True(t, ok)
	assert.Equal(t, []string{summary.Reference}, wrapped)
}

func TestOrchestrator_StopIsIdempotent(t *testing.T) {
	o, err := New(Config{Settings: testSettings(t)})
	require.NoError(t, err)
	require.NoError(t, o.Start())

	o.Engine().Close()
	require.NoError(t, o.Stop())
	require.NoError(t, o.Stop())
	assert.Error(t, o.Context().Err())
}
