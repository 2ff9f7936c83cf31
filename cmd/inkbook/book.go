package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/config"
	"github.com/mark3labs/inkbook/internal/logger"
	"github.com/mark3labs/inkbook/internal/orchestrator"
	"github.com/mark3labs/inkbook/internal/template"
	"github.com/mark3labs/inkbook/internal/tui/bookwizard"
	"github.com/mark3labs/inkbook/internal/wizard"
	"github.com/spf13/cobra"
)

var bookFlags struct {
	reference string
	template  string
	catalog   string
	studio    string
}

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book a tattoo appointment in the terminal",
	Long: `Run the booking wizard.

The wizard collects the artist, the tattoo idea, placement, size, date and
time, budget and contact details, shows a review and sends the request.
Every step is journaled; on_submit hooks from .inkbook.hooks.yml run once
the request is sent. The confirmation is printed after the wizard closes.`,
	RunE: runBook,
}

func init() {
	bookCmd.Flags().StringVarP(&bookFlags.reference, "reference", "r", "", "Reference image to attach to the request")
	bookCmd.Flags().StringVarP(&bookFlags.template, "template", "t", "", "Custom confirmation template file")
	bookCmd.Flags().StringVarP(&bookFlags.catalog, "catalog", "c", "", "Studio catalog file (default: catalog_path from config)")
	bookCmd.Flags().StringVar(&bookFlags.studio, "studio", "", "Studio name shown in the wizard")
}

// loadSettings loads config and applies logging, the shared start of every
// long-running command.
func loadSettings() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return cfg, nil
}

func runBook(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	// CLI flags override config
	if bookFlags.template != "" {
		cfg.Template = bookFlags.template
	}
	if bookFlags.catalog != "" {
		cfg.CatalogPath = bookFlags.catalog
	}
	if bookFlags.studio != "" {
		cfg.Studio = bookFlags.studio
	}

	var ref *booking.Attachment
	if bookFlags.reference != "" {
		ref, err = readAttachment(bookFlags.reference)
		if err != nil {
			return err
		}
	}

	sched := &bookwizard.ProgramScheduler{}
	var bg *bookwizard.Background
	orch, err := orchestrator.New(orchestrator.Config{
		Settings:  cfg,
		Scheduler: sched,
		WrapSubmitter: func(inner wizard.Submitter) wizard.Submitter {
			bg = bookwizard.NewBackground(inner)
			return bg
		},
	})
	if err != nil {
		return err
	}
	if err := orch.Start(); err != nil {
		return err
	}
	defer func() {
		if err := orch.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	engine := orch.Engine()
	if ref != nil {
		if err := engine.AttachReference(ref); err != nil {
			return fmt.Errorf("cannot attach %s: %w", bookFlags.reference, err)
		}
		logger.Info("Attached reference %s (%s, %d bytes)", ref.Filename, ref.MIMEType, ref.Size())
	}

	model := bookwizard.New(engine,
		bookwizard.WithStudio(orch.Studio()),
		bookwizard.WithTemplate(cfg.Template),
		bookwizard.WithHookOutput(orch.HookOutput),
	)
	res, err := bookwizard.Run(model, sched, bg)
	if err != nil {
		engine.Close()
		return err
	}

	if res.Cancelled || res.Summary == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Booking cancelled, nothing was sent.")
		return nil
	}

	doc, err := template.RenderConfirmation(cfg.Template, orch.Studio(), *res.Summary, orch.HookOutput())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), doc)
	if res.SubmitErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: the request was recorded but notifying the studio failed: %v\n", res.SubmitErr)
	}
	return nil
}

// readAttachment loads a reference file and sniffs its MIME type.
func readAttachment(path string) (*booking.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference: %w", err)
	}
	return &booking.Attachment{
		Filename: filepath.Base(path),
		MIMEType: http.DetectContentType(data),
		Data:     data,
	}, nil
}
