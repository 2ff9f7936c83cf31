package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/inkbook/internal/catalog"
	"github.com/mark3labs/inkbook/internal/config"
	"github.com/mark3labs/inkbook/internal/hooks"
	"github.com/spf13/cobra"
)

// catalogFileName is where setup --catalog writes an editable catalog.
const catalogFileName = "inkbook.catalog.yml"

var setupFlags struct {
	project bool
	force   bool
	studio  string
	catalog bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create inkbook configuration file",
	Long: `Create an inkbook configuration file for a studio.

By default, creates a global config at ~/.config/inkbook/inkbook.yml.
Use --project to create a project-local config in the current directory.
With --catalog the built-in catalog is written next to the config so the
studio can edit its artists, sizes and time slots.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing files")
	setupCmd.Flags().StringVar(&setupFlags.studio, "studio", "", "Studio name shown in the wizard")
	setupCmd.Flags().BoolVar(&setupFlags.catalog, "catalog", false, "Also write an editable copy of the built-in catalog")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}
	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := config.Defaults()
	cfg.Studio = setupFlags.studio

	if setupFlags.catalog {
		path, err := writeCatalog(filepath.Join(filepath.Dir(targetPath), catalogFileName))
		if err != nil {
			return err
		}
		cfg.CatalogPath = path
	}

	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config written to: %s\n", targetPath)
	if cfg.CatalogPath != "" {
		fmt.Fprintf(out, "Catalog: %s\n", cfg.CatalogPath)
	} else {
		fmt.Fprintln(out, "Catalog: built-in (run with --catalog for an editable copy)")
	}
	fmt.Fprintf(out, "Hooks: %s\n\n", filepath.Join(cfg.HooksDir, hooks.ConfigFileName))
	fmt.Fprintln(out, "Run 'inkbook book' to get started.")
	return nil
}

// writeCatalog exports the built-in catalog to path and returns its
// absolute form, so the config works from any directory.
func writeCatalog(path string) (string, error) {
	if !setupFlags.force && fileExists(path) {
		return "", fmt.Errorf("catalog already exists at %s\n\nUse --force to overwrite", path)
	}
	c, err := catalog.Default()
	if err != nil {
		return "", err
	}
	data, err := c.Marshal()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating catalog directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing catalog: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
