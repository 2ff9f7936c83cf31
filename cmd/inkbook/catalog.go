package main

import (
	"fmt"

	"github.com/mark3labs/inkbook/internal/catalog"
	"github.com/mark3labs/inkbook/internal/config"
	"github.com/spf13/cobra"
)

var catalogFlags struct {
	path  string
	check bool
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print or validate the studio catalog",
	Long: `Print the effective studio catalog as YAML.

The catalog comes from --file, then catalog_path in the config, and falls
back to the built-in catalog. Use --check to only validate it.`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFlags.path, "file", "", "Catalog file (default: catalog_path from config)")
	catalogCmd.Flags().BoolVar(&catalogFlags.check, "check", false, "Validate the catalog without printing it")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	path := catalogFlags.path
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path = cfg.CatalogPath
	}

	c, err := catalog.Load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if catalogFlags.check {
		source := path
		if source == "" {
			source = "built-in catalog"
		}
		fmt.Fprintf(out, "%s is valid: %d artists, %d time slots\n", source, len(c.Artists), len(c.TimeSlots))
		return nil
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
