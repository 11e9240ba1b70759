/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ssargent/valkyrdb/pkg/catalog"
	"github.com/ssargent/valkyrdb/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "valkyr",
	Short: "ValkyrDB - Fixed-Width Record Store",
	Long: `ValkyrDB is a schema-driven store for fixed-width binary records,
kept in slotted-page heap files and addressed by record id.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init writes the config the other commands read; nothing to open yet.
		if cmd.Name() == "init" {
			return nil
		}

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		level, err := logrus.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
		}
		log := logrus.New()
		log.SetLevel(level)

		cat, err := catalog.Open(cfg.SchemaPath, cfg.DataDir, log)
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}

		// Store in command context
		ctx := context.WithValue(cmd.Context(), "catalog", cat)
		ctx = context.WithValue(ctx, "config", cfg)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		cat, ok := cmd.Context().Value("catalog").(*catalog.Catalog)
		if !ok {
			return nil
		}
		return cat.Close()
	},
}

// resolveConfig loads the config file when it exists and lets explicit flags
// override its values.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("schema") {
		cfg.SchemaPath, _ = cmd.Flags().GetString("schema")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	return cfg, nil
}

// catalogFromContext fetches the catalog PersistentPreRunE opened.
func catalogFromContext(cmd *cobra.Command) (*catalog.Catalog, bool) {
	cat, ok := cmd.Context().Value("catalog").(*catalog.Catalog)
	return cat, ok
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.config/valkyr/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for heap files")
	rootCmd.PersistentFlags().StringP("schema", "s", "./schema.json", "Schema file describing the tables")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
