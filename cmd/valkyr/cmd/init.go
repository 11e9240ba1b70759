/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/valkyrdb/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a ValkyrDB configuration",
	Long: `Initialize a ValkyrDB configuration for local development.

This command will:
- Create the config directory
- Write a config file pointing at your schema and data directory
- Generate an API key for the REST server

Examples:
  valkyr init --schema=./schema.json --data-dir=./data
  valkyr init --config=./valkyr.yaml --force`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		schemaPath, _ := cmd.Flags().GetString("schema")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
			return
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir, schemaPath)
		if err != nil {
			cmd.Printf("Error initializing config: %v\n", err)
			return
		}

		cmd.Printf("ValkyrDB initialized.\n")
		cmd.Printf("Config file:    %s\n", configPath)
		cmd.Printf("Schema file:    %s\n", cfg.SchemaPath)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("API key:        %s\n", cfg.APIKey)
		cmd.Printf("\nYou can now start the server with:\n")
		cmd.Printf("  valkyr serve --config=%s\n", configPath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
