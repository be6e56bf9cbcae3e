package cli

import (
	"fmt"
	"os"

	"github.com/hayhai/hayhai/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Hayhai configuration",
	Long: `Manage Hayhai configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (HAYHAI_*)
3. Config file (~/.hayhai/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration including all sources (defaults, config file, env vars, flags).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := model.DefaultConfig()

		configFile := viper.ConfigFileUsed()
		if configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println(string(yamlData))

		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (HAYHAI_*, OPENAI_API_KEY, OLLAMA_BASE_URL)")
		fmt.Println("  3. Config file (~/.hayhai/config.yaml)")
		fmt.Println("  4. Defaults (shown above)")
		fmt.Println()

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.hayhai/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		dir := configDir()
		configPath := dir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'hayhai config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		header := `# Hayhai Configuration File
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (HAYHAI_*)
#   3. This config file
#   4. Built-in defaults

`
		footer := `
# API keys (use environment variables):
#   export OPENAI_API_KEY=sk-...
#   export OLLAMA_BASE_URL=http://localhost:11434/v1
`

		if _, err := f.WriteString(header); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}
		if _, err := f.Write(yamlData); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}
		if _, err := f.WriteString(footer); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n  hayhai config show\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
