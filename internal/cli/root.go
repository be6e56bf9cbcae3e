package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/hayhai/hayhai/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	// Shared by ask, batch, and serve
	maxResults    int
	noCache       bool
	noHistory     bool
	plainOutput   bool
	llmProvider   string
	llmModel      string
	noEvalSources bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hayhai",
	Short: "Hayhai - AI-enhanced web search",
	Long: `Hayhai answers questions by searching the web, reading the
results, and synthesizing a structured answer with an LLM.

Each answer is decomposed into typed content blocks (paragraphs,
headings, lists, tables, code, citations) and every source is rated
on a five-star credibility scale.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Hayhai.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("hayhai v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.hayhai/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().IntVar(&maxResults, "max-results", 6, "maximum search results to read")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable caches (force fresh search and fetch)")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record answers in history")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false, "disable ANSI styling")
	rootCmd.PersistentFlags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	rootCmd.PersistentFlags().BoolVar(&noEvalSources, "no-eval-sources", false, "skip LLM source evaluation (domain heuristic only)")

	bindFlags()

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// configDir returns the Hayhai config directory path
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hayhai"
	}
	return home + "/.hayhai"
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setViperDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in the config directory
		viper.AddConfigPath(configDir())
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match HAYHAI_*, with dots in
	// config keys mapped to underscores (HAYHAI_SEARCH_MAX_RESULTS)
	viper.SetEnvPrefix("HAYHAI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindFlags binds the persistent flags into the config hierarchy; a
// flag set on the command line wins over HAYHAI_* env and the config
// file. The inverted boolean flags (--no-cache, --no-eval-sources)
// cannot be bound and are layered on in buildConfig instead.
func bindFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("search.max_results", flags.Lookup("max-results"))
	_ = viper.BindPFlag("llm.provider", flags.Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.model", flags.Lookup("llm-model"))
	_ = viper.BindPFlag("output.verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("output.plain", flags.Lookup("plain"))
}

// setViperDefaults registers the built-in defaults so every config key
// resolves even when no file, env var, or flag supplies it
func setViperDefaults() {
	d := model.DefaultConfig()
	viper.SetDefault("http.timeout", d.HTTP.Timeout)
	viper.SetDefault("http.user_agent", d.HTTP.UserAgent)
	viper.SetDefault("http.respect_robots", d.HTTP.RespectRobots)
	viper.SetDefault("search.max_results", d.Search.MaxResults)
	viper.SetDefault("search.locale", d.Search.Locale)
	viper.SetDefault("search.safesearch", d.Search.SafeSearch)
	viper.SetDefault("search.fetch_workers", d.Search.FetchWorkers)
	viper.SetDefault("cache.enabled", d.Cache.Enabled)
	viper.SetDefault("llm.provider", d.LLM.Provider)
	viper.SetDefault("llm.model", d.LLM.Model)
	viper.SetDefault("llm.base_url", d.LLM.BaseURL)
	viper.SetDefault("llm.evaluate_sources", d.LLM.EvaluateSources)
	viper.SetDefault("output.verbose", d.Output.Verbose)
	viper.SetDefault("output.plain", d.Output.Plain)
	viper.SetDefault("server.addr", d.Server.Addr)
}
