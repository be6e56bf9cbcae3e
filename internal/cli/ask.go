package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hayhai/hayhai/internal/history"
	"github.com/hayhai/hayhai/internal/model"
	"github.com/hayhai/hayhai/internal/pipeline"
	"github.com/hayhai/hayhai/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var askTimeout time.Duration

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question using web search and an LLM",
	Long: `Ask searches the web for a question, fetches the results,
synthesizes a structured answer, and prints it as classified content
blocks with per-source credibility stars.

Example:
  hayhai ask "where did laksa originate"
  hayhai ask --llm-provider ollama "explain goroutine scheduling"
  hayhai ask --max-results 3 --plain "latest quantum computing news"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall answer timeout")
}

// buildConfig assembles the configuration shared by ask, batch, and
// serve: built-in defaults, then the config file and HAYHAI_* env
// through viper, then CLI flags on top.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Cache.Dir = configDir() + "/cache"
	applyViperConfig(cfg)

	// The inverted boolean flags have no viper binding
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noEvalSources {
		cfg.LLM.EvaluateSources = false
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return cfg, nil
}

// applyViperConfig overlays the viper-resolved values onto cfg. Each
// key resolves bound flag > HAYHAI_* env > config file > default.
func applyViperConfig(cfg *model.Config) {
	cfg.HTTP.Timeout = viper.GetDuration("http.timeout")
	cfg.HTTP.UserAgent = viper.GetString("http.user_agent")
	cfg.HTTP.RespectRobots = viper.GetBool("http.respect_robots")
	cfg.Search.MaxResults = viper.GetInt("search.max_results")
	cfg.Search.Locale = viper.GetString("search.locale")
	cfg.Search.SafeSearch = viper.GetInt("search.safesearch")
	cfg.Search.FetchWorkers = viper.GetInt("search.fetch_workers")
	cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	cfg.LLM.Provider = viper.GetString("llm.provider")
	cfg.LLM.Model = viper.GetString("llm.model")
	cfg.LLM.BaseURL = viper.GetString("llm.base_url")
	cfg.LLM.EvaluateSources = viper.GetBool("llm.evaluate_sources")
	cfg.Output.Verbose = viper.GetBool("output.verbose")
	cfg.Output.Plain = viper.GetBool("output.plain")
	cfg.Server.Addr = viper.GetString("server.addr")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Question: %s\n", question)
		p.Engine().OnAutoFormat = func(string) {
			fmt.Fprintln(os.Stderr, "Answer carried no structure, auto-formatting")
		}
	}

	answer, err := p.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "✓ Search type: %s\n", answer.SearchType)
		fmt.Fprintf(os.Stderr, "✓ Sources: %d\n", len(answer.Sources))
		fmt.Fprintf(os.Stderr, "✓ Content blocks: %d\n", len(answer.Blocks))
		fmt.Fprintln(os.Stderr)
	}

	render.New(os.Stdout, cfg.Output.Plain).RenderAnswer(answer)

	if !noHistory {
		if err := history.NewStore(configDir()).Append(answer); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: record history: %v\n", err)
		}
	}

	return nil
}
