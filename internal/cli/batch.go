package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hayhai/hayhai/internal/history"
	"github.com/hayhai/hayhai/internal/pipeline"
	"github.com/hayhai/hayhai/internal/render"
	"github.com/hayhai/hayhai/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchTimeout     time.Duration
	batchConcurrency int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Answer questions from a file concurrently",
	Long: `Batch reads questions from a file (one per line, # comments
skipped) and answers them concurrently.

Example:
  hayhai batch questions.txt
  hayhai batch questions.txt --concurrency 2`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "overall batch timeout")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 2, "questions answered in parallel")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, batchConcurrency)
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	renderer := render.New(os.Stdout, cfg.Output.Plain)
	store := history.NewStore(configDir())

	failed := 0
	for _, result := range results {
		fmt.Printf("═══ %s ═══\n\n", result.Question)
		if result.Error != nil {
			failed++
			fmt.Printf("Error: %v\n\n", result.Error)
			continue
		}
		renderer.RenderAnswer(result.Answer)
		fmt.Println()

		if !noHistory {
			if err := store.Append(result.Answer); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: record history: %v\n", err)
			}
		}
	}

	fmt.Printf("Answered %d/%d questions\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d questions failed", failed)
	}
	return nil
}
