package cli

import (
	"fmt"

	"github.com/hayhai/hayhai/internal/history"
	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show answered questions",
	Long:  `Display past questions and answers, most recent first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := history.NewStore(configDir()).List(historyLimit)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No history yet.")
			return nil
		}

		for _, entry := range entries {
			fmt.Printf("%s  [%s]  %s\n", entry.AnsweredAt.Local().Format("2006-01-02 15:04"), entry.SearchType, entry.Question)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := history.NewStore(configDir()).Clear(); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Println("✓ History cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "entries to show (0 for all)")
}
