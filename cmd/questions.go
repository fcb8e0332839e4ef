package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print suggested questions from the backend",
	RunE:  runQuestions,
}

var questionsCount int

func init() {
	questionsCmd.Flags().IntVarP(&questionsCount, "count", "n", 0, "Number of questions (default from config)")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	count := cfg.Suggestions.Count
	if questionsCount > 0 {
		count = questionsCount
	}

	questions, err := newClient(cfg).RandomQuestions(cmd.Context(), count)
	if err != nil {
		return fmt.Errorf("failed to fetch questions: %w", err)
	}
	for _, q := range questions {
		fmt.Fprintln(cmd.OutOrStdout(), q)
	}
	return nil
}
