package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the answer",
	Long: `Send a single question to the chatbot and print its answer.

The question comes from --message or, if that is empty, from the arguments.
A backend failure prints the usual connection error and exits non-zero.`,
	RunE: runAsk,
}

var askMessage string

func init() {
	askCmd.Flags().StringVarP(&askMessage, "message", "m", "", "Question to ask")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	text := askMessage
	if strings.TrimSpace(text) == "" {
		text = strings.Join(args, " ")
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("a question is required (use -m or pass it as arguments)")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session := newSession(cfg, newClient(cfg))
	reply, _ := session.SendSpecificMessage(cmd.Context(), text)
	if reply.IsError {
		return errors.New(reply.Text)
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	return nil
}
