package cmd

import (
	"bufio"
	"fmt"

	coreconfig "github.com/AzielCF/wap-gatekeeper/core/config"
	"github.com/AzielCF/wap-gatekeeper/usecase"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Read chat commands from stdin, one per line",
	Long: `console feeds each input line to the same dispatcher the bot uses for
operator messages, e.g. "!pending" or "!gapprove 2". Lines without the command
prefix are ignored.`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, _ []string) error {
	doc, err := loadDocument(cmd.Context())
	if err != nil {
		return err
	}
	dispatcher := usecase.NewDispatcher(accessUsecase, doc, coreconfig.Global.Chat.CommandPrefix)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if reply, handled := dispatcher.Handle(cmd.Context(), scanner.Text()); handled {
			fmt.Fprintln(cmd.OutOrStdout(), reply)
		}
	}
	return scanner.Err()
}
