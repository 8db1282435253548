package command

import (
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process <url>",
	Short: "Summarize a single URL on demand",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().Bool("save", false, "persist the resulting summary")
}

func runProcess(cmd *cobra.Command, args []string) error {
	save, _ := cmd.Flags().GetBool("save")

	sum, err := api.ProcessURL(cmd.Context(), args[0], save)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(sum)
	}
	printSummary(sum)
	return nil
}
