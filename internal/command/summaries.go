package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentit/Prompty-Veille/internal/client"
	"github.com/agentit/Prompty-Veille/internal/model"
)

var summariesCmd = &cobra.Command{
	Use:   "summaries",
	Short: "Browse generated summaries",
}

var summariesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List summaries, filtered and sorted client-side",
	RunE:  runSummariesList,
}

var summariesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one summary and mark it read",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummariesShow,
}

var summariesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummariesDelete,
}

func init() {
	rootCmd.AddCommand(summariesCmd)
	summariesCmd.AddCommand(summariesListCmd, summariesShowCmd, summariesDeleteCmd)

	summariesListCmd.Flags().String("category", "", "keep only this category")
	summariesListCmd.Flags().String("tag", "", "keep only summaries carrying this tag")
	summariesListCmd.Flags().Bool("new", false, "keep only unread summaries")
	summariesListCmd.Flags().String("sort", client.SortRecent, "sort order: recent or category")
}

func runSummariesList(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	tag, _ := cmd.Flags().GetString("tag")
	onlyNew, _ := cmd.Flags().GetBool("new")
	sortMode, _ := cmd.Flags().GetString("sort")

	query := client.SummariesQuery{}
	if onlyNew {
		isNew := true
		query.IsNew = &isNew
	}

	summaries, err := api.Summaries(cmd.Context(), query)
	if err != nil {
		return err
	}

	summaries = client.FilterSummaries(summaries, category, tag)
	summaries = client.SortSummaries(summaries, sortMode)

	if jsonOut {
		return printJSON(summaries)
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		state := ""
		if s.IsNew {
			state = "new"
		}
		rows = append(rows, []string{
			s.ID,
			s.Title,
			s.SourceName,
			formatCategory(s.Category),
			formatTags(s.Tags),
			state,
			formatTime(s.CreatedAt),
		})
	}
	renderTable([]string{"ID", "Title", "Source", "Category", "Tags", "State", "Created"}, rows)
	return nil
}

func runSummariesShow(cmd *cobra.Command, args []string) error {
	sum, err := api.Summary(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(sum)
	}

	printSummary(sum)

	// viewing the screen is what marks a fresh summary as read
	if sum.IsNew {
		if err := api.MarkSummaryRead(cmd.Context(), sum.ID); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(sum model.Summary) {
	printField("ID", sum.ID)
	printField("Title", sum.Title)
	printField("Source", sum.SourceName)
	printField("URL", sum.URL)
	printField("Category", formatCategory(sum.Category))
	printField("Tags", formatTags(sum.Tags))
	printField("Created", formatTime(sum.CreatedAt))
	fmt.Println()
	fmt.Println(sum.Summary)
}

func runSummariesDelete(cmd *cobra.Command, args []string) error {
	if err := api.DeleteSummary(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("summary deleted")
	return nil
}
