package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the service counters",
	RunE:  runStats,
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags seen across summaries",
	RunE:  runTags,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories seen across sources and summaries",
	RunE:  runCategories,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Trigger the source check now",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(statsCmd, tagsCmd, categoriesCmd, checkCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	stats, err := api.Stats(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(stats)
	}

	printField("Sources", fmt.Sprintf("%d (%d active)", stats.TotalSources, stats.ActiveSources))
	printField("Summaries", fmt.Sprintf("%d (%d new)", stats.TotalSummaries, stats.NewSummaries))
	printField("Articles", strconv.Itoa(stats.TotalArticles))
	return nil
}

func runTags(cmd *cobra.Command, args []string) error {
	tags, err := api.Tags(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(tags)
	}
	for _, tag := range tags {
		fmt.Println(tag)
	}
	return nil
}

func runCategories(cmd *cobra.Command, args []string) error {
	categories, err := api.Categories(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(categories)
	}
	for _, category := range categories {
		fmt.Println(category)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	msg, err := api.CheckSources(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}
