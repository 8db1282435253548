package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentit/Prompty-Veille/internal/model"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage watched sources",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sources",
	RunE:  runSourcesList,
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a source",
	RunE:  runSourcesAdd,
}

var sourcesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a source's name, url, category and tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesUpdate,
}

var sourcesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesDelete,
}

var sourcesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Pause or resume a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesToggle,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesListCmd, sourcesAddCmd, sourcesUpdateCmd, sourcesDeleteCmd, sourcesToggleCmd)

	for _, cmd := range []*cobra.Command{sourcesAddCmd, sourcesUpdateCmd} {
		cmd.Flags().String("name", "", "source name")
		cmd.Flags().String("url", "", "source URL")
		cmd.Flags().String("category", "", "category")
		cmd.Flags().StringSlice("tag", nil, "tag (repeatable)")
		_ = cmd.MarkFlagRequired("name")
		_ = cmd.MarkFlagRequired("url")
	}
}

func sourceInputFromFlags(cmd *cobra.Command) model.SourceInput {
	name, _ := cmd.Flags().GetString("name")
	url, _ := cmd.Flags().GetString("url")
	category, _ := cmd.Flags().GetString("category")
	tags, _ := cmd.Flags().GetStringSlice("tag")

	in := model.SourceInput{Name: name, URL: url, Tags: tags}
	if category != "" {
		in.Category = &category
	}
	return in
}

func runSourcesList(cmd *cobra.Command, args []string) error {
	sources, err := api.Sources(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(sources)
	}

	rows := make([][]string, 0, len(sources))
	for _, s := range sources {
		rows = append(rows, []string{
			s.ID,
			s.Name,
			s.URL,
			formatCategory(s.Category),
			formatTags(s.Tags),
			formatActive(s.Active),
			formatTimePtr(s.LastChecked),
		})
	}
	renderTable([]string{"ID", "Name", "URL", "Category", "Tags", "State", "Last checked"}, rows)
	return nil
}

func runSourcesAdd(cmd *cobra.Command, args []string) error {
	src, err := api.CreateSource(cmd.Context(), sourceInputFromFlags(cmd))
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(src)
	}
	fmt.Printf("source %s added (%s)\n", src.Name, src.ID)
	return nil
}

func runSourcesUpdate(cmd *cobra.Command, args []string) error {
	src, err := api.UpdateSource(cmd.Context(), args[0], sourceInputFromFlags(cmd))
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(src)
	}
	fmt.Printf("source %s updated\n", src.ID)
	return nil
}

func runSourcesDelete(cmd *cobra.Command, args []string) error {
	if err := api.DeleteSource(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("source deleted")
	return nil
}

func runSourcesToggle(cmd *cobra.Command, args []string) error {
	active, err := api.ToggleSource(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("source is now %s\n", formatActive(active))
	return nil
}
