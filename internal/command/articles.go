package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentit/Prompty-Veille/internal/model"
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Browse and compile long form articles",
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List compiled articles",
	RunE:  runArticlesList,
}

var articlesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one article with its markdown content",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticlesShow,
}

var articlesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an article",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticlesDelete,
}

var articlesCompileCmd = &cobra.Command{
	Use:   "compile <summary-id> <summary-id>...",
	Short: "Compile at least two summaries into an article",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runArticlesCompile,
}

func init() {
	rootCmd.AddCommand(articlesCmd)
	articlesCmd.AddCommand(articlesListCmd, articlesShowCmd, articlesDeleteCmd, articlesCompileCmd)

	articlesCompileCmd.Flags().String("title", "", "article title")
	articlesCompileCmd.Flags().String("theme", "", "article theme")
	_ = articlesCompileCmd.MarkFlagRequired("title")
	_ = articlesCompileCmd.MarkFlagRequired("theme")
}

func runArticlesList(cmd *cobra.Command, args []string) error {
	articles, err := api.Articles(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(articles)
	}

	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{
			a.ID,
			a.Title,
			a.Theme,
			fmt.Sprintf("%d", len(a.SourceReferences)),
			formatTags(a.Tags),
			formatTime(a.CreatedAt),
		})
	}
	renderTable([]string{"ID", "Title", "Theme", "Sources", "Tags", "Created"}, rows)
	return nil
}

func runArticlesShow(cmd *cobra.Command, args []string) error {
	article, err := api.Article(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(article)
	}
	printArticle(article)
	return nil
}

func printArticle(a model.Article) {
	printField("ID", a.ID)
	printField("Title", a.Title)
	printField("Theme", a.Theme)
	printField("Tags", formatTags(a.Tags))
	printField("Created", formatTime(a.CreatedAt))
	for _, ref := range a.SourceReferences {
		printField("Source", fmt.Sprintf("%s - %s (%s)", ref.SourceName, ref.Title, ref.URL))
	}
	fmt.Println()
	fmt.Println(a.Content)
}

func runArticlesDelete(cmd *cobra.Command, args []string) error {
	if err := api.DeleteArticle(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("article deleted")
	return nil
}

func runArticlesCompile(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("at least two summaries are required to compile an article, got %d", len(args))
	}

	title, _ := cmd.Flags().GetString("title")
	theme, _ := cmd.Flags().GetString("theme")

	article, err := api.CompileArticle(cmd.Context(), title, theme, args)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(article)
	}
	printArticle(article)
	return nil
}
