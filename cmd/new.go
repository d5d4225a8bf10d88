package cmd

import (
	"fmt"
	"os"

	"github.com/pretextbook/pretext/internal/config"
	"github.com/pretextbook/pretext/internal/scaffolding"
	"github.com/spf13/cobra"
)

var (
	newBook    bool
	newArticle bool

	// newCreator is replaced in tests
	newCreator = func(root string) scaffolding.Creator {
		return scaffolding.NewProjectGenerator(root)
	}
)

var newCmd = &cobra.Command{
	Use:   "new TITLE",
	Short: "Provision a new PreTeXt document",
	Long: `Creates a subdirectory with the files needed to author a PreTeXt document.
The directory is named after a slug of TITLE; an existing directory is never
overwritten.

Examples:
  pretext new "My Great Book!"            # creates my-great-book/
  pretext new "Graph Theory" --article    # creates graph-theory/`,
	Args: exactArgs(1),
	RunE: started(runNew),
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().BoolVar(&newBook, "book", false, "Create a PreTeXt book (default)")
	newCmd.Flags().BoolVar(&newArticle, "article", false, "Create a PreTeXt article")
	newCmd.MarkFlagsMutuallyExclusive("book", "article")
}

func runNew(cmd *cobra.Command, args []string) error {
	title := args[0]

	archetype := config.ArchetypeBook
	if newArticle {
		archetype = config.ArchetypeArticle
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	slug := scaffolding.Slugify(title)
	logger.Debug(commandContext(cmd), "Creating project", "title", title, "slug", slug, "archetype", archetype.String())

	dir, err := newCreator(cwd).Create(slug, title, archetype)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created a new PreTeXt %s in %s\n", archetype, dir)
	return nil
}
