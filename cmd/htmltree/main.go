// Command htmltree parses HTML and prints the normalized node tree, with the implied elements
// filled in. With serve it rewrites HTML responses of an upstream server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cmd := newCmdRoot()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "htmltree:", err)
		os.Exit(1)
	}
}

// newCmdRoot creates the root command for htmltree.
func newCmdRoot() *cobra.Command {
	opts := &treeOptions{}

	cmd := &cobra.Command{
		Use:   "htmltree [file|-]",
		Short: "Print the normalized tree of an HTML document",
		Long: `htmltree parses an HTML document the way go-htmldom does and prints the resulting
tree: omitted start and end tags are filled in, unknown tags keep their place.`,
		Example: `  # Print the tree of a file
  htmltree index.html

  # Read a fragment from stdin and print it back as HTML
  echo '<ul><li>a<li>b' | htmltree --fragment --render

  # Show only list items below depth 2, with their path codes
  htmltree --paths --filter 'tag == "li" && depth > 2' index.html`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = "-"
			if len(args) == 1 {
				opts.input = args[0]
			}
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.logger = newLogger(cmd)
			return runTree(opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log implied tags and requests to stderr")

	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "parse as a fragment, without inferring html, head and body")
	cmd.Flags().BoolVar(&opts.render, "render", false, "print the normalized HTML instead of the tree")
	cmd.Flags().BoolVar(&opts.quoteAll, "quote-all", false, "quote every attribute value when rendering")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "print only elements matching this expression")
	cmd.Flags().BoolVar(&opts.paths, "paths", false, "print the path code of every node")

	cmd.AddCommand(newCmdServe())

	return cmd
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
