package cmd

import (
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/analyzer"
	"github.com/hlmerscher/hack-toolchain-go/pipeline"
	"github.com/hlmerscher/hack-toolchain-go/source"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token [flags] file_or_dir",
	Short: "tokenize Jack source into XML.",
	Long:  `Write the token sequence of every Jack class as X.token.xml next to its source.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0], "tokenizing", ".token.xml", analyzer.Tokens)
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file_or_dir",
	Short: "parse Jack source into an XML parse tree.",
	Long:  `Write the parse tree of every Jack class as X.tree.xml next to its source.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0], "parsing", ".tree.xml", analyzer.Tree)
	},
}

func analyze(cmd *cobra.Command, path, verb, ext string, render func(source.Unit, *strings.Builder) error) {
	units, _ := readUnits(path, ".jack")
	b := newBatch(cmd)

	results, err := pipeline.Each(b, verb, units, func(unit source.Unit) (string, error) {
		out := new(strings.Builder)
		err := render(unit, out)
		return out.String(), err
	})

	writeResults(results, ext, func(xml string) string { return xml })
	report(b, err, units)
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(parseCmd)
}
