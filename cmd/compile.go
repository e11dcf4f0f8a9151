package cmd

import (
	"github.com/hlmerscher/hack-toolchain-go/vm"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file_or_dir",
	Short: "compile Jack classes to VM code.",
	Long: `Compile every Jack class to X.vm next to its source. A directory is
	compiled class by class; each class is compiled independently.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		units, _ := readUnits(args[0], ".jack")
		b := newBatch(cmd)

		results, err := b.Compile(units)
		for _, r := range results {
			dump(cmd, r.Unit.Name, r.Value.Instructions)
		}

		writeResults(results, ".vm", func(u vm.Unit) string { return vm.Render(u.Instructions) })
		report(b, err, units)
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}
