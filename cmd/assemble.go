package cmd

import (
	"fmt"

	"github.com/hlmerscher/hack-toolchain-go/asm"
	"github.com/hlmerscher/hack-toolchain-go/pipeline"
	"github.com/spf13/cobra"
)

var asmCmd = &cobra.Command{
	Use:   "asm [flags] file_or_dir",
	Short: "assemble Hack assembly to machine code.",
	Long:  `Assemble every Hack assembly file to X.hack, one binary word per line.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		units, _ := readUnits(args[0], ".asm")
		b := newBatch(cmd)

		results, err := b.Assemble(units)
		for _, r := range results {
			symbols := make([]string, 0, len(r.Value.Symbols))
			for _, name := range asm.SymbolNames(r.Value.Symbols) {
				symbols = append(symbols, fmt.Sprintf("%s %d", name, r.Value.Symbols[name]))
			}
			dump(cmd, r.Unit.Name+" symbols", symbols)
		}

		writeResults(results, ".hack", func(code pipeline.MachineCode) string { return asm.Binary(code.Words) })
		report(b, err, units)
	},
}

func init() {
	rootCmd.AddCommand(asmCmd)
}
