package cmd

import (
	"github.com/hlmerscher/hack-toolchain-go/asm"
	"github.com/hlmerscher/hack-toolchain-go/onerror"
	"github.com/hlmerscher/hack-toolchain-go/writer"
	"github.com/spf13/cobra"
)

var vmCmd = &cobra.Command{
	Use:   "vm [flags] file_or_dir",
	Short: "translate VM code to Hack assembly.",
	Long: `Translate a VM file to X.asm, or every VM file of a directory to a single
	Dir/Dir.asm program. Only a directory program starts with the bootstrap
	code that calls Sys.init.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		units, dir := readUnits(args[0], ".vm")
		b := newBatch(cmd)

		instructions, err := b.Translate(units, dir)
		report(b, err, units)
		dump(cmd, "assembly", instructions)

		output := GetString(cmd, "output")
		if output == "" {
			output = writer.OutputPath(args[0], dir, ".asm")
		}
		onerror.Log(writer.File(output, asm.Render(instructions)))
	},
}

func init() {
	rootCmd.AddCommand(vmCmd)
	vmCmd.Flags().StringP("output", "o", "", "specify output file.")
}
