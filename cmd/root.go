package cmd

import (
	"os"

	"github.com/hlmerscher/hack-toolchain-go/logger"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hack",
	Short: "A toolchain for the Hack computer.",
	Long: `Compiles Jack classes to VM code, translates VM code to Hack assembly
and assembles Hack assembly to machine code. Every stage takes a single
source file or a directory of them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Toggle(GetFlag(cmd, "verbose"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().BoolP("keep-going", "k", false, "continue with the remaining units after a failure")
	rootCmd.PersistentFlags().Bool("dump", false, "print internal structures")
}
