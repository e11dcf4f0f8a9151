package cmd

import (
	"fmt"
	"os"

	"github.com/hlmerscher/hack-toolchain-go/logger"
	"github.com/hlmerscher/hack-toolchain-go/onerror"
	"github.com/hlmerscher/hack-toolchain-go/pipeline"
	"github.com/hlmerscher/hack-toolchain-go/source"
	"github.com/hlmerscher/hack-toolchain-go/writer"
	"github.com/sanity-io/litter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// readUnits loads the file or directory named by path.
func readUnits(path string, ext string) ([]source.Unit, bool) {
	units, dir, err := source.Load(path, ext)
	onerror.Logf("error reading source\n", err)

	for _, unit := range units {
		logger.Printf("input:\t%s\n", unit.Path)
	}
	return units, dir
}

func newBatch(cmd *cobra.Command) *pipeline.Batch {
	return &pipeline.Batch{KeepGoing: GetFlag(cmd, "keep-going")}
}

// report prints every failure of b, or err when no unit is to blame, and
// exits.
func report(b *pipeline.Batch, err error, units []source.Unit) {
	if err == nil {
		return
	}

	failures := []error{err}
	if b.Failed() {
		failures = failures[:0]
		for _, f := range b.Failures {
			failures = append(failures, f.Err)
		}
	}

	for _, err := range failures {
		onerror.Print(os.Stderr, err, units...)
		if logger.Verbose() {
			log.Debugf("%+v", err)
		}
	}
	os.Exit(1)
}

// writeResults writes one output file per unit, next to its source.
func writeResults[T any](results []pipeline.Result[T], ext string, render func(T) string) {
	for _, r := range results {
		onerror.Log(writer.File(writer.OutputPath(r.Unit.Path, false, ext), render(r.Value)))
	}
}

func dump(cmd *cobra.Command, name string, value any) {
	if GetFlag(cmd, "dump") {
		fmt.Printf("%s:\n%s\n", name, litter.Sdump(value))
	}
}
