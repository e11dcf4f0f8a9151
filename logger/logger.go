package logger

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var (
	verbose           = false
	out     io.Writer = os.Stdout
)

// Toggle switches verbose output on or off. Verbose mode also lowers the
// log level to debug.
func Toggle(flag bool) {
	verbose = flag

	colors := term.IsTerminal(int(os.Stderr.Fd()))
	log.SetFormatter(&log.TextFormatter{
		ForceColors:      colors,
		DisableColors:    !colors,
		DisableTimestamp: true,
	})

	if flag {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func Verbose() bool {
	return verbose
}

func Print(values ...any) {
	if !verbose {
		return
	}

	fmt.Fprint(out, values...)
}

func Printf(format string, values ...any) {
	if !verbose {
		return
	}

	fmt.Fprintf(out, format, values...)
}

func Println(values ...any) {
	if !verbose {
		return
	}

	fmt.Fprintln(out, values...)
}
