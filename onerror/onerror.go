package onerror

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/source"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

func Log(err error) {
	Logf("", err)
}

func Logf(msg string, err error) {
	if err != nil {
		log.Fatalf("%s%s", msg, err)
	}
}

// Print reports err on w. When err carries a position inside one of units,
// the offending line is shown with a caret under the column.
func Print(w io.Writer, err error, units ...source.Unit) {
	var serr source.Error
	if !errors.As(err, &serr) {
		fmt.Fprintln(w, err)
		return
	}

	pos := serr.Position()
	fmt.Fprintf(w, "%s: %s\n", pos, serr.Message())

	unit, ok := find(units, pos.Unit)
	if !ok || pos.Line == 0 {
		return
	}
	line := unit.Line(pos.Line)
	fmt.Fprintln(w, line)

	if pos.Column == 0 {
		return
	}
	fmt.Fprintf(w, "%s%s\n", indent(line, pos.Column), highlight(w, "^"))
}

func find(units []source.Unit, name string) (source.Unit, bool) {
	for _, u := range units {
		if u.Name == name {
			return u, true
		}
	}
	return source.Unit{}, false
}

// indent reproduces the whitespace of line up to column, keeping tabs so
// the caret lines up.
func indent(line string, column int) string {
	var b strings.Builder
	for i := 0; i < column-1; i++ {
		if i < len(line) && line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func highlight(w io.Writer, s string) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "\033[31m" + s + "\033[0m"
	}
	return s
}
