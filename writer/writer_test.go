package writer

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXML(t *testing.T) {
	type item struct {
		XMLName xml.Name `xml:"item"`
		Name    string   `xml:"name"`
	}

	out := new(strings.Builder)
	require.NoError(t, XML(out, item{Name: "x"}))

	assert.Equal(t, "<item>\n <name>x</name>\n</item>\n", out.String())
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input string
		dir   bool
		ext   string
		want  string
	}{
		{"Main.jack", false, ".vm", "Main.vm"},
		{"prog/Main.jack", false, ".token.xml", "prog/Main.token.xml"},
		{"prog/Add.asm", false, ".hack", "prog/Add.hack"},
		{"prog/FibonacciElement", true, ".asm", "prog/FibonacciElement/FibonacciElement.asm"},
		{"prog/FibonacciElement/", true, ".asm", "prog/FibonacciElement/FibonacciElement.asm"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), OutputPath(filepath.FromSlash(tt.input), tt.dir, tt.ext))
		})
	}
}

func TestFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "Main.vm")

	require.NoError(t, File(filename, "return\n"))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "return\n", string(content))
}

func TestFileError(t *testing.T) {
	err := File(filepath.Join(t.TempDir(), "missing", "Main.vm"), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing")
}
