package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
}

func read(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestToolchain(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Prog")
	require.NoError(t, os.Mkdir(dir, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.jack"), []byte(`
class Main {
	function void main() {
		do Main.twice(21);
		return;
	}
	function int twice(int n) {
		return n + n;
	}
}
`), 0666))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sys.vm"), []byte(`
function Sys.init 0
call Main.main 0
pop temp 0
label HALT
goto HALT
`), 0666))

	execute(t, "token", dir)
	assert.True(t, strings.HasPrefix(read(t, filepath.Join(dir, "Main.token.xml")), "<tokens>\n <keyword> class </keyword>\n"))

	execute(t, "parse", filepath.Join(dir, "Main.jack"))
	assert.True(t, strings.HasPrefix(read(t, filepath.Join(dir, "Main.tree.xml")), "<class>\n"))

	execute(t, "compile", dir)
	assert.Equal(t, `function Main.main 0
push constant 21
call Main.twice 1
pop temp 0
push constant 0
return
function Main.twice 0
push argument 0
push argument 0
add
return
`, read(t, filepath.Join(dir, "Main.vm")))

	execute(t, "vm", dir)
	program := read(t, filepath.Join(dir, "Prog.asm"))
	assert.True(t, strings.HasPrefix(program, "    @256\n    D=A\n    @SP\n    M=D\n"))
	assert.Contains(t, program, "(Main.twice)\n")
	assert.Contains(t, program, "(Sys.init$HALT)\n")

	execute(t, "vm", filepath.Join(dir, "Sys.vm"))
	assert.False(t, strings.HasPrefix(read(t, filepath.Join(dir, "Sys.asm")), "    @256\n"))

	execute(t, "asm", filepath.Join(dir, "Prog.asm"))
	words := strings.Split(strings.TrimSuffix(read(t, filepath.Join(dir, "Prog.hack")), "\n"), "\n")
	require.NotEmpty(t, words)
	assert.Equal(t, "0000000100000000", words[0])
	for _, w := range words {
		assert.Len(t, w, 16)
	}
}
