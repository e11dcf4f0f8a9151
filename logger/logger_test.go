package logger

import (
	"bytes"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	previous := out
	out = buf
	t.Cleanup(func() {
		out = previous
		Toggle(false)
	})
	return buf
}

func TestToggle(t *testing.T) {
	buf := capture(t)

	Toggle(true)
	assert.True(t, Verbose())
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	Printf("input:\t%s\n", "Main.jack")
	Println("done")

	Toggle(false)
	assert.False(t, Verbose())
	assert.Equal(t, log.InfoLevel, log.GetLevel())
	Print("hidden")

	assert.Equal(t, "input:\tMain.jack\ndone\n", buf.String())
}
