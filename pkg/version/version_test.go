package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setVars(t *testing.T, v, c string) {
	t.Helper()
	oldV, oldC := version, gitCommit
	version, gitCommit = v, c
	t.Cleanup(func() { version, gitCommit = oldV, oldC })
}

func TestString_Local(t *testing.T) {
	setVars(t, "", "abc123")
	assert.True(t, IsLocal())
	assert.Equal(t, "(local)", String())
	assert.Equal(t, "(undefined)", Version())
}

func TestString_Pipeline(t *testing.T) {
	setVars(t, " V1.4.0 ", "abc123")
	assert.False(t, IsLocal())
	assert.Equal(t, "1.4.0", Version())
	assert.Equal(t, "1.4.0 abc123 ["+runtime.GOOS+"/"+runtime.GOARCH+"]", String())
}
