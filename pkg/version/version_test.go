package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Commit, info.GitCommit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "1.2.3", GitCommit: "abc", BuildTime: "now", GoVersion: "go1.23.1", Platform: "linux/amd64"}
	s := info.String()
	assert.True(t, strings.HasPrefix(s, "aidigest version 1.2.3"))
	assert.Contains(t, s, "(commit: abc)")
	assert.Contains(t, s, "on linux/amd64")
}
