package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.NotEmpty(t, info.Commit)
}

func TestString(t *testing.T) {
	info := Info{Commit: "abc123", Modified: true, BuildDate: "today", GoVersion: "go1.24", Platform: "linux/amd64"}
	out := info.String()
	assert.Contains(t, out, "abc123 (modified)")
	assert.Contains(t, out, "linux/amd64")
}
