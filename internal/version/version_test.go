package version

import (
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	origVersion, origCommit, origTime := Version, GitCommit, BuildTime
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() {
		readBuildInfo = orig
		Version, GitCommit, BuildTime = origVersion, origCommit, origTime
	})
}

func TestLdflagsWin(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v9.9.9"}})
	Version = "v2.1.0"
	GitCommit = "0123456789abcdef"

	assert.Equal(t, "v2.1.0", GetVersion())
	assert.Equal(t, "v2.1.0 (0123456)", GetShortVersion())
}

func TestModuleVersionFallback(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v1.4.0"}})
	Version = "dev"
	GitCommit = "unknown"

	assert.Equal(t, "v1.4.0", GetVersion())
	assert.Equal(t, "unknown", GetGitCommit())
	assert.Equal(t, "v1.4.0", GetShortVersion())
}

func TestVCSRevisionFallback(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abcdef0123456"}},
	})
	Version = "dev"
	GitCommit = "unknown"

	assert.Equal(t, "dev-abcdef0", GetVersion())
	assert.Equal(t, "abcdef0123456", GetGitCommit())
	assert.Equal(t, "dev-abcdef0", GetShortVersion())
}

func TestNoBuildInfo(t *testing.T) {
	withBuildInfo(t, nil)
	Version = "dev"
	GitCommit = "unknown"

	assert.Equal(t, "dev", GetVersion())
	assert.Equal(t, "dev", GetShortVersion())
}

func TestDetailedVersion(t *testing.T) {
	withBuildInfo(t, nil)
	Version = "v2.0.0"
	GitCommit = "unknown"
	BuildTime = "2026-10-19T12:00:00Z"

	out := GetDetailedVersion()
	assert.Contains(t, out, "Version: v2.0.0")
	assert.Contains(t, out, "Built: 2026-10-19T12:00:00Z")
	assert.NotContains(t, out, "Commit:")
	assert.Contains(t, out, "Go: ")
}

func TestParseBuildTime(t *testing.T) {
	assert.True(t, parseBuildTime("unknown").IsZero())
	assert.True(t, parseBuildTime("yesterday").IsZero())
	assert.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), parseBuildTime("2026-01-02 15:04:05"))
}
