package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	orig := readBuildInfo
	defer func() { readBuildInfo = orig }()

	t.Run("ldflags 값이 우선한다", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{Main: debug.Module{Version: "v0.0.9"}}, true
		}

		info := build(Info{Version: "v1.2.0", Commit: "abc1234", BuildDate: "2026-01-01"})
		assert.Equal(t, "v1.2.0", info.Version)
		assert.Equal(t, "abc1234", info.Commit)
		assert.Equal(t, runtime.Version(), info.GoVersion)
	})

	t.Run("모듈 빌드 정보로 보완한다", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{
				Main: debug.Module{Version: "v0.3.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.time", Value: "2026-10-01T00:00:00Z"},
				},
			}, true
		}

		info := build(Info{})
		assert.Equal(t, "v0.3.0", info.Version)
		assert.Equal(t, "0123456", info.Commit)
		assert.Equal(t, "2026-10-01T00:00:00Z", info.BuildDate)
	})

	t.Run("정보가 없으면 unknown", func(t *testing.T) {
		readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

		info := build(Info{})
		assert.Equal(t, unknown, info.Version)
		assert.Equal(t, unknown, info.Commit)
		assert.Contains(t, info.String(), "unknown")
	})
}
