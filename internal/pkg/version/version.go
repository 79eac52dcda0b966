// Package version 빌드 시점에 주입된 버전 정보를 제공합니다.
//
//	go build -ldflags "-X github.com/darkkaiser/phone-price-server/internal/pkg/version.appVersion=v1.2.0"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

const unknown = "unknown"

var readBuildInfo = debug.ReadBuildInfo

// ldflags 로 주입된다.
var (
	appVersion    = ""
	gitCommitHash = ""
	buildDate     = ""
)

// Info 실행 중인 바이너리의 빌드 정보입니다.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

var (
	once   sync.Once
	cached Info
)

// Get 빌드 정보를 반환합니다. ldflags 가 비어 있으면 모듈 빌드 정보로 보완합니다.
func Get() Info {
	once.Do(func() {
		cached = build(Info{
			Version:   strings.TrimSpace(appVersion),
			Commit:    strings.TrimSpace(gitCommitHash),
			BuildDate: strings.TrimSpace(buildDate),
		})
	})
	return cached
}

func build(info Info) Info {
	info.GoVersion = runtime.Version()
	info.OS = runtime.GOOS
	info.Arch = runtime.GOARCH

	if bi, ok := readBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
					if len(info.Commit) > 7 {
						info.Commit = info.Commit[:7]
					}
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			}
		}
	}

	if info.Version == "" {
		info.Version = unknown
	}
	if info.Commit == "" {
		info.Commit = unknown
	}
	if info.BuildDate == "" {
		info.BuildDate = unknown
	}

	return info
}

func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, build date: %s, %s %s/%s)", i.Version, i.Commit, i.BuildDate, i.GoVersion, i.OS, i.Arch)
}
