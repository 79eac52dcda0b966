package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/darkkaiser/phone-price-server/internal/config"
	"github.com/darkkaiser/phone-price-server/internal/pkg/version"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"run", "compare", "serve", "version"} {
		assert.True(t, names[want], "%s 명령이 등록되어야 함", want)
	}

	assert.Equal(t, config.DefaultFilename, rootCmd.PersistentFlags().Lookup("config").DefValue)
	assert.NotNil(t, runCmd.Flags().Lookup("carrier"))
	assert.NotNil(t, compareCmd.Flags().Lookup("carrier"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), version.Get().String())
}

func TestRunCommand_MissingConfig(t *testing.T) {
	rootCmd.SetArgs([]string{"run", "--config", filepath.Join(t.TempDir(), "missing.json")})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	assert.Error(t, rootCmd.Execute())
}

// 기본 설정의 통신사 순서는 등록된 어댑터와 일치해야 합니다.
func TestProvidersRegistered(t *testing.T) {
	for _, id := range config.DefaultCarrierOrder {
		_, err := provider.Lookup(provider.ID(id))
		assert.NoError(t, err, "어댑터가 등록되지 않았습니다: %s", id)
	}
}
