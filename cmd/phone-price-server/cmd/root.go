// Package cmd phone-price-server 의 CLI 명령을 제공합니다.
package cmd

import (
	"github.com/darkkaiser/phone-price-server/internal/config"
	"github.com/spf13/cobra"

	// 통신사 어댑터는 init 에서 레지스트리에 등록됩니다.
	_ "github.com/darkkaiser/phone-price-server/internal/service/task/provider/ahamo"
	_ "github.com/darkkaiser/phone-price-server/internal/service/task/provider/apple"
	_ "github.com/darkkaiser/phone-price-server/internal/service/task/provider/au"
	_ "github.com/darkkaiser/phone-price-server/internal/service/task/provider/docomo"
	_ "github.com/darkkaiser/phone-price-server/internal/service/task/provider/iijmio"
	_ "github.com/darkkaiser/phone-price-server/internal/service/task/provider/rakuten"
	_ "github.com/darkkaiser/phone-price-server/internal/service/task/provider/softbank"
	_ "github.com/darkkaiser/phone-price-server/internal/service/task/provider/uqmobile"
	_ "github.com/darkkaiser/phone-price-server/internal/service/task/provider/ymobile"
	_ "github.com/darkkaiser/phone-price-server/internal/service/task/provider/ymobileyahoo"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "일본 통신사 스마트폰 가격 수집 및 비교",
	Long: `phone-price-server 는 일본 통신사 온라인숍의 단말 가격을 수집하고
통신사 간 비교표(スマホ価格比較)를 만듭니다.

Examples:
  phone-price-server run
  phone-price-server run --carrier docomo,au
  phone-price-server compare
  phone-price-server serve --config /etc/phone-price-server.json`,
	SilenceUsage: true,
}

// Execute CLI 를 실행합니다.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultFilename, "설정 파일 경로")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
