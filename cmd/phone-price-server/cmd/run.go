package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/darkkaiser/phone-price-server/internal/service/task"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/darkkaiser/phone-price-server/pkg/strutil"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	carrierFilter string
	printTable    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "통신사별 가격을 수집하고 비교표를 만듭니다",
	Long: `활성화된 통신사의 단말 가격을 새로 수집해 통신사별 표와 비교표를 저장합니다.
--carrier 로 일부 통신사만 수집할 수 있으며, 나머지 통신사는 비교에 참여하지 않습니다.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, task.ModeFull)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "마지막으로 저장된 통신사별 표로 비교표만 다시 만듭니다",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, task.ModeCompare)
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, compareCmd} {
		c.Flags().StringVar(&carrierFilter, "carrier", "", "실행할 통신사 (쉼표 구분, 예: docomo,au)")
		c.Flags().BoolVar(&printTable, "print", false, "비교표를 표준 출력에도 씁니다")
	}
}

func runOnce(cmd *cobra.Command, mode task.Mode) error {
	a, err := newApp(cfgFile, printTable)
	if err != nil {
		return err
	}
	defer a.Close()

	// Ctrl+C 로 실행을 취소하면 잠금을 풀고 실패 알림을 보낸 뒤 종료합니다.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ids []provider.ID
	for _, id := range strutil.SplitAndTrim(carrierFilter, ",") {
		ids = append(ids, provider.ID(id))
	}

	result, err := a.taskService.Run(ctx, task.RunOptions{Mode: mode, Carriers: ids})
	if result != nil {
		printRunResult(cmd, result)
	}
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"mode":  mode,
			"error": err,
		}).Error("실행 실패")
		return err
	}

	return nil
}

// printRunResult 통신사별 수집 결과를 표로 출력합니다.
func printRunResult(cmd *cobra.Command, result *task.RunResult) {
	if len(result.Carriers) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle(fmt.Sprintf("%s %s (%s)", result.Mode.Label(), result.ID, result.Elapsed().Round(time.Millisecond)))
	t.AppendHeader(table.Row{"ID", "통신사", "건수", "소요 시간", "오류"})

	for _, c := range result.Carriers {
		errMsg := ""
		if c.Err != nil {
			errMsg = c.Err.Error()
		}
		t.AppendRow(table.Row{c.ID, c.Name, c.Offers, c.Elapsed.Round(time.Millisecond), errMsg})
	}
	t.AppendFooter(table.Row{"", "비교표", result.ComparisonRows, "", ""})

	t.Render()
}
