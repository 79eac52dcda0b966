package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/phone-price-server/internal/pkg/version"
	"github.com/darkkaiser/phone-price-server/internal/service"
	"github.com/darkkaiser/phone-price-server/internal/service/api"
	"github.com/darkkaiser/phone-price-server/internal/service/scheduler"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/spf13/cobra"
)

const banner = `
  ____   _                               ____         _
 |  _ \ | |__    ___   _ __    ___      |  _ \  _ __ (_)  ___   ___
 | |_) || '_ \  / _ \ | '_ \  / _ \_____| |_) || '__|| | / __| / _ \
 |  __/ | | | || (_) || | | ||  __/_____|  __/ | |   | || (__ |  __/
 |_|    |_| |_| \___/ |_| |_| \___|     |_|    |_|   |_| \___| \___|
                                                              %s
--------------------------------------------------------------------------------
`

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "스케줄러와 HTTP API 를 띄우고 종료 신호를 기다립니다",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfgFile, false)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintf(cmd.OutOrStdout(), banner, version.Get().Version)

	services := []service.Service{a.taskService}
	if a.config.Scheduler.Enabled {
		services = append(services, scheduler.NewService(a.config.Scheduler, a.taskService, a.notificationSender))
	}
	if a.config.API.Enabled {
		services = append(services, api.NewService(a.config, a.taskService, a.notificationSender, version.Get()))
	}

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serviceStopWG := &sync.WaitGroup{}

	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel()
			serviceStopWG.Wait()

			return err
		}
	}

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(termC)

	applog.WithComponentAndFields(component, applog.Fields{
		"scheduler": a.config.Scheduler.Enabled,
		"api":       a.config.API.Enabled,
	}).Info("서버 가동 완료")

	<-termC

	applog.WithComponent(component).Info("종료 신호 수신")
	cancel()
	serviceStopWG.Wait()

	return nil
}
