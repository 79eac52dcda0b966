package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/darkkaiser/phone-price-server/internal/config"
	"github.com/darkkaiser/phone-price-server/internal/pkg/version"
	"github.com/darkkaiser/phone-price-server/internal/service/notification"
	"github.com/darkkaiser/phone-price-server/internal/service/notification/telegram"
	"github.com/darkkaiser/phone-price-server/internal/service/task"
	"github.com/darkkaiser/phone-price-server/internal/service/task/fetcher"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	"github.com/darkkaiser/phone-price-server/internal/service/task/sink"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const component = "main"

// app 명령 실행에 필요한 객체를 모두 조립한 결과입니다.
type app struct {
	config *config.AppConfig

	taskService *task.Service

	notificationSender notification.Sender

	logCloser io.Closer
}

// newApp 설정 로드, 로그 초기화, 서비스 조립을 순서대로 수행합니다.
// console 이 true 이면 설정과 관계없이 비교표를 표준 출력에도 씁니다.
func newApp(configFile string, console bool) (*app, error) {
	// 로그 설정에 필요하므로 환경설정을 가장 먼저 읽습니다.
	appConfig, err := config.LoadWithFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		return nil, err
	}

	logOpts := applog.NewProductionOptions(config.AppName)
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	}

	logCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패 (Cause: %v)\n", err)
		return nil, err
	}
	applog.SetDebugMode(appConfig.Debug)

	applog.WithComponentAndFields(component, applog.Fields{
		"version": version.Get().String(),
		"config":  configFile,
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("애플리케이션 초기화 시작")

	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent(component).Warn(warning)
	}

	a := &app{config: appConfig, logCloser: logCloser}
	if err := a.build(console); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("서비스 조립 실패")

		_ = logCloser.Close()
		return nil, err
	}

	return a, nil
}

func (a *app) build(console bool) error {
	f := fetcher.NewFromConfig(fetcher.Config{
		Timeout:       a.config.HTTP.Timeout,
		MaxRetries:    a.config.HTTP.MaxRetries,
		MinRetryDelay: a.config.HTTP.MinRetryDelay,
		MaxRetryDelay: a.config.HTTP.MaxRetryDelay,
		MaxBytes:      a.config.HTTP.MaxBodyBytes,
	})

	store, err := sink.NewStore(a.config.Output.SnapshotDir)
	if err != nil {
		return err
	}

	sinks := task.Sinks{Store: store}
	if a.config.Output.Workbook != "" {
		sinks.Workbook = sink.NewWorkbook(a.config.Output.Workbook)
	}
	if console || a.config.Output.Console {
		sinks.Console = sink.NewConsole(os.Stdout)
	}

	a.taskService, err = task.NewService(a.config, scraper.New(f), sinks)
	if err != nil {
		return err
	}

	a.notificationSender = notification.Discard
	if a.config.Notifier.Telegram.BotToken != "" {
		notifier, err := telegram.New(a.config.Notifier.Telegram.BotToken, a.config.Notifier.Telegram.ChatID)
		if err != nil {
			return err
		}
		a.notificationSender = notifier
	}
	a.taskService.SetNotificationSender(a.notificationSender)

	return nil
}

func (a *app) Close() error {
	return a.logCloser.Close()
}
