package config

import (
	"fmt"
	"time"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultMaxRetries        = 2
	DefaultMinRetryDelay     = 1 * time.Second
	DefaultMaxRetryDelay     = 10 * time.Second
	DefaultMaxBodyBytes      = 32 * 1024 * 1024
	DefaultLockPath          = "data/run.lock"
	DefaultLockWait          = 30 * time.Second
	DefaultLockStaleAfter    = 20 * time.Minute
	DefaultWorkbookPath      = "data/phone-prices.xlsx"
	DefaultSnapshotDirectory = "data/snapshots"
	DefaultSchedulerSpec     = "0 0 6 * * *"
	DefaultListenPort        = 2443

	ModeFull    = "full"
	ModeCompare = "compare"
)

// DefaultCarrierOrder 수집과 비교표 열의 기본 순서입니다.
var DefaultCarrierOrder = []string{
	"iijmio",
	"au",
	"softbank",
	"ymobile",
	"ymobile-yahoo",
	"docomo",
	"apple",
	"uqmobile",
	"ahamo",
	"rakuten",
}

// AppConfig 애플리케이션의 모든 설정을 포함하는 최상위 구조체
type AppConfig struct {
	Debug     bool            `json:"debug"`
	HTTP      HTTPConfig      `json:"http"`
	Run       RunConfig       `json:"run"`
	Output    OutputConfig    `json:"output"`
	Carriers  []CarrierConfig `json:"carriers"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Notifier  NotifierConfig  `json:"notifier"`
	API       APIConfig       `json:"api"`
}

func newDefaultConfig() AppConfig {
	carriers := make([]CarrierConfig, 0, len(DefaultCarrierOrder))
	for _, id := range DefaultCarrierOrder {
		carriers = append(carriers, CarrierConfig{ID: id, Enabled: true})
	}

	return AppConfig{
		HTTP: HTTPConfig{
			Timeout:       DefaultHTTPTimeout,
			MaxRetries:    DefaultMaxRetries,
			MinRetryDelay: DefaultMinRetryDelay,
			MaxRetryDelay: DefaultMaxRetryDelay,
			MaxBodyBytes:  DefaultMaxBodyBytes,
		},
		Run: RunConfig{
			LockPath:       DefaultLockPath,
			LockWait:       DefaultLockWait,
			LockStaleAfter: DefaultLockStaleAfter,
			SkipOutOfStock: true,
		},
		Output: OutputConfig{
			Workbook:    DefaultWorkbookPath,
			SnapshotDir: DefaultSnapshotDirectory,
		},
		Carriers: carriers,
		Scheduler: SchedulerConfig{
			Spec: DefaultSchedulerSpec,
			Mode: ModeFull,
		},
		API: APIConfig{
			ListenPort: DefaultListenPort,
		},
	}
}

// validate 설정 파일 로드 직후 각 항목의 정합성을 검증합니다.
func (c *AppConfig) validate(v *validator.Validate) error {
	if err := checkStruct(v, c.HTTP, "HTTP"); err != nil {
		return err
	}
	if c.HTTP.MinRetryDelay > c.HTTP.MaxRetryDelay {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 최소 재시도 대기 시간(min_retry_delay: %v)이 최대 대기 시간(max_retry_delay: %v)보다 깁니다", c.HTTP.MinRetryDelay, c.HTTP.MaxRetryDelay))
	}

	if err := checkStruct(v, c.Run, "Run"); err != nil {
		return err
	}
	if err := checkStruct(v, c.Output, "Output"); err != nil {
		return err
	}

	if err := c.validateCarriers(v); err != nil {
		return err
	}

	if err := checkStruct(v, c.Scheduler, "Scheduler"); err != nil {
		return err
	}
	if err := checkStruct(v, c.Notifier.Telegram, "Telegram Notifier"); err != nil {
		return err
	}
	if err := checkStruct(v, c.API, "API"); err != nil {
		return err
	}

	return nil
}

func (c *AppConfig) validateCarriers(v *validator.Validate) error {
	if len(c.Carriers) == 0 {
		return apperrors.New(apperrors.InvalidInput, "통신사(carriers) 목록이 비어 있습니다")
	}

	if err := checkUniqueField(v, c.Carriers, "ID", "통신사(Carrier)"); err != nil {
		return err
	}

	for _, carrier := range c.Carriers {
		if err := checkStruct(v, carrier, fmt.Sprintf("Carrier['%s']", carrier.ID)); err != nil {
			return err
		}
	}

	return nil
}

// EnabledCarriers 활성화된 통신사를 설정 순서대로 반환합니다.
func (c *AppConfig) EnabledCarriers() []CarrierConfig {
	enabled := make([]CarrierConfig, 0, len(c.Carriers))
	for _, carrier := range c.Carriers {
		if carrier.Enabled {
			enabled = append(enabled, carrier)
		}
	}
	return enabled
}

// VerifyRecommendations 운영상 권장되는 설정 준수 여부를 진단합니다. 에러가 아니라 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.API.Enabled && c.API.AppKey == "" {
		warnings = append(warnings, "API 키(api.app_key)가 설정되지 않아 누구나 수집 실행을 요청할 수 있습니다")
	}
	if c.API.Enabled && c.API.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.API.ListenPort))
	}
	if c.Notifier.Telegram.BotToken == "" {
		warnings = append(warnings, "텔레그램 봇 토큰이 설정되지 않아 실행 결과 알림을 보내지 않습니다")
	}
	if c.Output.Workbook == "" {
		warnings = append(warnings, "워크북 경로(output.workbook)가 비어 있어 엑셀 파일과 실행 로그를 남기지 않습니다")
	}

	return warnings
}

// HTTPConfig 모든 어댑터가 공유하는 HTTP 클라이언트 설정입니다.
type HTTPConfig struct {
	Timeout       time.Duration `json:"timeout" validate:"gt=0"`
	MaxRetries    int           `json:"max_retries" validate:"min=0,max=10"`
	MinRetryDelay time.Duration `json:"min_retry_delay" validate:"gt=0"`
	MaxRetryDelay time.Duration `json:"max_retry_delay" validate:"gt=0"`
	MaxBodyBytes  int64         `json:"max_body_bytes" validate:"min=-1"`
}

// RunConfig 실행 잠금과 비교 규칙 설정입니다.
type RunConfig struct {
	LockPath       string        `json:"lock_path" validate:"required"`
	LockWait       time.Duration `json:"lock_wait" validate:"gt=0"`
	LockStaleAfter time.Duration `json:"lock_stale_after" validate:"gt=0"`
	SkipOutOfStock bool          `json:"skip_out_of_stock"`
}

// OutputConfig 수집 결과를 저장할 위치입니다. Workbook 이 비어 있으면 엑셀 파일을 만들지 않습니다.
type OutputConfig struct {
	Workbook    string `json:"workbook"`
	SnapshotDir string `json:"snapshot_dir" validate:"required"`
	Console     bool   `json:"console"`
}

// CarrierConfig 통신사 어댑터 하나의 설정입니다.
type CarrierConfig struct {
	ID      string `json:"id" validate:"required,carrier"`
	Enabled bool   `json:"enabled"`

	// CompareBy 통신사 내 중복 제거에 사용할 가격입니다. 비어 있으면 어댑터 기본값을 씁니다.
	CompareBy string `json:"compare_by" validate:"omitempty,oneof=discount full return_or_discount"`

	// IncludeKeywords, ExcludeKeywords 기종명 필터입니다. "a|b" 는 둘 중 하나를 뜻하며 대소문자를 구분하지 않습니다.
	IncludeKeywords []string `json:"include_keywords"`
	ExcludeKeywords []string `json:"exclude_keywords"`

	// Settings 어댑터별 설정입니다. 어댑터가 직접 해석합니다.
	Settings map[string]any `json:"settings"`
}

// SchedulerConfig 정기 실행 설정입니다. Spec 은 초 단위 필드를 포함한 6필드 cron 표현식입니다.
type SchedulerConfig struct {
	Enabled bool   `json:"enabled"`
	Spec    string `json:"spec" validate:"required_if=Enabled true,omitempty,cron"`
	Mode    string `json:"mode" validate:"oneof=full compare"`
}

type NotifierConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

// TelegramConfig BotToken 이 비어 있으면 알림을 보내지 않습니다.
type TelegramConfig struct {
	BotToken string `json:"bot_token" validate:"omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required_with=BotToken"`
}

// APIConfig 수집 결과 조회와 실행 요청을 위한 REST API 서버 설정입니다.
type APIConfig struct {
	Enabled    bool   `json:"enabled"`
	ListenPort int    `json:"listen_port" validate:"min=1,max=65535"`
	AppKey     string `json:"app_key"`
}
