// Package config 애플리케이션 설정 파일을 읽고 검증합니다.
//
// 설정은 기본값, JSON 설정 파일, 환경 변수 순서로 덮어씁니다.
// 작업 디렉토리에 .env 파일이 있으면 환경 변수를 읽기 전에 먼저 불러옵니다.
package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "phone-price-server"

	// DefaultFilename 실행 인자로 경로가 주어지지 않으면 이 파일을 읽습니다.
	DefaultFilename = AppName + ".json"

	// EnvPrefix 환경 변수 접두사입니다. 이중 언더스코어(__)는 계층 구분자입니다.
	// 예: PHONE_PRICE_RUN__LOCK_WAIT -> run.lock_wait
	EnvPrefix = "PHONE_PRICE_"

	dotEnvFilename = ".env"
)

// Load 기본 설정 파일을 읽습니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 설정 파일을 읽어 AppConfig 를 만듭니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	if err := loadDotEnv(dotEnvFilename); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// 1. 기본값 (가장 낮은 우선순위)
	if err := k.Load(structs.Provider(newDefaultConfig(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 (최우선)
	if err := k.Load(env.Provider(EnvPrefix, ".", normalizeEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	var appConfig AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true, // 구조체에 없는 필드가 파일에 있으면 오타로 보고 에러를 냅니다.
			WeaklyTypedInput: true,
			Result:           &appConfig,
		},
	}
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	if err := appConfig.validate(newValidator()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

// normalizeEnvKey 환경 변수 이름을 koanf 키로 바꿉니다.
//
//	PHONE_PRICE_HTTP__MAX_RETRIES -> http.max_retries
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// loadDotEnv .env 파일이 있으면 환경 변수로 불러옵니다. 이미 설정된 환경 변수는 덮어쓰지 않습니다.
func loadDotEnv(filename string) error {
	if _, err := os.Stat(filename); err != nil {
		return nil
	}
	if err := godotenv.Load(filename); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf(".env 파일을 읽을 수 없습니다: '%s'", filename))
	}
	return nil
}
