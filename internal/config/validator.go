package config

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/darkkaiser/phone-price-server/pkg/cronx"
	"github.com/go-playground/validator/v10"
)

var (
	// 텔레그램 봇 토큰 검증을 위한 정규식 (예: 123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11)
	telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)
)

// newValidator 새로운 Validator 인스턴스를 생성하고 커스텀 유효성 검사 함수를 등록합니다.
func newValidator() *validator.Validate {
	v := validator.New()

	// 검증 에러 메시지에 Go 필드명 대신 JSON 이름을 보여줍니다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("cron", validateCron); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'cron' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}
	if err := v.RegisterValidation("carrier", validateCarrier); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'carrier' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}
	if err := v.RegisterValidation("telegram_bot_token", validateTelegramBotToken); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'telegram_bot_token' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}

	return v
}

func validateCron(fl validator.FieldLevel) bool {
	return cronx.Validate(fl.Field().String()) == nil
}

// validateCarrier 지원하는 통신사 식별자인지 확인합니다.
func validateCarrier(fl validator.FieldLevel) bool {
	return slices.Contains(DefaultCarrierOrder, fl.Field().String())
}

func validateTelegramBotToken(fl validator.FieldLevel) bool {
	return telegramBotTokenRegex.MatchString(fl.Field().String())
}

// checkStruct 구조체를 태그 규칙에 따라 검증하고, 첫 번째 오류를 사용자 친화적인 에러로 변환합니다.
func checkStruct(v *validator.Validate, s any, contextName string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}

	firstErr := validationErrors[0]

	switch firstErr.Tag() {
	case "cron":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 cron 표현식(%s)이 올바르지 않습니다: '%v' (형식: 초 분 시 일 월 요일)", contextName, firstErr.Field(), firstErr.Value()))
	case "carrier":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지원하지 않는 통신사입니다: '%v' (사용 가능한 통신사: %s)", firstErr.Value(), strings.Join(DefaultCarrierOrder, ", ")))
	case "telegram_bot_token":
		return apperrors.New(apperrors.InvalidInput, "텔레그램 BotToken 형식이 올바르지 않습니다 (올바른 형식: 123456:ABC-DEF...)")
	case "required_if", "required_with":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 %s 값은 필수입니다", contextName, firstErr.Field()))
	}

	switch firstErr.StructField() {
	case "ListenPort":
		return apperrors.New(apperrors.InvalidInput, "웹 서비스 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다")
	case "MaxRetries":
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 최대 재시도 횟수(max_retries)는 0에서 10 사이여야 합니다: '%v'", firstErr.Value()))
	}

	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 설정이 올바르지 않습니다: %s (조건: %s)", contextName, firstErr.Field(), firstErr.Tag()))
}

// checkUniqueField 슬라이스 내의 특정 필드 값이 유일한지 검사합니다.
func checkUniqueField(v *validator.Validate, data any, fieldName, contextName string) error {
	if err := v.Var(data, "unique="+fieldName); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				if fieldErr.Tag() == "unique" {
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("중복된 %s ID가 존재합니다", contextName))
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유일성 검증에 실패했습니다", contextName))
	}
	return nil
}
