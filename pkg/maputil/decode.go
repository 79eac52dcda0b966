// Package maputil 설정 파일의 자유 형식 데이터(map)를 구조체로 변환하는 기능을 제공합니다.
package maputil

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

type decodingConfig struct {
	tagName          string
	weaklyTypedInput bool
	errorUnused      bool
	squash           bool
	extraHooks       []mapstructure.DecodeHookFunc
}

// Option Decode 동작을 조정합니다.
type Option func(*decodingConfig)

func WithErrorUnused(enable bool) Option {
	return func(c *decodingConfig) {
		c.errorUnused = enable
	}
}

func WithDecodeHook(hooks ...mapstructure.DecodeHookFunc) Option {
	return func(c *decodingConfig) {
		c.extraHooks = append(c.extraHooks, hooks...)
	}
}

// Decode input 을 새 T 값으로 디코딩합니다.
//
// json 태그를 사용하고, "3s" 같은 문자열을 time.Duration 으로, "a,b" 를 []string 으로 변환합니다.
func Decode[T any](input any, opts ...Option) (*T, error) {
	output := new(T)
	if err := DecodeTo(input, output, opts...); err != nil {
		return nil, err
	}
	return output, nil
}

// DecodeTo input 을 이미 기본값이 채워진 output 위에 덮어씁니다.
func DecodeTo[T any](input any, output *T, opts ...Option) error {
	if output == nil {
		return errors.New("디코딩 결과를 저장할 output 포인터가 nil입니다")
	}
	if input == nil {
		return nil
	}

	cfg := &decodingConfig{
		tagName:          "json",
		weaklyTypedInput: true,
		squash:           true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	hooks := append(cfg.extraHooks,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          cfg.tagName,
		WeaklyTypedInput: cfg.weaklyTypedInput,
		ErrorUnused:      cfg.errorUnused,
		Squash:           cfg.squash,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(hooks...),
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("입력 데이터를 %T(으)로 디코딩하는 데 실패했습니다: %w", output, err)
	}

	return nil
}
