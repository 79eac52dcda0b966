// Package sink 수집 결과 표를 저장합니다.
//
// 모든 Sink 는 같은 이름의 표를 통째로 덮어씁니다. 같은 표를 두 번 쓰면 마지막 내용만 남습니다.
package sink

import (
	"context"
)

const component = "task.sink"

// Style 표의 서식 종류입니다.
type Style int

const (
	// StylePlain 헤더 서식만 적용합니다.
	StylePlain Style = iota

	// StyleCarrier 통신사별 7열 표입니다. 가격 열에 통화 서식을 적용합니다.
	StyleCarrier

	// StyleSummary 통신사 간 비교 표입니다. 가격/비율 서식, 틀 고정, 중고 행 배경색을 적용합니다.
	StyleSummary
)

// Table 하나의 시트(표)입니다. 셀 값은 nil, string, 정수, 실수 중 하나입니다.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
	Style  Style
}

// Sink 표를 저장하는 대상입니다.
type Sink interface {
	Write(ctx context.Context, t Table) error
}

// SinkFunc 함수를 Sink 로 사용합니다.
type SinkFunc func(ctx context.Context, t Table) error

func (f SinkFunc) Write(ctx context.Context, t Table) error {
	return f(ctx, t)
}

// Multi 여러 Sink 에 순서대로 쓰며, 처음 실패한 Sink 의 에러를 반환합니다.
type Multi []Sink

func (m Multi) Write(ctx context.Context, t Table) error {
	for _, s := range m {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Write(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
