// Package cronx 초 단위 필드를 포함한 cron 표현식 파서를 제공합니다.
package cronx

import "github.com/robfig/cron/v3"

// StandardParser "초 분 시 일 월 요일" 6필드 표현식과 "@daily" 같은 디스크립터를 지원하는 파서를 반환합니다.
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate 표현식이 StandardParser 로 해석 가능한지 확인합니다.
func Validate(spec string) error {
	_, err := StandardParser().Parse(spec)
	return err
}
