package provider

import (
	"regexp"
)

var reID = regexp.MustCompile(`^[a-z][a-z0-9]*(?:-[a-z0-9]+)*$`)

// ID 통신사 어댑터 식별자입니다. 설정 파일의 carriers[].id 와 같습니다.
type ID string

func (id ID) String() string {
	return string(id)
}

// Validate 소문자, 숫자, 하이픈으로 이루어진 식별자인지 검증합니다.
func (id ID) Validate() error {
	if id == "" {
		return ErrIDEmpty
	}
	if !reID.MatchString(string(id)) {
		return newErrInvalidID(id)
	}
	return nil
}
