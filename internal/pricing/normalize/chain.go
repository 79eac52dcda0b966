package normalize

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Extractor 값 하나를 추출하는 후보 규칙입니다.
type Extractor[S any] struct {
	Name string
	Fn   func(S) (string, bool)
}

// Chain 순서대로 시도하는 추출 규칙 목록입니다. 먼저 성공한 규칙의 값이 사용됩니다.
type Chain[S any] []Extractor[S]

func (c Chain[S]) First(src S) (string, bool) {
	v, _, ok := c.FirstNamed(src)
	return v, ok
}

// FirstNamed 값과 함께 성공한 규칙의 이름을 반환합니다.
func (c Chain[S]) FirstNamed(src S) (string, string, bool) {
	for _, e := range c {
		if v, ok := e.Fn(src); ok {
			return v, e.Name, true
		}
	}
	return "", "", false
}

var missingValues = map[string]struct{}{
	"":          {},
	"n/a":       {},
	"null":      {},
	"undefined": {},
}

// Present 비어 있거나 "N/A", "null", "undefined" 같은 자리표시 값이 아니면 true 를 반환합니다.
func Present(s string) bool {
	_, missing := missingValues[strings.ToLower(strings.TrimSpace(s))]
	return !missing
}

// Field JSON 경로의 값을 문자열로 추출합니다.
func Field(path string) Extractor[gjson.Result] {
	return Extractor[gjson.Result]{
		Name: path,
		Fn: func(r gjson.Result) (string, bool) {
			v := r.Get(path)
			if !v.Exists() || v.Type == gjson.Null {
				return "", false
			}
			s := strings.TrimSpace(v.String())
			return s, Present(s)
		},
	}
}

// Match 정규식의 group 번째 그룹을 추출합니다.
func Match(name string, re *regexp.Regexp, group int) Extractor[string] {
	return Extractor[string]{
		Name: name,
		Fn: func(s string) (string, bool) {
			m := re.FindStringSubmatch(s)
			if m == nil || group >= len(m) || m[group] == "" {
				return "", false
			}
			return m[group], true
		},
	}
}

// Func 임의의 함수를 규칙으로 감쌉니다.
func Func[S any](name string, fn func(S) (string, bool)) Extractor[S] {
	return Extractor[S]{Name: name, Fn: fn}
}
