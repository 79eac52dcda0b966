package scraper

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"github.com/titanous/json5"
)

var (
	reLeadingBlockComment = regexp.MustCompile(`^\s*/\*[\s\S]*?\*/\s*`)
	reDeclarationPrefix   = regexp.MustCompile(`^\s*(?:var|let|const)\s+[\w$.]+\s*=\s*`)
	reSSIError            = regexp.MustCompile(`\[an error occurred while processing this directive\],?`)
)

// ExtractBetween start 와 end 사이의 문자열을 반환합니다. end 는 start 이후에서 찾습니다.
func ExtractBetween(s, start, end string) (string, error) {
	i := strings.Index(s, start)
	if i < 0 {
		return "", ErrMarkerNotFound
	}
	rest := s[i+len(start):]

	j := strings.Index(rest, end)
	if j < 0 {
		return "", ErrMarkerNotFound
	}

	return rest[:j], nil
}

// ExtractMatch re 의 첫 번째 캡처 그룹을 반환합니다.
func ExtractMatch(s string, re *regexp.Regexp) (string, error) {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return "", ErrMarkerNotFound
	}
	return m[1], nil
}

// ExtractScriptJSON selector 에 해당하는 첫 번째 script 태그의 JSON 을 v 로 디코딩합니다.
func ExtractScriptJSON(doc *goquery.Document, selector string, v any) error {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return ErrMarkerNotFound
	}

	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return ErrMarkerNotFound
	}

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return newErrJSONParsingFailed(selector, err)
	}

	return nil
}

// FindScriptSrc src 속성이 re 에 일치하는 첫 번째 script 태그의 src 를 반환합니다.
func FindScriptSrc(doc *goquery.Document, re *regexp.Regexp) (string, error) {
	var src string
	doc.Find("script[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("src"); re.MatchString(v) {
			src = v
			return false
		}
		return true
	})

	if src == "" {
		return "", ErrMarkerNotFound
	}
	return src, nil
}

// DecodeJS 자바스크립트 객체 리터럴을 v 로 디코딩합니다.
//
// 앞쪽 블록 주석과 var/let/const 선언, 끝의 세미콜론, SSI 오류 문구를 제거한 뒤 JSON5 로 해석하므로
// 따옴표 없는 키, 작은따옴표 문자열, 후행 쉼표, 주석이 포함되어 있어도 됩니다.
func DecodeJS(src string, v any) error {
	if v == nil {
		return ErrDecodeTargetNil
	}

	s := CleanJS(src)
	if s == "" {
		return ErrMarkerNotFound
	}

	if err := json5.Unmarshal([]byte(s), v); err != nil {
		return newErrJSDecodeFailed(err)
	}

	return nil
}

// DecodeJSResult 스키마가 고정되지 않은 자바스크립트 리터럴을 gjson.Result 로 반환합니다.
func DecodeJSResult(src string) (gjson.Result, error) {
	var v any
	if err := DecodeJS(src, &v); err != nil {
		return gjson.Result{}, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return gjson.Result{}, newErrJSDecodeFailed(err)
	}
	return gjson.ParseBytes(raw), nil
}

// CleanJS DecodeJS 가 해석하기 전에 적용하는 정리 단계입니다.
func CleanJS(src string) string {
	s := reSSIError.ReplaceAllString(src, "")
	s = reLeadingBlockComment.ReplaceAllString(s, "")
	s = reDeclarationPrefix.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")

	return strings.TrimSpace(s)
}
