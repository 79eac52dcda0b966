package sink

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// filenameReplacer 경로 구분자와 Windows 예약 문자를 하이픈으로 바꿉니다.
var filenameReplacer = strings.NewReplacer(
	"..", "--",
	"/", "-",
	"\\", "-",
	"|", "-",
	"<", "-",
	">", "-",
	":", "-",
	"\"", "-",
	"?", "-",
	"*", "-",
	"!", "-",
)

// snapshotFilename 표 이름으로 스냅샷 파일명을 만듭니다.
// 사람이 읽을 수 있는 이름 뒤에 원래 이름의 해시를 붙여 정제 후 이름이 같아지는 경우를 구분합니다.
//
//	"Y!mobileヤフー店" -> "snapshot-y-mobileヤフー店-<16자리 해시>.json"
func snapshotFilename(name string) string {
	readable := truncateByBytes(sanitizeName(name), 60)

	hasher := fnv.New64a()
	_, _ = fmt.Fprintf(hasher, "%d:%s", len(name), name)

	return fmt.Sprintf("snapshot-%s-%016x.json", readable, hasher.Sum64())
}

func sanitizeName(s string) string {
	snake := strcase.ToSnake(s)
	snake = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '-'
		}
		return r
	}, snake)
	return filenameReplacer.Replace(strings.ReplaceAll(snake, "_", "-"))
}

// truncateByBytes 문자가 중간에 잘리지 않도록 UTF-8 바이트 길이 기준으로 자릅니다.
func truncateByBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	var total int
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		if total+size > limit {
			return s[:total]
		}
		total += size
		i += size
	}

	return s[:total]
}
