// Package idgen 실행 기록을 구분하는 식별자를 만듭니다.
package idgen

import (
	"sync/atomic"
	"time"
)

// base62Chars ASCII 순서이므로 같은 길이의 ID 는 문자열 정렬이 생성 순서와 일치합니다.
const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	base62Len = int64(len(base62Chars))

	// seqLength 같은 나노초 안에서 만든 ID 의 순번 자릿수입니다.
	seqLength = 6
)

// Generator [타임스탬프(Base62)][순번(Base62, 6자리)] 형태의 ID 를 만듭니다.
// 예: "2Xk9pL3m000001". 여러 고루틴에서 동시에 사용해도 안전합니다.
type Generator struct {
	counter atomic.Uint32

	now func() time.Time
}

// New 새 ID 를 반환합니다.
func (g *Generator) New() string {
	now := time.Now
	if g.now != nil {
		now = g.now
	}

	seq := g.counter.Add(1)

	b := make([]byte, 0, 18)
	b = appendBase62(b, now().UnixNano())
	b = appendBase62FixedLength(b, int64(seq), seqLength)

	return string(b)
}

func appendBase62(dst []byte, num int64) []byte {
	if num == 0 {
		return append(dst, base62Chars[0])
	}
	if num < 0 {
		num = -num
	}

	var temp [20]byte
	i := len(temp)
	for num > 0 {
		i--
		temp[i] = base62Chars[num%base62Len]
		num /= base62Len
	}

	return append(dst, temp[i:]...)
}

// appendBase62FixedLength length 보다 짧으면 앞을 '0' 으로 채우고, 길면 자르지 않습니다.
func appendBase62FixedLength(dst []byte, num int64, length int) []byte {
	encoded := appendBase62(nil, num)
	for i := len(encoded); i < length; i++ {
		dst = append(dst, base62Chars[0])
	}
	return append(dst, encoded...)
}
