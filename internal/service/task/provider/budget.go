package provider

// Budget 한 번의 수집에서 허용하는 요청 횟수입니다.
// 호출 체인을 따라 인자로 전달하며 전역 상태로 두지 않습니다. 동시에 사용하지 않습니다.
type Budget struct {
	limit int
	used  int
}

func NewBudget(limit int) *Budget {
	return &Budget{limit: limit}
}

// Take 남은 횟수가 있으면 하나를 소비하고 true 를 반환합니다.
func (b *Budget) Take() bool {
	if b.used >= b.limit {
		return false
	}
	b.used++
	return true
}

func (b *Budget) Used() int {
	return b.used
}

func (b *Budget) Remaining() int {
	return b.limit - b.used
}
