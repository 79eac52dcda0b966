package uqmobile

import (
	"github.com/antzucaro/matchr"
)

// productIndex 정규화한 기종명으로 제품을 찾습니다.
// 정확히 일치하는 키가 없으면 Jaro-Winkler 유사도가 threshold 이상인 가장 가까운 키를 사용합니다.
type productIndex struct {
	keys      []string
	products  map[string]product
	threshold float64
}

func newProductIndex(products []product, threshold float64) *productIndex {
	idx := &productIndex{products: make(map[string]product), threshold: threshold}
	for _, p := range products {
		if p.Name == "" {
			continue
		}

		key := normalizeName(p.Name)
		if _, exists := idx.products[key]; !exists {
			idx.keys = append(idx.keys, key)
		}
		idx.products[key] = p
	}
	return idx
}

func (idx *productIndex) lookup(name string) (product, bool) {
	p, _, ok := idx.match(name)
	return p, ok
}

// match 찾은 제품과 함께 유사도 기반 매칭 여부를 반환합니다.
func (idx *productIndex) match(name string) (p product, fuzzy bool, ok bool) {
	key := normalizeName(name)
	if key == "" {
		return product{}, false, false
	}
	if p, ok := idx.products[key]; ok {
		return p, false, true
	}

	bestKey, bestScore := "", 0.0
	for _, k := range idx.keys {
		if score := matchr.JaroWinkler(key, k, false); score > bestScore {
			bestKey, bestScore = k, score
		}
	}
	if bestKey == "" || bestScore < idx.threshold {
		return product{}, false, false
	}

	return idx.products[bestKey], true, true
}
