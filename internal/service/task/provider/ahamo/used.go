package ahamo

import (
	"regexp"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/tidwall/gjson"
)

const (
	unknownUsedName = "名称不明"
	nameKeyPrefix   = "NAME_"
)

var (
	reImageID = regexp.MustCompile(`/([A-Za-z0-9]+)_[A-Z]\.jpg`)

	// 키 이름으로 하위 노드의 등급을 정한다. A+ 를 A 보다 먼저 검사해야 한다.
	keyRanks = []struct {
		re   *regexp.Regexp
		rank offer.Condition
	}{
		{regexp.MustCompile(`(?i)rank.?a.?plus`), offer.UsedWithGrade("A+")},
		{regexp.MustCompile(`(?i)rank.?a`), offer.UsedWithGrade("A")},
		{regexp.MustCompile(`(?i)rank.?b`), offer.UsedWithGrade("B")},
	}

	usedIDChain = normalize.Chain[gjson.Result]{
		normalize.Field("id"),
		normalize.Field("modelCode"),
		normalize.Field("productCode"),
		normalize.Field("sku"),
		normalize.Func("image", func(r gjson.Result) (string, bool) {
			img := r.Get("image")
			if img.Type != gjson.String {
				return "", false
			}
			if m := reImageID.FindStringSubmatch(img.Str); m != nil {
				return m[1], true
			}
			return "", false
		}),
	}
)

// usedEntry 중고 단말 JSON 에서 id 또는 기종명 하나에 대해 모은 정보입니다.
type usedEntry struct {
	name string

	// priceRank 판매 가격(문자열) 별로 관측된 등급입니다.
	priceRank map[string]string
}

// usedIndex id 와 "NAME_<기종명>" 을 키로 하는 중고 단말 색인입니다.
type usedIndex map[string]*usedEntry

func (idx usedIndex) register(key, name string) *usedEntry {
	e, ok := idx[key]
	if !ok {
		if name == "" {
			name = unknownUsedName
		}
		e = &usedEntry{name: name, priceRank: make(map[string]string)}
		idx[key] = e
	} else if name != "" && e.name == unknownUsedName {
		e.name = name
	}
	return e
}

func (idx usedIndex) byName(name string) *usedEntry {
	return idx[nameKeyPrefix+name]
}

// inherited 상위 노드에서 물려받는 값입니다.
type inherited struct {
	id   string
	rank string
	name string
}

// walkUsed 스키마가 정해지지 않은 중고 단말 JSON 트리를 순회하며 idx 에 id/기종명별 등급-가격 쌍을 기록합니다.
//
// 노드의 id 는 id, modelCode, productCode, sku, 이미지 파일명 순으로 찾고, 없으면 상위 노드의 id 를 사용합니다.
// 등급은 노드의 rank 값, 상위 노드의 키 이름(rankAPlus, rank_a, rankB ...) 순으로 물려받습니다.
func walkUsed(node gjson.Result, in inherited, idx usedIndex) {
	if !node.IsObject() && !node.IsArray() {
		return
	}

	id := in.id
	if node.IsObject() {
		if v, ok := usedIDChain.First(node); ok {
			id = v
		}
	}

	name := ""
	if raw := firstString(node, "productName", "modelName"); raw != "" {
		name = cleanProductName(raw)
	} else if in.name != "" {
		name = cleanProductName(in.name)
	}

	var entries []*usedEntry
	if id != "" {
		entries = append(entries, idx.register(id, name))
	}
	if name != "" {
		entries = append(entries, idx.register(nameKeyPrefix+name, name))
	}

	rank := in.rank
	if node.IsObject() {
		if v := node.Get("rank").String(); v != "" {
			rank = v
		}
	}

	if price, ok := usedPrice(node); ok && rank != "" {
		for _, e := range entries {
			e.priceRank[price] = rank
		}
	}

	next := inherited{id: id, rank: rank, name: name}
	node.ForEach(func(key, child gjson.Result) bool {
		childCtx := next
		if node.IsObject() {
			for _, kr := range keyRanks {
				if kr.re.MatchString(key.String()) {
					childCtx.rank = string(kr.rank)
					break
				}
			}
		}

		walkUsed(child, childCtx, idx)
		return true
	})
}

// usedPrice amount, price.amount, price 순으로 노드의 가격을 찾아 가격 키로 반환합니다.
func usedPrice(node gjson.Result) (string, bool) {
	if !node.IsObject() {
		return "", false
	}

	for _, r := range []gjson.Result{node.Get("amount"), node.Get("price.amount"), node.Get("price")} {
		if r.Type != gjson.Number {
			continue
		}
		if v := normalize.Number(r); v.IsPositive() {
			return v.String(), true
		}
	}
	return "", false
}

func firstString(node gjson.Result, paths ...string) string {
	if !node.IsObject() {
		return ""
	}
	for _, p := range paths {
		if v := node.Get(p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
