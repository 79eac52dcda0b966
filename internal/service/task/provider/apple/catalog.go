package apple

import (
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// basePart digital-mat 의 기종 그룹(familyTypes 항목) 하나입니다.
type basePart struct {
	id         string
	name       string
	buyPageURL string
}

// parseBaseParts body.digitalMat[].familyTypes[] 에서 부품 번호가 중복되지 않는 기종 그룹을 추출합니다.
// 구매 페이지 URL 이 상대 경로이면 baseURL 을 기준으로 절대 URL 로 바꿉니다.
func parseBaseParts(doc gjson.Result, baseURL string) []basePart {
	base, _ := url.Parse(baseURL)

	seen := make(map[string]struct{})
	var parts []basePart

	doc.Get("body.digitalMat").ForEach(func(_, item gjson.Result) bool {
		item.Get("familyTypes").ForEach(func(_, family gjson.Result) bool {
			link := family.Get("productLink.link")

			id := link.Get("omnitureData.partNumber")
			if id.Type != gjson.String || id.Str == "" {
				return true
			}
			if _, dup := seen[id.Str]; dup {
				return true
			}
			seen[id.Str] = struct{}{}

			name := family.Get("productName").String()
			if name == "" {
				name = item.Get("productName").String()
			}

			parts = append(parts, basePart{
				id:         id.Str,
				name:       name,
				buyPageURL: resolve(base, link.Get("url").String()),
			})
			return true
		})
		return true
	})

	return parts
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == nil {
		return ref
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// parsedName "iPhone 17 Pro Max 256GB Silver" 형태의 SKU 이름을 나눈 결과입니다.
type parsedName struct {
	model    string
	capacity string
	color    string
}

// parseProductName 용량(GB/TB 를 포함하는 단어) 앞은 기종명, 뒤는 색상으로 나눕니다.
// 용량을 찾지 못하면 이름 전체를 기종명으로 사용합니다.
func parseProductName(name string) parsedName {
	var model, color []string
	capacity := ""

	for _, part := range strings.Split(name, " ") {
		switch {
		case strings.Contains(part, "GB") || strings.Contains(part, "TB"):
			capacity = strings.TrimSpace(part)
		case capacity != "":
			color = append(color, part)
		default:
			model = append(model, part)
		}
	}

	m := strings.TrimSpace(strings.Join(model, " "))
	if m == "" || capacity == "" {
		return parsedName{model: strings.TrimSpace(name)}
	}

	return parsedName{
		model:    m,
		capacity: capacity,
		color:    strings.TrimSpace(strings.Join(color, " ")),
	}
}
