package docomo

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/tidwall/gjson"
)

const unknownModel = "不明な機種"

var (
	reCertified     = regexp.MustCompile(`(?i)docomo[\s　\x{00A0}]*Certified[\s　\x{00A0}]*`)
	reNameCapacity  = regexp.MustCompile(`(?i)[\s　\x{00A0}]+(\d{1,4}[GT]B)$`)
	reCertifiedRank = regexp.MustCompile(`(?i)[\s　\x{00A0}]+[AB]\+?$`)
	reCapacityField = regexp.MustCompile(`(?i)(\d{1,4}[GT]B)`)
	reTrailingGrade = regexp.MustCompile(`\s([A-Z]\+?)$`)
)

type listRequest struct {
	Sort     string `json:"sort"`
	PageNum  string `json:"pageNum"`
	OrderDiv string `json:"orderDiv"`
	Category string `json:"category"`
	Maker    string `json:"maker"`
}

// group 원래 기종명::용량 으로 묶은 색상별 SKU 입니다.
type group struct {
	name         string
	originalName string
	capacity     string
	available    bool

	// itemCode 가격 API 에 사용하는 첫 번째 색상의 상품 코드
	itemCode string
}

func (g *group) certified() bool {
	return strings.Contains(g.originalName, "Certified")
}

// grade 원래 기종명 끝의 등급 표기("A+")입니다. Certified 가 아니면 빈 문자열입니다.
func (g *group) grade() string {
	if !g.certified() {
		return ""
	}
	if m := reTrailingGrade.FindStringSubmatch(g.originalName); m != nil {
		return m[1]
	}
	return ""
}

// fetchPages 가격/재고 목록을 maxPagingCount 까지 조회합니다.
// 첫 페이지 실패는 에러이며, 이후 페이지가 실패하면 그때까지 가져온 페이지만 반환합니다.
func (a *adapter) fetchPages(ctx context.Context, s session) ([]gjson.Result, error) {
	first, err := a.call(ctx, a.post(s, a.settings.ListURL, a.listRequest(1)))
	if err != nil {
		return nil, newErrListing(err)
	}
	pages := []gjson.Result{first}

	maxPage := int(first.Get("result.maxPagingCount").Int())
	if maxPage == 0 {
		applog.WithComponent(component).Warn("maxPagingCount 가 없어 첫 페이지만 처리합니다")
	}

	for n := 2; n <= maxPage; n++ {
		if err := a.listPacer.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := a.call(ctx, a.post(s, a.settings.ListURL, a.listRequest(n)))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"page":      n,
				"max_pages": maxPage,
				"error":     err,
			}).Warn("목록 페이지 조회에 실패하여 그때까지 가져온 페이지만 사용합니다")

			break
		}
		pages = append(pages, page)
	}

	return pages, nil
}

func (a *adapter) listRequest(page int) listRequest {
	return listRequest{
		Sort:     a.settings.Sort,
		PageNum:  strconv.Itoa(page),
		OrderDiv: a.settings.OrderDiv,
	}
}

// groupModels 목록 페이지의 색상별 SKU 를 원래 기종명::용량 으로 묶습니다.
// 같은 itemCode 는 한 번만 사용하며, 그룹의 순서는 처음 등장한 순서입니다.
func groupModels(pages []gjson.Result) []*group {
	index := make(map[string]*group)
	seen := make(map[string]struct{})
	var groups []*group

	for _, page := range pages {
		page.Get("result.csOlsLmd04MobileList").ForEach(func(_, model gjson.Result) bool {
			original := model.Get("mobileNameNoModel").String()
			if original == "" {
				original = unknownModel
			}
			name, capacity := cleanModelName(original, model.Get("modelData").String())

			model.Get("colorList").ForEach(func(_, color gjson.Result) bool {
				itemCode := color.Get("itemCode").String()
				if itemCode == "" {
					return true
				}
				if _, dup := seen[itemCode]; dup {
					return true
				}
				seen[itemCode] = struct{}{}

				available := inStock(color.Get("saleStockFlag").String(), color.Get("purchaseFlag").String())

				key := original + "::" + capacity
				if g, exists := index[key]; exists {
					g.available = g.available || available
					return true
				}

				g := &group{name: name, originalName: original, capacity: capacity, available: available, itemCode: itemCode}
				index[key] = g
				groups = append(groups, g)
				return true
			})
			return true
		})
	}

	return groups
}

// cleanModelName "docomo Certified" 와 끝의 용량, Certified 의 등급 표기를 제거한 기종명과 용량을 반환합니다.
// 용량은 modelData 를 우선하고, 없으면 기종명 끝의 용량을 사용합니다.
func cleanModelName(original, modelData string) (name, capacity string) {
	name = strings.TrimSpace(original)
	certified := strings.Contains(name, "Certified")
	name = reCertified.ReplaceAllString(name, "")

	var fromName string
	if m := reNameCapacity.FindStringSubmatch(name); m != nil {
		fromName = strings.ToUpper(m[1])
		name = strings.Replace(name, m[0], "", 1)
	}

	if certified {
		name = reCertifiedRank.ReplaceAllString(name, "")
	}

	if m := reCapacityField.FindStringSubmatch(modelData); m != nil {
		capacity = strings.ToUpper(m[1])
	}
	if capacity == "" {
		capacity = fromName
	}

	return normalize.CleanModel(name), capacity
}

// inStock saleStockFlag 1, 2 는 재고 있음이며, 0, 3 이어도 purchaseFlag 가 2(예약 접수 중)이면 재고 있음입니다.
func inStock(saleStockFlag, purchaseFlag string) bool {
	switch saleStockFlag {
	case "1", "2":
		return true
	case "0", "3":
		return purchaseFlag == "2"
	default:
		return false
	}
}
