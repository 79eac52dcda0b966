// Package ahamo ahamo 의 신품/중고 가격 JSON 과 재고 API 를 조합하여 단말 가격을 수집합니다.
//
// 재고 API 의 mobileInfo 한 건이 결과 한 행이 됩니다. 신품은 가격 JSON 의 id 로 가격을 찾고,
// 중고는 가격 JSON 에서 모은 등급-가격 쌍으로 판매 가격에 해당하는 등급을 찾습니다.
package ahamo

import (
	"context"
	"fmt"
	"regexp"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const (
	ID   provider.ID = "ahamo"
	Name             = "ahamo"

	component = "provider.ahamo"
)

// 기종명 안의 등급 표기입니다. 앞의 패턴이 우선합니다.
var nameRankPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ランク\s*([SAB][+＋]?)`),
	regexp.MustCompile(`(?i)([SAB][+＋]?)\s*ランク`),
	regexp.MustCompile(`【([SAB][+＋]?)】`),
}

func init() {
	provider.MustRegister(ID, &provider.Config{
		Name:             Name,
		DefaultCompareBy: aggregate.CompareByDiscount,
		NewAdapter:       newAdapter,
	})
}

type adapter struct {
	scraper  scraper.Scraper
	compare  aggregate.Selector
	settings *settings
}

func newAdapter(p provider.NewAdapterParams) (provider.Adapter, error) {
	s, err := provider.DecodeSettings[settings](p.Settings)
	if err != nil {
		return nil, err
	}
	return &adapter{scraper: p.Scraper, compare: p.Compare, settings: s}, nil
}

func (a *adapter) get(url string) scraper.Request {
	return scraper.Get(url).WithHeader("User-Agent", a.settings.UserAgent)
}

func (a *adapter) Fetch(ctx context.Context) ([]offer.DeviceOffer, error) {
	newDoc, err := scraper.FetchResult(ctx, a.scraper, a.get(a.settings.NewDeviceURL))
	if err != nil {
		return nil, newErrFetchNewDevices(err)
	}
	products := parseNewDevices(newDoc)

	newStock, err := a.fetchStock(ctx, usedFlagNew)
	if err != nil {
		return nil, err
	}

	offers := make([]offer.DeviceOffer, 0, len(newStock))
	for _, s := range newStock {
		offers = append(offers, newDeviceOffer(s, products))
	}

	used := a.fetchUsed(ctx)
	offers = append(offers, used...)

	// 재고 API 는 색상별로 행을 내려주므로 같은 키의 재고를 합친다.
	offers = aggregate.Engine{Price: a.compare}.Merge(offers)

	applog.WithComponentAndFields(component, applog.Fields{
		"products":   len(products),
		"new_stock":  len(newStock),
		"used_stock": len(used),
		"offers":     len(offers),
	}).Info("ahamo 단말 가격 수집 완료")

	return offers, nil
}

// fetchUsed 중고 단말을 수집합니다. 실패하면 경고를 남기고 빈 결과를 반환합니다.
func (a *adapter) fetchUsed(ctx context.Context) []offer.DeviceOffer {
	doc, err := scraper.FetchResult(ctx, a.scraper, a.get(a.settings.UsedDeviceURL))
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"url":   a.settings.UsedDeviceURL,
			"error": err,
		}).Warn("중고 단말 가격 JSON 조회에 실패하여 중고 단말을 건너뜁니다")

		return nil
	}

	idx := make(usedIndex)
	walkUsed(doc, inherited{}, idx)

	stock, err := a.fetchStock(ctx, usedFlagUsed)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Warn("중고 단말 재고 조회에 실패하여 중고 단말을 건너뜁니다")

		return nil
	}

	offers := make([]offer.DeviceOffer, 0, len(stock))
	for _, s := range stock {
		offers = append(offers, usedDeviceOffer(s, idx))
	}
	return offers
}

// newDeviceOffer 신품은 가격 JSON 의 가격을 사용하고, 가격 JSON 에 없는 기종만 재고 API 의 가격을 사용합니다.
func newDeviceOffer(s stockItem, products map[string]newProduct) offer.DeviceOffer {
	p, known := products[s.modelCode]

	capacity := s.capacity
	if capacity == "" && known {
		capacity = p.capacity
	}

	o := offer.DeviceOffer{
		Model:     modelName(s, p.name),
		Capacity:  normalize.Capacity(capacity),
		Condition: offer.New,
		Stock:     offer.StockOf(s.available),
		Carrier:   Name,
	}

	if known {
		o.Full, o.Discount, o.Return = p.full, p.discount, p.kaedoki
	} else {
		price := normalize.PositivePrice(normalize.PriceOf(s.price))
		o.Full, o.Discount, o.Return = price, price, offer.NotApplicable()
	}
	o.Discount = o.Discount.ClampTo(o.Full)

	return o
}

// usedDeviceOffer 중고의 등급은 기종명의 등급 표기, 판매 가격과 같은 가격으로 관측된 등급 순으로 정합니다.
func usedDeviceOffer(s stockItem, idx usedIndex) offer.DeviceOffer {
	entry := idx[s.modelCode]

	var entryName string
	if entry != nil {
		entryName = entry.name
	}
	name := modelName(s, entryName)

	// id 로 찾지 못하면 기종명으로 다시 찾는다.
	if entry == nil {
		entry = idx.byName(name)
	}

	grade, name := extractRank(name)
	if grade == "" && entry != nil {
		grade, _ = extractRank(entry.name)
		if grade == "" {
			grade = entry.priceRank[s.priceKey()]
		}
	}

	price := normalize.PositivePrice(normalize.PriceOf(s.price))

	return offer.DeviceOffer{
		Model:     name,
		Capacity:  normalize.Capacity(s.capacity),
		Condition: normalize.EnsureUsedPrefix(grade),
		Stock:     offer.StockOf(s.available),
		Full:      price,
		Discount:  price,
		Return:    offer.NotApplicable(),
		Carrier:   Name,
	}
}

// modelName 재고 API 의 기종명, 가격 JSON 의 기종명, 모델 코드 순으로 사용합니다.
func modelName(s stockItem, catalogName string) string {
	switch {
	case s.derivedName != "":
		return cleanProductName(s.derivedName)
	case catalogName != "":
		return catalogName
	default:
		return fmt.Sprintf("(ID: %s)", s.modelCode)
	}
}

// extractRank 기종명에서 등급 표기를 찾아 등급과 표기를 뺀 기종명을 반환합니다.
func extractRank(name string) (string, string) {
	for _, re := range nameRankPatterns {
		if m := re.FindStringSubmatch(name); m != nil {
			return m[1], normalize.CleanModel(re.ReplaceAllString(name, ""))
		}
	}
	return "", name
}
