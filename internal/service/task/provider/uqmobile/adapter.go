// Package uqmobile UQ mobile 의 제품 목록, 가격 JSON, 숍 재고 페이지를 기종명으로 연결하여 MNP 가격을 수집합니다.
//
// 세 데이터는 서로 다른 시스템에서 오므로 공통 식별자가 없습니다. 기종명을 정규화한 키로 연결하며,
// 숍 링크가 없는 기종은 기종명으로 상세 페이지 URL 을 추측합니다.
package uqmobile

import (
	"context"
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const (
	ID   provider.ID = "uqmobile"
	Name             = "UQ"

	component = "provider.uqmobile"
)

var (
	reUQTag            = regexp.MustCompile(`【UQ】`)
	reVariant          = regexp.MustCompile(`(?i)[（(][XV][)）]`)
	reCapacitySuffix   = regexp.MustCompile(`(?i)(\d+GB)$`)
	reCertifiedMark    = regexp.MustCompile(`(?i)au\s*Certified|[（(]認定中古品[)）]`)
	certifiedNameMarks = []string{"Certified", "認定中古品"}
)

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
	pacer    *provider.Pacer
}

func newAdapter(p provider.NewAdapterParams) (provider.Adapter, error) {
	s, err := provider.DecodeSettings[settings](p.Settings)
	if err != nil {
		return nil, err
	}
	return &adapter{scraper: p.Scraper, compare: p.Compare, settings: s, pacer: provider.NewPacer(s.BatchInterval)}, nil
}

func (a *adapter) get(url string) scraper.Request {
	return scraper.Get(url).WithHeader("User-Agent", a.settings.UserAgent)
}

func (a *adapter) Fetch(ctx context.Context) ([]offer.DeviceOffer, error) {
	html, err := a.fetchText(ctx, a.settings.ProductsPageURL)
	if err != nil {
		return nil, newErrFetchProductsPage(err)
	}

	products, err := extractProducts(html)
	if err != nil {
		return nil, newErrExtractProducts(err)
	}

	a.complementCertifiedLinks(ctx, products)

	prices := a.fetchPrices(ctx, html)
	if len(prices) == 0 {
		return nil, ErrNoPrices
	}

	index := newProductIndex(products, a.settings.FuzzyThreshold)

	inventory, err := a.fetchInventory(ctx, a.inventoryTargets(index, prices))
	if err != nil {
		return nil, err
	}

	candidates := make([]offer.DeviceOffer, 0, len(prices))
	for _, item := range prices {
		o, ok := a.offerOf(item, index, inventory)
		if !ok {
			continue
		}
		candidates = append(candidates, o)
	}

	// 요금제(Power)별 가격 행이 같은 키로 여러 개 나오므로 비교 가격이 가장 낮은 행을 남긴다.
	offers := aggregate.Engine{Price: a.compare}.CollapseAll(candidates)

	applog.WithComponentAndFields(component, applog.Fields{
		"products":  len(products),
		"prices":    len(prices),
		"inventory": len(inventory),
		"offers":    len(offers),
	}).Info("UQ mobile 단말 가격 수집 완료")

	return offers, nil
}

// offerOf 가격 행 하나에 제품 정보와 재고를 연결합니다.
func (a *adapter) offerOf(item priceItem, index *productIndex, inventory map[string][]stockEntry) (offer.DeviceOffer, bool) {
	dispName := item.displayName()
	if dispName == "" {
		return offer.DeviceOffer{}, false
	}

	stocks := a.stocksOf(dispName, index, inventory)

	name := normalize.HalfWidth(dispName)
	name = reUQTag.ReplaceAllString(name, "")
	name = reVariant.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	var capacity string
	if m := reCapacitySuffix.FindStringSubmatch(name); m != nil {
		capacity = m[1]
		name = strings.TrimSpace(strings.TrimSuffix(name, m[1]))
	} else if len(stocks) > 0 {
		capacity = stocks[0].capacity
	}

	condition := offer.New
	for _, mark := range certifiedNameMarks {
		if strings.Contains(name, mark) {
			condition = offer.Used
			name = reCertifiedMark.ReplaceAllString(name, "")
			break
		}
	}

	o := offer.DeviceOffer{
		Model:     normalize.FullWidthParens(normalize.CleanModel(name)),
		Capacity:  normalize.Capacity(capacity),
		Condition: condition,
		Stock:     stockOf(stocks, capacity),
		Full:      normalize.PositivePrice(normalize.PriceOf(item.Get(fieldInstallment))),
		Discount:  normalize.PositivePrice(normalize.PriceOf(item.Get(fieldLumpSum))),
		Return:    normalize.PositivePrice(normalize.PriceOf(item.Get(fieldReturnBurden))),
		Carrier:   Name,
	}
	return o, o.Model != ""
}

// stocksOf 제품의 숍 링크로 재고를 찾고, 없으면 추측한 URL 로 찾습니다.
func (a *adapter) stocksOf(dispName string, index *productIndex, inventory map[string][]stockEntry) []stockEntry {
	p, fuzzy, ok := index.match(dispName)
	if ok && fuzzy {
		applog.WithComponentAndFields(component, applog.Fields{
			"name":       dispName,
			"matched":    p.Name,
			"confidence": "low",
		}).Info("기종명이 정확히 일치하지 않아 유사도로 제품을 연결했습니다")
	}

	if ok && p.LinkShop != "" {
		if stocks, found := inventory[normalizeURL(p.LinkShop)]; found {
			return stocks
		}
	}

	guessed := guessShopURL(a.settings.ShopDomain, dispName)
	if stocks, found := inventory[normalizeURL(guessed)]; found {
		applog.WithComponentAndFields(component, applog.Fields{
			"name":       dispName,
			"url":        guessed,
			"confidence": "low",
		}).Debug("추측한 숍 URL 의 재고를 사용합니다")

		return stocks
	}

	return nil
}

// stockOf 용량이 일치하는 항목 중 하나라도 在庫あり 이면 재고 있음입니다.
// 용량이 일치하는 항목이 없으면 전체 항목으로 판단합니다.
func stockOf(stocks []stockEntry, capacity string) offer.Stock {
	target := stocks
	if capacity != "" {
		want := normalize.Capacity(capacity)

		var filtered []stockEntry
		for _, s := range stocks {
			if normalize.Capacity(s.capacity) == want {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) > 0 {
			target = filtered
		}
	}

	for _, s := range target {
		if strings.Contains(s.status, string(offer.InStock)) {
			return offer.InStock
		}
	}
	return offer.OutOfStock
}
