// Package rakuten 楽天モバイル의 단말 가격을 수집합니다.
//
// 단말 검색 API 를 카테고리별로 페이지를 넘기며 조회하고, 제품 그룹과 SKU 상세 API 로 SIM 프리 가격과
// 분할 납부 금액을 읽습니다. 할인 가격과 반환 가격은 API 에 없으므로 제품 페이지와 페이지가 참조하는
// 청크 JS 에서 읽으며, 제품 페이지 조회 횟수는 한 번의 수집마다 PageBudget 으로 제한됩니다.
// 마지막으로 楽天認定中古 페이지의 중고 단말을 추가합니다.
package rakuten

import (
	"context"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const (
	ID   provider.ID = "rakuten"
	Name             = "rakuten"

	component = "provider.rakuten"
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
	return &adapter{scraper: p.Scraper, compare: p.Compare, settings: s, pacer: provider.NewPacer(s.Interval)}, nil
}

func (a *adapter) get(url string) scraper.Request {
	return scraper.Get(url).WithHeader("User-Agent", a.settings.UserAgent)
}

func (a *adapter) post(url string, body any) scraper.Request {
	return scraper.PostJSON(url, body).WithHeaders(provider.Header(
		"User-Agent", a.settings.UserAgent,
		"Origin", a.settings.Origin,
		"Referer", strings.TrimRight(a.settings.Origin, "/")+"/",
	))
}

// entry 기종명|용량 으로 묶은 신품 SKU 입니다. 제품 페이지는 묶음마다 한 번만 조회하고,
// 가격은 색상별 SKU 마다 따로 유지하여 마지막에 가장 낮은 것을 고릅니다.
type entry struct {
	skus     []offer.DeviceOffer
	capacity string
	pageURL  string
	enriched bool
}

func (a *adapter) Fetch(ctx context.Context) ([]offer.DeviceOffer, error) {
	var groups []group
	reachable := false
	for _, category := range a.settings.Categories {
		found, ok, err := a.searchCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		reachable = reachable || ok
		groups = append(groups, found...)
	}
	if !reachable {
		return nil, ErrNoEquipments
	}

	skus, err := a.collectSKUs(ctx, groups)
	if err != nil {
		return nil, err
	}

	entries, err := a.buildEntries(ctx, skus)
	if err != nil {
		return nil, err
	}

	budget := provider.NewBudget(a.settings.PageBudget)
	if err := a.enrich(ctx, entries, budget); err != nil {
		return nil, err
	}

	offers := make([]offer.DeviceOffer, 0, len(skus))
	for _, e := range entries {
		offers = append(offers, e.skus...)
	}

	used := a.fetchCertified(ctx)
	offers = aggregate.Engine{Price: a.compare}.Merge(append(offers, used...))

	applog.WithComponentAndFields(component, applog.Fields{
		"groups":      len(groups),
		"skus":        len(skus),
		"pages":       budget.Used(),
		"used_offers": len(used),
		"offers":      len(offers),
	}).Info("楽天モバイル 단말 가격 수집 완료")

	return offers, nil
}

// collectSKUs 제품 그룹마다 SKU 목록을 조회합니다. 같은 SKU 는 처음 등장한 그룹의 것만 사용합니다.
func (a *adapter) collectSKUs(ctx context.Context, groups []group) ([]sku, error) {
	seen := make(map[string]struct{})
	var skus []sku

	for _, g := range groups {
		if g.id == "" {
			continue
		}

		for _, s := range a.fetchGroupSKUs(ctx, g) {
			if s.id == "" {
				continue
			}
			if _, dup := seen[s.id]; dup {
				continue
			}
			seen[s.id] = struct{}{}
			skus = append(skus, s)
		}

		if err := a.pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return skus, nil
}

// buildEntries SKU 상세를 조회하여 기종명|용량 으로 묶습니다.
func (a *adapter) buildEntries(ctx context.Context, skus []sku) ([]*entry, error) {
	index := make(map[string]*entry)
	var entries []*entry

	for i, s := range skus {
		if i > 0 && a.settings.DetailsBatch > 0 && i%a.settings.DetailsBatch == 0 {
			if err := a.pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}

		details, ok := a.fetchDetails(ctx, s.id)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		name := cleanSKUName(s.name, s.capacity, s.color)
		key := name + "|" + s.capacity

		var full, ret offer.Price
		if ok {
			full, ret = detailPrices(details)
		}

		o := offer.DeviceOffer{
			Model:     name,
			Capacity:  normalize.Capacity(s.capacity),
			Condition: offer.New,
			Stock:     offer.StockOf(s.available),
			Full:      full,
			Return:    ret,
			Carrier:   Name,
		}

		if e, exists := index[key]; exists {
			e.skus = append(e.skus, o)
			if e.pageURL == "" {
				e.pageURL = s.pageURL
			}
			continue
		}

		e := &entry{skus: []offer.DeviceOffer{o}, capacity: s.capacity, pageURL: s.pageURL}
		index[key] = e
		entries = append(entries, e)
	}

	return entries, nil
}

// enrich 제품 페이지에서 할인 가격과 반환 가격을 채웁니다. budget 을 모두 쓰면 나머지는 API 의 값만 사용합니다.
// iPhone 은 상세 API 의 반환 가격이 있으면 그 값을 유지합니다.
func (a *adapter) enrich(ctx context.Context, entries []*entry, budget *provider.Budget) error {
	for _, e := range entries {
		if e.pageURL == "" {
			continue
		}
		if !budget.Take() {
			applog.WithComponentAndFields(component, applog.Fields{
				"remaining_entries": countPending(entries),
				"budget":            a.settings.PageBudget,
			}).Info("제품 페이지 조회 한도에 도달하여 나머지 단말은 API 의 가격만 사용합니다")

			return nil
		}

		if err := a.pacer.Wait(ctx); err != nil {
			return err
		}

		page, ok := a.fetchPagePrices(ctx, e.pageURL, e.capacity)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.enriched = true
		if !ok {
			continue
		}

		for i := range e.skus {
			applyPagePrices(&e.skus[i], page)
		}
	}

	return nil
}

// applyPagePrices 제품 페이지의 가격을 SKU 하나에 반영합니다.
func applyPagePrices(o *offer.DeviceOffer, page pagePrices) {
	switch {
	case page.discounted.Valid():
		o.Discount = page.discounted
	case o.Full.Valid() && page.firstTimePoint.IsPositive():
		full, _ := o.Full.Value()
		if v := full.Sub(page.firstTimePoint); !v.IsNegative() {
			o.Discount = offer.Amount(v)
		}
	}

	keepAPIReturn := strings.Contains(o.Model, "iPhone") && o.Return.Valid()
	if !keepAPIReturn && page.ret.Valid() {
		o.Return = page.ret
	}
}

func countPending(entries []*entry) int {
	n := 0
	for _, e := range entries {
		if e.pageURL != "" && !e.enriched {
			n++
		}
	}
	return n
}

// fetchCertified 楽天認定中古 페이지의 중고 단말입니다. 실패하면 경고를 남기고 빈 결과를 반환합니다.
func (a *adapter) fetchCertified(ctx context.Context) []offer.DeviceOffer {
	if a.settings.CertifiedURL == "" {
		return nil
	}

	doc, err := a.scraper.FetchHTML(ctx, a.get(a.settings.CertifiedURL))
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"url":   a.settings.CertifiedURL,
			"error": err,
		}).Warn("認定中古 페이지 조회에 실패하여 중고 단말을 건너뜁니다")

		return nil
	}

	return parseCertified(doc)
}
