package au

import (
	"context"
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/tidwall/gjson"
)

var certifiedRank = normalize.Rank(regexp.MustCompile(`(?i)(?:ランク|Rank)[\s:：]*([SABC][+]?)`))

// productInfo 상품 코드 하나가 속한 상품 상세 경로와 상태입니다.
type productInfo struct {
	path      string
	condition offer.Condition
	nameRaw   string
}

// productCatalog 상품 코드 → 정보의 삽입 순서를 유지하는 맵입니다.
// 같은 코드가 다시 나오면 위치는 그대로 두고 정보만 갱신합니다.
type productCatalog struct {
	codes []string
	info  map[string]productInfo
}

func newProductCatalog() *productCatalog {
	return &productCatalog{info: make(map[string]productInfo)}
}

func (c *productCatalog) set(code string, info productInfo) {
	if _, exists := c.info[code]; !exists {
		c.codes = append(c.codes, code)
	}
	c.info[code] = info
}

func (c *productCatalog) lookup(code string) (productInfo, bool) {
	info, ok := c.info[code]
	return info, ok
}

func (c *productCatalog) len() int {
	return len(c.codes)
}

// pathGroup 재고 API 의 currentPagePath 가 같은 상품 코드 묶음입니다.
type pathGroup struct {
	path  string
	codes []string
}

// groupByPath 경로가 처음 등장한 순서대로 묶습니다.
func (c *productCatalog) groupByPath() []pathGroup {
	index := make(map[string]int)
	var groups []pathGroup
	for _, code := range c.codes {
		p := c.info[code].path
		i, ok := index[p]
		if !ok {
			i = len(groups)
			index[p] = i
			groups = append(groups, pathGroup{path: p})
		}
		groups[i].codes = append(groups[i].codes, code)
	}
	return groups
}

type catalogSource struct {
	name      string
	url       string
	certified bool
}

// fetchCatalog 신품(스마트폰, iPhone)과 인증 중고 목록에서 상품 코드를 모읍니다.
// 목록 하나를 가져오지 못하면 경고만 남기고 다음 목록으로 넘어갑니다.
func (a *adapter) fetchCatalog(ctx context.Context, cookie string) (*productCatalog, error) {
	sources := []catalogSource{
		{name: "Smartphone", url: a.settings.SmartphoneURL},
		{name: "iPhone", url: a.settings.IPhoneURL},
		{name: "Certified", url: a.settings.CertifiedURL, certified: true},
	}

	newPhoneDefaultPath := a.pagePath(a.settings.PricePageURL)

	catalog := newProductCatalog()
	for _, src := range sources {
		items, err := a.fetchCatalogList(ctx, src.url, cookie)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"source": src.name,
				"url":    src.url,
				"error":  err,
			}).Warn("단말 목록 조회에 실패하여 건너뜁니다")

			continue
		}

		if err := a.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		items.ForEach(func(_, item gjson.Result) bool {
			defaultPath := newPhoneDefaultPath
			if src.certified {
				defaultPath = certifiedDefaultPath
			}
			a.collectCodes(catalog, item, src.certified, defaultPath)
			return true
		})
	}

	return catalog, nil
}

// fetchCatalogList JSON 또는 자바스크립트 리터럴(.js) 형식의 목록을 배열로 반환합니다.
func (a *adapter) fetchCatalogList(ctx context.Context, url, cookie string) (gjson.Result, error) {
	resp, err := a.scraper.Fetch(ctx, a.request(url, cookie, ""))
	if err != nil {
		return gjson.Result{}, err
	}
	if !resp.OK() {
		return gjson.Result{}, newErrUnexpectedStatus(url, resp.StatusCode)
	}

	result, err := scraper.DecodeJSResult(scraper.DecodeText(resp.Body, resp.Header.Get("Content-Type")))
	if err != nil {
		return gjson.Result{}, err
	}
	if !result.IsArray() {
		return gjson.Result{}, newErrUnexpectedShape(url)
	}
	return result, nil
}

func (a *adapter) collectCodes(catalog *productCatalog, item gjson.Result, certified bool, defaultPath string) {
	nameRaw, _ := normalize.Chain[gjson.Result]{
		normalize.Field("productName"),
		normalize.Field("title"),
		normalize.Field("petName"),
	}.First(item)

	condition := offer.New
	if certified {
		condition = offer.Used
		if rank, ok := certifiedRank.First(nameRaw); ok {
			condition = offer.UsedWithGrade(rank)
		}
	}

	itemURL, _ := normalize.Chain[gjson.Result]{
		normalize.Field("productDetailUrl"),
		normalize.Field("url"),
	}.First(item)

	path := a.pagePath(itemURL)
	if path == "" {
		path = defaultPath
	}

	info := productInfo{path: path, condition: condition, nameRaw: nameRaw}

	if certified {
		for _, detail := range item.Get("detail").Array() {
			for _, color := range detail.Get("colorsAndOlsCode").Array() {
				if code := color.Get("olsProductCode").String(); code != "" {
					catalog.set(code, info)
				}
			}
		}
		return
	}

	for _, color := range item.Get("colorVariations").Array() {
		if code := color.Get("olsProductCode").String(); code != "" {
			catalog.set(code, info)
		}
	}
	for _, colorCap := range item.Get("colorsAndCapacities").Array() {
		for _, capacity := range colorCap.Get("capacities").Array() {
			code := capacity.Get("value").String()
			if code == "" {
				code = capacity.Get("olsProductCode").String()
			}
			if code != "" {
				catalog.set(code, info)
			}
		}
	}
}

// pagePath 상품 상세 URL 을 재고 API 의 currentPagePath 형식("/content/au-com/.../")으로 바꿉니다.
// 변환할 수 없으면 빈 문자열입니다.
func (a *adapter) pagePath(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	withSlash := func(p string) string {
		if strings.HasSuffix(p, "/") {
			return p
		}
		return p + "/"
	}

	if strings.HasPrefix(rawURL, "/content/au-com/") {
		p, _, _ := strings.Cut(rawURL, "?")
		return withSlash(p)
	}

	if !strings.HasPrefix(rawURL, a.settings.Origin) {
		return ""
	}

	p, _, _ := strings.Cut(strings.TrimPrefix(rawURL, a.settings.Origin), "?")
	if strings.HasPrefix(p, "/mobile/") || strings.HasPrefix(p, "/iphone/") {
		return withSlash("/content/au-com" + p)
	}
	return withSlash(p)
}
