package rakuten

import (
	"context"
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/shopspring/decimal"
)

const (
	returnProgramName = "買い替え超トクプログラム"
	returnProgramPath = "replacement-program"

	returnMonths = 24
)

// 제품 페이지 HTML 의 가격 라벨입니다. 라벨 뒤 300자 안에서 "<금액>円" 을 찾습니다.
var (
	reDiscountedLabel   = labelPrice("値引き後価格")
	reTotalPaymentLabel = labelPrice("支払い総額")
	reBurdenLabel       = labelPrice("実質負担額")
	reMonthly48Label    = labelPrice("48回払い")

	reChunkScript = regexp.MustCompile(`src=["'](/_next/static/chunks/pages/product/[^"']+\.js)["']`)

	reFirstTimePoint = jsNumber(`\bfirstTimeApplyPoint`)
	reLumpSum        = jsNumber(`\blumpSum`)
	reDivision48     = jsNumber(`\bdivision48`)
	rePrice          = jsNumber(`\bprice`)
	reSimplePrice    = regexp.MustCompile(`(?:[{,]\s*)\bprice\s*:\s*([0-9eE.]+)`)
	reJSXMonthly     = regexp.MustCompile(`children\s*:\s*["']\s*([0-9,]+)\s*["']\s*\}\s*\)\s*,\s*["']円/月["']`)
)

func labelPrice(label string) *regexp.Regexp {
	return regexp.MustCompile(label + `[\s\S]{0,300}?([0-9]{1,3}(?:,[0-9]{3})*)\s*(?:</span>)?\s*(?:<span>)?円`)
}

func jsNumber(key string) *regexp.Regexp {
	return regexp.MustCompile(key + `\s*:\s*([0-9eE.]+)`)
}

// pagePrices 제품 페이지에서 읽은 가격입니다.
type pagePrices struct {
	// firstTimePoint 첫 구매 포인트 할인액입니다.
	firstTimePoint decimal.Decimal
	discounted     offer.Price
	ret            offer.Price
}

// htmlPrices 제품 페이지 HTML 본문의 가격 라벨에서 읽은 값입니다.
type htmlPrices struct {
	discounted    offer.Price
	ret           offer.Price
	returnProgram bool
}

func parseHTMLPrices(html string) htmlPrices {
	var p htmlPrices

	if v, ok := matchAmount(html, reDiscountedLabel); ok {
		p.discounted = offer.Amount(v)
	} else if v, ok := matchAmount(html, reTotalPaymentLabel); ok {
		p.discounted = offer.Amount(v)
	}

	if v, ok := matchAmount(html, reBurdenLabel); ok {
		p.ret = offer.Amount(v)
	} else if v, ok := matchAmount(html, reMonthly48Label); ok {
		p.ret = offer.Amount(v.Mul(decimal.NewFromInt(returnMonths)))
		p.returnProgram = true
	}

	return p
}

// chunkPrices Next.js 페이지 청크 JS 에서 읽은 값입니다.
type chunkPrices struct {
	firstTimePoint decimal.Decimal
	price          decimal.Decimal
	division48     decimal.Decimal

	// capacityFound 용량별 블록에서 가격을 찾았으면 true 이며, 이때는 HTML 의 값을 사용하지 않는다.
	capacityFound bool
	returnProgram bool
}

// parseChunkPrices 용량별 블록("128GB": {lumpSum, division48}), 용량이 들어간 객체,
// division48Before<용량>/priceOf<용량> 변수 순으로 찾고, 모두 없으면 처음 나오는 price/division48 을 사용합니다.
func parseChunkPrices(js, capacity string, returnProgram bool) chunkPrices {
	c := chunkPrices{returnProgram: returnProgram}

	c.firstTimePoint, _ = matchNumber(js, reFirstTimePoint)

	if !c.returnProgram && (strings.Contains(js, returnProgramName) || strings.Contains(js, returnProgramPath)) {
		c.returnProgram = true
	}

	if capacity != "" {
		capPattern := regexp.QuoteMeta(capacity)

		blockRe := regexp.MustCompile(`(?i)["']?` + capPattern + `["']?\s*:\s*\{([^}]+)\}`)
		storageRe := regexp.MustCompile(`(?i)\{[^}]*?` + capPattern + `[^}]*?\}`)

		if m := blockRe.FindStringSubmatch(js); m != nil {
			c.setPrice(m[1], reLumpSum)
			c.setDivision48(m[1])
		} else if m := storageRe.FindString(js); m != "" {
			c.setPrice(m, rePrice)
			c.setDivision48(m)
		}

		lower := strings.ToLower(capPattern)
		beforeRe := regexp.MustCompile(`(?i)division48Before` + lower + `\s*:\s*([0-9eE.]+)`)
		if v, ok := matchNumber(js, beforeRe); ok {
			c.division48 = v
			c.capacityFound = true
			c.returnProgram = true

			priceOfRe := regexp.MustCompile(`(?i)priceOf` + lower + `\s*:\s*([0-9eE.]+)`)
			if v, ok := matchNumber(js, priceOfRe); ok {
				c.price = v
			}
		}
	}

	if !c.capacityFound {
		if c.price.IsZero() {
			c.price, _ = matchNumber(js, reSimplePrice)
		}
		if c.division48.IsZero() {
			c.division48, _ = matchNumber(js, reDivision48)
		}
	}

	if c.returnProgram && c.division48.IsZero() {
		if m := reJSXMonthly.FindStringSubmatch(js); m != nil {
			if v, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "")); err == nil {
				c.division48 = v
			}
		}
	}

	return c
}

func (c *chunkPrices) setPrice(block string, re *regexp.Regexp) {
	if v, ok := matchNumber(block, re); ok {
		c.price = v
		c.capacityFound = true
	}
}

func (c *chunkPrices) setDivision48(block string) {
	if v, ok := matchNumber(block, reDivision48); ok {
		c.division48 = v
		c.capacityFound = true
	}
}

// combinePrices 청크 JS 의 값을 우선하고, 청크에서 정하지 못한 값만 HTML 의 값을 사용합니다.
func combinePrices(h htmlPrices, c *chunkPrices) pagePrices {
	if c == nil {
		return pagePrices{discounted: h.discounted, ret: h.ret}
	}

	if c.capacityFound {
		h.discounted, h.ret = offer.Price{}, offer.Price{}
	}

	p := pagePrices{firstTimePoint: c.firstTimePoint, discounted: h.discounted, ret: h.ret}

	if c.price.IsPositive() && c.firstTimePoint.IsPositive() {
		if v := c.price.Sub(c.firstTimePoint); !v.IsNegative() {
			p.discounted = offer.Amount(v)
		}
	}
	if c.returnProgram && c.division48.IsPositive() {
		p.ret = offer.Amount(c.division48.Mul(decimal.NewFromInt(returnMonths)))
	}

	return p
}

// fetchPagePrices 제품 페이지와 페이지가 참조하는 청크 JS 에서 가격을 읽습니다.
// 페이지 조회에 실패하면 ok 가 false 이며, 청크 JS 조회에 실패하면 HTML 의 값만 사용합니다.
func (a *adapter) fetchPagePrices(ctx context.Context, pageURL, capacity string) (pagePrices, bool) {
	html, err := a.scraper.FetchText(ctx, a.get(pageURL))
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"url":   pageURL,
			"error": err,
		}).Warn("제품 페이지 조회에 실패했습니다")

		return pagePrices{}, false
	}

	h := parseHTMLPrices(html)

	path, err := scraper.ExtractMatch(html, reChunkScript)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"url": pageURL,
		}).Debug("청크 JS 경로를 찾지 못해 HTML 의 가격을 사용합니다")

		return combinePrices(h, nil), true
	}

	js, err := a.scraper.FetchText(ctx, a.get(strings.TrimRight(a.settings.ChunkBaseURL, "/")+path))
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"path":  path,
			"error": err,
		}).Warn("청크 JS 조회에 실패하여 HTML 의 가격을 사용합니다")

		return combinePrices(h, nil), true
	}

	c := parseChunkPrices(js, capacity, h.returnProgram)
	return combinePrices(h, &c), true
}

func matchAmount(s string, re *regexp.Regexp) (decimal.Decimal, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	return d, err == nil
}

func matchNumber(s string, re *regexp.Regexp) (decimal.Decimal, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(m[1])
	return d, err == nil
}
