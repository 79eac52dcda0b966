package uqmobile

import (
	"context"
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/tidwall/gjson"
)

// 가격 JSON 의 열 이름입니다.
const (
	fieldOrder        = "オーダー"
	fieldOption       = "増量オプション"
	fieldPower        = "Power"
	fieldPlanName     = "体系表機種名"
	fieldDisplayName  = "PC表示名"
	fieldInstallment  = "割賦代金"
	fieldLumpSum      = "端末代金一括"
	fieldReturnBurden = "スマトク_24回実質負担金"

	orderMNP     = "MNP"
	optionActive = "あり"
)

var (
	targetPowers = []string{"トクトク2", "コミプラ", "コミコミ"}

	reUtilScript = regexp.MustCompile(`src="([^"]*?productprice2024util\.js[^"]*)"`)
	rePriceJSON  = regexp.MustCompile(`['"]([^'"]*?product_prices[^'"]*?\.json)['"]`)
)

// priceItem 가격 JSON 의 한 행입니다.
type priceItem struct {
	gjson.Result
}

// displayName 体系表機種名, 없으면 PC表示名 입니다.
func (p priceItem) displayName() string {
	if v := p.Get(fieldPlanName).String(); v != "" {
		return v
	}
	return p.Get(fieldDisplayName).String()
}

// fetchPrices 제품 목록 페이지가 참조하는 유틸 스크립트에서 가격 JSON 경로를 찾아 조회합니다.
// MNP, 増量オプション あり, 대상 요금제 행만 남기고, (기종명, 일괄 가격)이 같은 행은 하나만 남깁니다.
func (a *adapter) fetchPrices(ctx context.Context, html string) []priceItem {
	scriptPath, err := scraper.ExtractMatch(html, reUtilScript)
	if err != nil {
		a.warn("가격 유틸 스크립트를 찾지 못했습니다", err)
		return nil
	}

	script, err := a.fetchText(ctx, a.absoluteURL(scriptPath))
	if err != nil {
		a.warn("가격 유틸 스크립트 조회에 실패했습니다", err)
		return nil
	}

	jsonPath, err := scraper.ExtractMatch(script, rePriceJSON)
	if err != nil {
		a.warn("가격 JSON 경로를 찾지 못했습니다", err)
		return nil
	}

	doc, err := scraper.FetchResult(ctx, a.scraper, a.get(a.priceJSONURL(jsonPath)))
	if err != nil {
		a.warn("가격 JSON 조회에 실패했습니다", err)
		return nil
	}

	seen := make(map[string]struct{})
	var items []priceItem
	doc.ForEach(func(_, r gjson.Result) bool {
		item := priceItem{r}
		if !isTargetPrice(item) {
			return true
		}

		key := item.displayName() + "_" + item.Get(fieldLumpSum).String()
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}

		items = append(items, item)
		return true
	})

	return items
}

func isTargetPrice(p priceItem) bool {
	if p.Get(fieldOrder).String() != orderMNP || p.Get(fieldOption).String() != optionActive {
		return false
	}

	power := p.Get(fieldPower).String()
	for _, target := range targetPowers {
		if strings.Contains(power, target) {
			return true
		}
	}
	return false
}

// priceJSONURL "json/..." 이나 파일 이름만 있는 경로는 /json/ 아래로 간주합니다.
func (a *adapter) priceJSONURL(path string) string {
	switch {
	case strings.HasPrefix(path, "http"):
		return path
	case strings.HasPrefix(path, "/"):
		return a.settings.BaseDomain + path
	case strings.HasPrefix(path, "json/"):
		return a.settings.BaseDomain + "/" + path
	default:
		return a.settings.BaseDomain + "/json/" + path
	}
}

func (a *adapter) absoluteURL(path string) string {
	if strings.HasPrefix(path, "/") {
		return a.settings.BaseDomain + path
	}
	return path
}

func (a *adapter) warn(message string, err error) {
	applog.WithComponentAndFields(component, applog.Fields{
		"error": err,
	}).Warn(message)
}
