package uqmobile

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
	"github.com/tidwall/gjson"
)

const (
	shopDetailPath = "/detail/"

	// 가격 필터가 MNP 이므로 재고도 MNP 계약 기준으로 조회한다.
	inventoryContract = "mnp"

	unknownStatus = "不明"
)

var (
	reInventoryScript = regexp.MustCompile(`src=["']([^"']*?/data/[^"']*?\.js[^"']*?)["']`)
	reProductList     = regexp.MustCompile(`const\s+productList\s*=\s*({[\s\S]*?});`)
	reDat             = regexp.MustCompile(`var\s+dat\s*=\s*({[\s\S]*?});`)
)

// stockEntry 숍 상세 페이지의 용량/색상별 재고입니다.
type stockEntry struct {
	capacity string
	color    string
	status   string
}

// inventoryTarget 재고를 조회할 숍 상세 페이지입니다.
// guessed 가 true 이면 기종명으로 추측한 URL 이므로 신뢰도가 낮습니다.
type inventoryTarget struct {
	url     string
	guessed bool
}

// inventoryTargets 가격 행마다 재고를 조회할 숍 상세 페이지를 정합니다.
// 제품 목록에 숍 링크가 있으면 그 링크를, 없으면 기종명으로 추측한 URL 을 사용합니다.
func (a *adapter) inventoryTargets(index *productIndex, prices []priceItem) []inventoryTarget {
	seen := make(map[string]struct{})
	var targets []inventoryTarget

	add := func(u string, guessed bool) {
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		targets = append(targets, inventoryTarget{url: u, guessed: guessed})
	}

	for _, item := range prices {
		name := item.displayName()

		p, ok := index.lookup(name)
		switch {
		case !ok:
			add(guessShopURL(a.settings.ShopDomain, name), true)
		case a.isShopDetailLink(p.LinkShop):
			add(p.LinkShop, false)
		case p.hasDetailPage():
			add(guessShopURL(a.settings.ShopDomain, name), true)
		}
	}

	return targets
}

// isShopDetailLink 온라인 숍 도메인의 상세 페이지 링크인지 확인합니다.
func (a *adapter) isShopDetailLink(link string) bool {
	shop, err := url.Parse(a.settings.ShopDomain)
	if err != nil || shop.Host == "" {
		return false
	}
	return strings.Contains(link, shop.Host+shopDetailPath)
}

// fetchInventory 숍 상세 페이지에서 재고 스크립트를 찾아 용량/색상별 재고를 읽습니다.
// 결과는 normalizeURL 로 정규화한 상세 페이지 경로를 키로 합니다.
func (a *adapter) fetchInventory(ctx context.Context, targets []inventoryTarget) (map[string][]stockEntry, error) {
	pageURLs := make([]string, len(targets))
	for i, t := range targets {
		pageURLs[i] = t.url
	}

	pages, err := a.fetchBatched(ctx, pageURLs)
	if err != nil {
		return nil, err
	}

	var shopURLs, scriptURLs []string
	for i, page := range pages {
		if page == "" {
			continue
		}

		src, err := scraper.ExtractMatch(page, reInventoryScript)
		if err != nil {
			continue
		}

		shopURLs = append(shopURLs, targets[i].url)
		scriptURLs = append(scriptURLs, a.inventoryScriptURL(targets[i].url, src))
	}

	scripts, err := a.fetchBatched(ctx, scriptURLs)
	if err != nil {
		return nil, err
	}

	inventory := make(map[string][]stockEntry)
	for i, script := range scripts {
		if script == "" {
			continue
		}

		entries, err := parseInventoryScript(script)
		if err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"url":   scriptURLs[i],
				"error": err,
			}).Debug("재고 스크립트 해석에 실패하여 건너뜁니다")

			continue
		}
		if len(entries) > 0 {
			inventory[normalizeURL(shopURLs[i])] = entries
		}
	}

	return inventory, nil
}

// inventoryScriptURL 재고 스크립트 경로를 절대 URL 로 바꾸고 contract 파라미터가 없으면 추가합니다.
func (a *adapter) inventoryScriptURL(pageURL, src string) string {
	src = strings.ReplaceAll(src, "&amp;", "&")

	switch {
	case strings.HasPrefix(src, "http"):
	case strings.HasPrefix(src, "/"):
		src = strings.TrimRight(a.settings.ShopDomain, "/") + src
	default:
		base, _, _ := strings.Cut(pageURL, "?")
		src = base[:strings.LastIndex(base, "/")+1] + src
	}

	if !strings.Contains(src, "contract=") {
		sep := "?"
		if strings.Contains(src, "?") {
			sep = "&"
		}
		src += sep + "contract=" + url.QueryEscape(inventoryContract)
	}
	return src
}

// parseInventoryScript productList(SKU 별 판매 상태)와 dat(용량별 색상 SKU)를 조합합니다.
func parseInventoryScript(script string) ([]stockEntry, error) {
	plSrc, err := scraper.ExtractMatch(script, reProductList)
	if err != nil {
		return nil, err
	}
	datSrc, err := scraper.ExtractMatch(script, reDat)
	if err != nil {
		return nil, err
	}

	productList, err := scraper.DecodeJSResult(plSrc)
	if err != nil {
		return nil, err
	}
	dat, err := scraper.DecodeJSResult(datSrc)
	if err != nil {
		return nil, err
	}

	sales := make(map[string]gjson.Result)
	productList.ForEach(func(sku, info gjson.Result) bool {
		sales[sku.String()] = info
		return true
	})

	var entries []stockEntry
	dat.Get("storage_types").ForEach(func(_, storage gjson.Result) bool {
		capacity := storage.Get("name").String()

		storage.Get("colorMap").ForEach(func(_, color gjson.Result) bool {
			status := unknownStatus
			if info, ok := sales[color.Get("deviceCode").String()]; ok {
				status = info.Get("supplement").String()
				if status == "" {
					if info.Get("salesStatus").String() == "1" {
						status = "在庫あり"
					} else {
						status = "在庫なし"
					}
				}
			}

			entries = append(entries, stockEntry{capacity: capacity, color: color.Get("name").String(), status: status})
			return true
		})
		return true
	})

	return entries, nil
}

// fetchBatched BatchSize 개씩 순서대로 가져오며, 묶음 사이에는 BatchInterval 만큼 대기합니다.
// 실패한 URL 의 결과는 빈 문자열입니다.
func (a *adapter) fetchBatched(ctx context.Context, urls []string) ([]string, error) {
	results := make([]string, len(urls))

	for i, u := range urls {
		if i%a.settings.BatchSize == 0 {
			if err := a.pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}

		text, err := a.fetchText(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"url":   u,
				"error": err,
			}).Debug("페이지 조회에 실패하여 건너뜁니다")

			continue
		}
		results[i] = text
	}

	return results, nil
}

func (a *adapter) fetchText(ctx context.Context, u string) (string, error) {
	return a.scraper.FetchText(ctx, a.get(u))
}
