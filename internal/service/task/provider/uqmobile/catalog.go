package uqmobile

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const (
	productsStartMarker = "let _productsTxt = `"
	productsEndMarker   = "`;"
)

// product 제품 목록 페이지에 내장된 _products 배열의 항목입니다.
type product struct {
	Name                string `json:"name"`
	LinkShop            string `json:"link_shop"`
	EntryIPhonePageLink string `json:"entryiphonepagelink"`
	URL                 string `json:"url"`
}

func (p product) hasDetailPage() bool {
	return p.EntryIPhonePageLink != "" || p.URL != ""
}

func (p product) certified() bool {
	return strings.Contains(p.Name, "Certified") || strings.Contains(p.Name, "認定中古品")
}

// extractProducts 페이지 스크립트의 템플릿 리터럴에 들어 있는 제품 배열을 해석합니다.
func extractProducts(html string) ([]product, error) {
	src, err := scraper.ExtractBetween(html, productsStartMarker, productsEndMarker)
	if err != nil {
		return nil, err
	}

	var products []product
	if err := scraper.DecodeJS(src, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// complementCertifiedLinks 숍 링크가 없는 인증 중고 제품에 인증 중고 페이지의 상세 링크를 채웁니다.
// 페이지를 가져오지 못하면 아무것도 하지 않습니다.
func (a *adapter) complementCertifiedLinks(ctx context.Context, products []product) {
	doc, err := a.scraper.FetchHTML(ctx, a.get(a.settings.CertifiedPageURL))
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"url":   a.settings.CertifiedPageURL,
			"error": err,
		}).Warn("인증 중고 페이지 조회에 실패하여 링크 보완을 건너뜁니다")

		return
	}

	links := a.detailLinks(doc)

	fixed := 0
	for i := range products {
		p := &products[i]
		if p.LinkShop != "" || !p.certified() {
			continue
		}

		normName := normalizeName(p.Name)
		for _, link := range links {
			if linkMatchesName(link, normName) {
				p.LinkShop = link
				fixed++
				break
			}
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"links": len(links),
		"fixed": fixed,
	}).Debug("인증 중고 제품의 숍 링크 보완 완료")
}

// detailLinks "detail" 이 들어 있는 링크를 절대 URL 로 바꾸어 중복 없이 반환합니다.
func (a *adapter) detailLinks(doc *goquery.Document) []string {
	base, _ := url.Parse(a.settings.CertifiedPageURL)
	shop, _ := url.Parse(a.settings.ShopDomain)

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href*='detail']").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}

		var abs *url.URL
		switch {
		case strings.HasPrefix(href, "/") && shop != nil:
			abs = shop.ResolveReference(ref)
		case base != nil:
			abs = base.ResolveReference(ref)
		default:
			abs = ref
		}
		abs.RawQuery, abs.Fragment = "", ""

		link := abs.String()
		if _, dup := seen[link]; !dup {
			seen[link] = struct{}{}
			links = append(links, link)
		}
	})

	return links
}
