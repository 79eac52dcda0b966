package uqmobile

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
)

var (
	reBrandTag         = regexp.MustCompile(`【uq】`)
	reCertified        = regexp.MustCompile(`au\s*certified|認定中古品`)
	reVariantMark      = regexp.MustCompile(`[（(][xv][)）]`)
	reGeneration       = regexp.MustCompile(`[（(]第([0-9]+)世代[)）]`)
	reGenerationEn     = regexp.MustCompile(`\(.*?generation\)`)
	reGB               = regexp.MustCompile(`[0-9]+gb`)
	re5G               = regexp.MustCompile(`5g`)
	reParenthesized    = regexp.MustCompile(`[（(].*?[)）]`)
	reModelNumber      = regexp.MustCompile(`\s+[a-z]{3,}[0-9]{2,}$`)
	reSpaceOrPunct     = regexp.MustCompile("[\\s!-/:-@\\[-`{-~]")
	reNonSlugChar      = regexp.MustCompile(`[^a-z0-9\s]`)
	reSeriesNumber     = regexp.MustCompile(`(iphone|pixel)\s+([0-9])`)
	reSpaces           = regexp.MustCompile(`\s+`)
	reUnderscores      = regexp.MustCompile(`_+`)
	reDetailCertified  = regexp.MustCompile(`detail|au_?certified|certified|[^a-z0-9]`)
	reTrailingIndexDoc = regexp.MustCompile(`/index\.html$`)
)

// normalizeName 서로 다른 데이터 소스의 기종명을 연결하기 위한 키를 만듭니다.
// 용량, 세대, 5G, 괄호 안 표기, 형번, 공백과 기호를 모두 제거합니다.
//
//	"au Certified iPhone 13 128GB" -> "certifiediphone13"
func normalizeName(name string) string {
	if name == "" {
		return ""
	}

	s := normalize.HalfWidth(strings.ToLower(name))
	s = reBrandTag.ReplaceAllString(s, "")
	s = reCertified.ReplaceAllString(s, "certified")
	s = reVariantMark.ReplaceAllString(s, "")
	s = reGeneration.ReplaceAllString(s, "")
	s = reGenerationEn.ReplaceAllString(s, "")
	s = reGB.ReplaceAllString(s, "")
	s = re5G.ReplaceAllString(s, "")
	s = reParenthesized.ReplaceAllString(s, "")

	if !strings.Contains(s, "iphone") && !strings.Contains(s, "pixel") {
		s = reModelNumber.ReplaceAllString(strings.TrimRight(s, " "), "")
	}

	return reSpaceOrPunct.ReplaceAllString(s, "")
}

// guessShopURL 기종명으로 온라인 숍 상세 페이지 URL 을 추측합니다.
//
//	"iPhone 14"                   -> "<shop>/detail/iphone14/"
//	"au Certified iPhone 14 Pro"  -> "<shop>/detail/aucertified_iphone14_pro/"
//	"iPhone SE（第3世代）"         -> "<shop>/detail/iphone_sese3/"
func guessShopURL(shopDomain, productName string) string {
	s := normalize.HalfWidth(strings.ToLower(productName))
	s = reBrandTag.ReplaceAllString(s, "")
	s = reVariantMark.ReplaceAllString(s, "")
	s = reGeneration.ReplaceAllString(s, "se$1")
	s = reNonSlugChar.ReplaceAllString(s, "")
	s = reGB.ReplaceAllString(s, "")
	s = reCertified.ReplaceAllString(s, "aucertified")
	s = reSeriesNumber.ReplaceAllString(s, "$1$2")
	s = reSpaces.ReplaceAllString(strings.TrimSpace(s), "_")
	s = reUnderscores.ReplaceAllString(s, "_")

	return strings.TrimRight(shopDomain, "/") + "/detail/" + s + "/"
}

// normalizeURL 재고 데이터를 연결하기 위해 URL 을 경로만 남긴 형태로 바꿉니다.
//
//	"https://shop.uqmobile.jp/detail/iphone14/index.html?x=1" -> "/detail/iphone14"
func normalizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}

	path = reTrailingIndexDoc.ReplaceAllString(path, "/")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// linkMatchesName 인증 중고 페이지의 링크가 정규화한 기종명과 대응하는지 판단합니다.
// 링크와 기종명 양쪽에서 "certified" 표기를 빼고 비교합니다.
func linkMatchesName(link, normName string) bool {
	normName = strings.ReplaceAll(normName, "certified", "")
	if normName == "" {
		return false
	}

	normLink := reDetailCertified.ReplaceAllString(strings.ToLower(normalizeURL(link)), "")
	if strings.Contains(normLink, normName) {
		return true
	}
	return len(normName) > 8 && strings.Contains(normLink, normName[:8])
}
