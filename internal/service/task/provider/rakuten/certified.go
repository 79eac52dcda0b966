package rakuten

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
)

const unknownDevice = "不明な端末"

var (
	reBracketNote = regexp.MustCompile(`【.*?】`)
	reArrowPrice  = regexp.MustCompile(`→\s*([0-9,]+)`)
)

// parseCertified 楽天認定中古 페이지의 제품 카드를 읽습니다.
// 카드의 정가 블록(dt: 용량, dd: 가격)마다 중고 단말 하나이며, 쿠폰 가격이 있으면 할인 가격으로 사용합니다.
func parseCertified(doc *goquery.Document) []offer.DeviceOffer {
	var offers []offer.DeviceOffer

	doc.Find("div.i-Product-card").Each(func(_ int, card *goquery.Selection) {
		title := strings.Join(strings.Fields(card.Find("h4").First().Text()), " ")
		title = strings.TrimSpace(reBracketNote.ReplaceAllString(title, ""))
		if title == "" {
			title = unknownDevice
		}

		coupon := offer.ParseCell(card.Find("[class*='Price-coupon'] span").First().Text())

		card.Find("dl[class^='i-Product-card_Price-normal']").Each(func(_ int, dl *goquery.Selection) {
			dl.Find("dt").Each(func(_ int, dt *goquery.Selection) {
				capacity := strings.TrimSpace(dt.Text())
				dd := dt.NextFiltered("dd")
				if capacity == "" || dd.Length() == 0 {
					return
				}

				price := offer.ParseCell(dd.Find("span").First().Text())
				dd.Find("span").Each(func(_ int, span *goquery.Selection) {
					if m := reArrowPrice.FindStringSubmatch(span.Text()); m != nil {
						price = offer.ParseCell(m[1])
					}
				})
				if !price.Valid() {
					return
				}

				offers = append(offers, offer.DeviceOffer{
					Model:     title,
					Capacity:  normalize.Capacity(capacity),
					Condition: offer.Used,
					Stock:     offer.InStock,
					Full:      price,
					Discount:  coupon,
					Carrier:   Name,
				})
			})
		})
	})

	return offers
}
