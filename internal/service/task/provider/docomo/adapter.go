// Package docomo ドコモオンラインショップ의 단말 가격과 재고를 수집합니다.
//
// 수집은 다음 단계를 순서대로 거치며, 각 단계는 이전 단계의 결과만 받아 다음 단계의 결과를 만듭니다.
//
//	unauthenticated -> authenticated -> listed -> priced -> specEnriched
//
// 익명 인증과 목록 첫 페이지의 실패는 수집 실패입니다. 트랜잭션 발급에 실패하면 가격 조회를 건너뛰고,
// 개별 SKU 의 가격/스펙 조회 실패는 해당 SKU 만 건너뜁니다.
package docomo

import (
	"context"
	"time"

	"github.com/darkkaiser/phone-price-server/internal/pricing/aggregate"
	"github.com/darkkaiser/phone-price-server/internal/pricing/normalize"
	"github.com/darkkaiser/phone-price-server/internal/pricing/offer"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	applog "github.com/darkkaiser/phone-price-server/pkg/log"
)

const (
	ID   provider.ID = "docomo"
	Name             = "docomo"

	component = "provider.docomo"
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

	listPacer *provider.Pacer
	specPacer *provider.Pacer

	now func() time.Time
}

func newAdapter(p provider.NewAdapterParams) (provider.Adapter, error) {
	s, err := provider.DecodeSettings[settings](p.Settings)
	if err != nil {
		return nil, err
	}
	return &adapter{
		scraper:   p.Scraper,
		compare:   p.Compare,
		settings:  s,
		listPacer: provider.NewPacer(s.ListInterval),
		specPacer: provider.NewPacer(s.SpecInterval),
		now:       time.Now,
	}, nil
}

// authenticated 세션이 있는 상태입니다. 트랜잭션 발급에 실패했으면 txn 은 nil 입니다.
type authenticated struct {
	session session
	txn     *transaction
}

// listed 목록을 그룹으로 묶은 상태입니다.
type listed struct {
	authenticated
	groups []*group
}

// pricedItem 가격을 조회한 그룹입니다.
type pricedItem struct {
	group *group
	price terminalPrice
}

type priced struct {
	session session
	items   []pricedItem
}

type specEnriched struct {
	offers []offer.DeviceOffer
}

func (a *adapter) Fetch(ctx context.Context) ([]offer.DeviceOffer, error) {
	auth, err := a.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	l, err := a.list(ctx, auth)
	if err != nil {
		return nil, err
	}

	p, err := a.price(ctx, l)
	if err != nil {
		return nil, err
	}

	e, err := a.enrichSpec(ctx, p)
	if err != nil {
		return nil, err
	}

	offers := aggregate.Engine{Price: a.compare}.Merge(e.offers)

	applog.WithComponentAndFields(component, applog.Fields{
		"groups": len(l.groups),
		"offers": len(offers),
	}).Info("docomo 단말 가격 수집 완료")

	return offers, nil
}

// authenticate unauthenticated -> authenticated
func (a *adapter) authenticate(ctx context.Context) (authenticated, error) {
	s, err := a.createSession(ctx)
	if err != nil {
		return authenticated{}, newErrAuthenticate(err)
	}

	txn, err := a.createTransaction(ctx, s)
	if err != nil {
		if ctx.Err() != nil {
			return authenticated{}, ctx.Err()
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Warn("트랜잭션 ID 발급에 실패하여 가격 조회를 건너뜁니다")
	}

	return authenticated{session: s, txn: txn}, nil
}

// list authenticated -> listed
func (a *adapter) list(ctx context.Context, s authenticated) (listed, error) {
	pages, err := a.fetchPages(ctx, s.session)
	if err != nil {
		return listed{}, err
	}
	return listed{authenticated: s, groups: groupModels(pages)}, nil
}

// price listed -> priced
func (a *adapter) price(ctx context.Context, l listed) (priced, error) {
	p := priced{session: l.session, items: make([]pricedItem, 0, len(l.groups))}

	for _, g := range l.groups {
		item := pricedItem{group: g}

		if l.txn != nil {
			tp, err := a.fetchTerminalPrice(ctx, l.session, l.txn, g.itemCode)
			if err != nil {
				if ctx.Err() != nil {
					return priced{}, ctx.Err()
				}

				applog.WithComponentAndFields(component, applog.Fields{
					"item_code": g.itemCode,
					"model":     g.originalName,
					"error":     err,
				}).Warn("단말 가격 조회에 실패하여 가격 없이 계속합니다")
			}
			item.price = tp
		}

		p.items = append(p.items, item)
	}

	return p, nil
}

// enrichSpec priced -> specEnriched
func (a *adapter) enrichSpec(ctx context.Context, p priced) (specEnriched, error) {
	offers := make([]offer.DeviceOffer, 0, len(p.items))

	for _, item := range p.items {
		capacity := item.group.capacity

		if code := item.price.mobileCode; code != "" {
			if err := a.specPacer.Wait(ctx); err != nil {
				return specEnriched{}, err
			}

			rom, err := a.fetchSpecROM(ctx, p.session, code)
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return specEnriched{}, ctx.Err()
				}

				applog.WithComponentAndFields(component, applog.Fields{
					"mobile_code": code,
					"error":       err,
				}).Warn("스펙 조회에 실패하여 목록의 용량을 사용합니다")
			case rom != "":
				capacity = rom
			}
		}

		offers = append(offers, offer.DeviceOffer{
			Model:     item.group.name,
			Capacity:  normalize.Capacity(capacity),
			Condition: normalize.GradeCondition(item.group.certified(), item.group.grade()),
			Stock:     offer.StockOf(item.group.available),
			Full:      item.price.full,
			Discount:  item.price.discount,
			Return:    item.price.ret,
			Carrier:   Name,
		})
	}

	return specEnriched{offers: offers}, nil
}
