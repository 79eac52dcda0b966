package docomo

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
	"github.com/darkkaiser/phone-price-server/internal/service/task/provider"
	"github.com/darkkaiser/phone-price-server/internal/service/task/scraper"
	"github.com/tidwall/gjson"
)

const statusSuccess = "SUCCESS"

// session 익명 인증으로 받은 토큰과 쿠키입니다. 이후 모든 요청에 실어 보냅니다.
type session struct {
	idToken string
	cookies string
}

// transaction 가격 API 에 필요한 트랜잭션 정보입니다.
type transaction struct {
	id           string
	branchNumber string
}

// headers 인증 이후의 요청에 공통으로 붙는 헤더입니다.
func (a *adapter) headers(s session, referer string) http.Header {
	return provider.Header(
		"User-Agent", a.settings.UserAgent,
		"Referer", referer,
		"X-Requested-With", "XMLHttpRequest",
		"Origin", a.settings.Origin,
		"Authorization", "Bearer "+s.idToken,
		"Cookie", s.cookies,
		"channel-type", "1",
		"lamp-country-region", "EAST",
	)
}

func (a *adapter) get(s session, url, referer string) scraper.Request {
	return scraper.Get(url).WithHeaders(a.headers(s, referer))
}

func (a *adapter) post(s session, url string, body any) scraper.Request {
	return scraper.PostJSON(url, body).WithHeaders(a.headers(s, a.settings.Referer))
}

// call 요청을 보내고 JSON 응답을 반환합니다. docomo API 는 200 외에 201 도 정상 응답으로 사용합니다.
func (a *adapter) call(ctx context.Context, req scraper.Request) (gjson.Result, error) {
	resp, err := a.scraper.Fetch(ctx, req)
	if err != nil {
		return gjson.Result{}, err
	}
	if !resp.OK() {
		return gjson.Result{}, newErrUnexpectedStatus(req.URL, resp.StatusCode)
	}
	if !gjson.ValidBytes(resp.Body) {
		return gjson.Result{}, apperrors.Newf(apperrors.ParsingFailed, "docomo 응답이 JSON 형식이 아닙니다 (URL: %s)", req.URL)
	}
	return gjson.ParseBytes(resp.Body), nil
}

// createSession 익명 인증 토큰과 Set-Cookie 로 세션을 만듭니다.
func (a *adapter) createSession(ctx context.Context) (session, error) {
	url := a.settings.TokenURL
	if strings.Contains(url, "?") {
		url += "&"
	} else {
		url += "?"
	}
	url += "nocache=" + strconv.FormatInt(a.now().UnixMilli(), 10)

	req := scraper.Get(url).WithHeaders(provider.Header(
		"User-Agent", a.settings.UserAgent,
		"Referer", a.settings.Referer,
		"X-Requested-With", "XMLHttpRequest",
		"Origin", a.settings.Origin,
	))

	resp, err := a.scraper.Fetch(ctx, req)
	if err != nil {
		return session{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return session{}, newErrUnexpectedStatus(url, resp.StatusCode)
	}

	doc := gjson.ParseBytes(resp.Body)
	if doc.Get("status").String() != statusSuccess {
		return session{}, apperrors.Wrap(errNotSuccess, apperrors.Unavailable, "docomo 인증 API 가 실패를 반환했습니다")
	}

	s := session{
		idToken: doc.Get("result.idToken").String(),
		cookies: strings.Join(resp.Cookies(), "; "),
	}
	if s.idToken == "" || s.cookies == "" {
		return session{}, ErrNoIDToken
	}
	return s, nil
}

// createTransaction 가격 API 용 트랜잭션 ID 를 발급받습니다.
func (a *adapter) createTransaction(ctx context.Context, s session) (*transaction, error) {
	doc, err := a.call(ctx, a.get(s, a.settings.TransactionURL, a.settings.Origin))
	if err != nil {
		return nil, err
	}
	if doc.Get("status").String() != statusSuccess {
		return nil, apperrors.Wrap(errNotSuccess, apperrors.Unavailable, "docomo 트랜잭션 API 가 실패를 반환했습니다")
	}

	txn := &transaction{
		id:           doc.Get("result.transactionId").String(),
		branchNumber: doc.Get("result.branchNumber").String(),
	}
	if txn.id == "" {
		return nil, ErrNoTransactionID
	}
	return txn, nil
}
