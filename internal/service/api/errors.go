package api

import (
	apperrors "github.com/darkkaiser/phone-price-server/internal/pkg/errors"
)

var (
	// ErrPriceServiceNotInitialized 서비스 시작 시 수집 서비스가 연결되지 않았을 때 반환하는 에러입니다.
	ErrPriceServiceNotInitialized = apperrors.New(apperrors.Internal, "PriceService 객체가 초기화되지 않았습니다")
)
