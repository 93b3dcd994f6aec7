// Package handler はquotesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ycharts_backend/internal/feature/quotes/domain/entity"
	"ycharts_backend/internal/feature/quotes/transport/http/dto"
	"ycharts_backend/internal/feature/quotes/usecase"
	"ycharts_backend/pkg/ycharts"
)

// QuotesUsecase はゲートウェイ問い合わせのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type QuotesUsecase interface {
	GetDocument(ctx context.Context, q entity.Query) (ycharts.Document, error)
}

// QuotesHandler はYChartsゲートウェイのHTTPリクエストを処理します。
type QuotesHandler struct {
	uc QuotesUsecase
}

// NewQuotesHandler は指定されたusecaseでQuotesHandlerの新しいインスタンスを生成します。
func NewQuotesHandler(uc QuotesUsecase) *QuotesHandler {
	return &QuotesHandler{uc: uc}
}

// Get はパスとクエリからQueryを組み立て、YChartsのレスポンス文書をそのままJSONで返します。
//
// エンドポイント例:
// GET /v1/quotes/companies?page=2&filter_name=sector&filter_value=Technology
// GET /v1/quotes/companies/AAPL,MSFT/points/price?date=-5
// GET /v1/quotes/indicators/I:USGDP/series?start_date=2016-09-10
func (h *QuotesHandler) Get(c *gin.Context) {
	q := entity.Query{
		Resource: c.Param("resource"),
		Endpoint: c.Param("endpoint"),
		Symbols:  entity.SplitList(c.Param("symbols")),
		Codes:    entity.SplitList(c.Param("codes")),
		Params:   map[string]string{},
	}
	// 銘柄が無いパスは一覧取得
	if q.Endpoint == "" && len(q.Symbols) == 0 {
		q.Endpoint = entity.EndpointList
	}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			q.Params[k] = v[0]
		}
	}

	doc, err := h.uc.GetDocument(c.Request.Context(), q)
	if err != nil {
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// errorResponse はエラーをHTTPステータスとレスポンスDTOに変換します。
func errorResponse(err error) (int, dto.ErrorResponse) {
	body := dto.ErrorResponse{Error: err.Error()}
	var yerr *ycharts.Error
	if errors.As(err, &yerr) {
		body = dto.ErrorResponse{Error: yerr.Message, Code: yerr.Code}
	}

	switch {
	case errors.Is(err, usecase.ErrUnknownResource), errors.Is(err, usecase.ErrUnknownEndpoint):
		return http.StatusNotFound, body
	case errors.Is(err, usecase.ErrInvalidParameter), errors.Is(err, ycharts.ErrMalformedRequest):
		return http.StatusBadRequest, body
	case errors.Is(err, ycharts.ErrTooLong):
		return http.StatusRequestURITooLong, body
	case errors.Is(err, ycharts.ErrNotFound):
		return http.StatusNotFound, body
	default:
		// 認証エラー・通信エラーは上流の問題として扱う
		return http.StatusBadGateway, body
	}
}
