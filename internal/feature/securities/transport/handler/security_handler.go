// Package handler はsecuritiesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ycharts_backend/internal/feature/securities/domain/entity"
	"ycharts_backend/internal/feature/securities/transport/http/dto"
	"ycharts_backend/internal/feature/securities/usecase"
)

// SecurityUsecase は銘柄ディレクトリに関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SecurityUsecase interface {
	ListSecurities(ctx context.Context, resource string) ([]entity.Security, error)
}

// SecurityHandler は銘柄ディレクトリに関するHTTPリクエストを処理します。
type SecurityHandler struct {
	uc SecurityUsecase
}

// NewSecurityHandler は新しい SecurityHandler を作成します。
func NewSecurityHandler(uc SecurityUsecase) *SecurityHandler {
	return &SecurityHandler{uc: uc}
}

// List は保存済みの銘柄一覧を返すAPIです。
//
// エンドポイント例:
// GET /v1/directory/companies?raw=true
func (h *SecurityHandler) List(c *gin.Context) {
	securities, err := h.uc.ListSecurities(c.Request.Context(), c.Param("resource"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrUnknownResource) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	withRaw := c.Query("raw") == "true"
	out := make([]dto.SecurityItem, 0, len(securities))
	for _, s := range securities {
		item := dto.SecurityItem{Symbol: s.Symbol, Name: s.Name, Exchange: s.Exchange}
		if withRaw && json.Valid([]byte(s.Raw)) {
			item.Raw = json.RawMessage(s.Raw)
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, out)
}
