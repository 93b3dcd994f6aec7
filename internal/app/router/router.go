// Package router はアプリケーションのHTTPルーティングを定義します。
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	quoteshandler "ycharts_backend/internal/feature/quotes/transport/handler"
	securitieshandler "ycharts_backend/internal/feature/securities/transport/handler"
	"ycharts_backend/internal/platform/http/handler"
	jwtmw "ycharts_backend/internal/platform/jwt"
)

// Config はルーターの任意機能を設定します。
type Config struct {
	// JWTSecret が空でない場合、/v1 配下はBearerトークン必須になります。
	JWTSecret string
	// Checks は /readyz で確認する依存先です。
	Checks map[string]handler.Check
	// CORSOrigins が空でない場合、ブラウザからの呼び出しを許可します。
	CORSOrigins []string
}

// NewRouter はゲートウェイのルーターを生成します。directory が nil の場合（DB未設定）はディレクトリAPIを登録しません。
func NewRouter(cfg Config, quotes *quoteshandler.QuotesHandler, directory *securitieshandler.SecurityHandler) *gin.Engine {
	r := gin.Default()

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			AllowHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.GET("/readyz", handler.Ready(cfg.Checks))

	v1 := r.Group("/v1")
	if cfg.JWTSecret != "" {
		// → リクエストヘッダーに JWT が必要になる
		v1.Use(jwtmw.AuthRequired(cfg.JWTSecret))
	}
	{
		v1.GET("/quotes/:resource", quotes.Get)
		v1.GET("/quotes/:resource/:symbols/:endpoint", quotes.Get)
		v1.GET("/quotes/:resource/:symbols/:endpoint/:codes", quotes.Get)
		if directory != nil {
			v1.GET("/directory/:resource", directory.List)
		}
	}

	return r
}
