package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent は外部API呼び出し時に付与するUser-Agentです。
const DefaultUserAgent = "ycharts_backend/1.0"

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - MaxIdleConns / MaxIdleConnsPerHost: 同一ホスト（YCharts）への接続を再利用する
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//   - User-Agent: 未設定のリクエストに DefaultUserAgent を付与
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にカスタムクライアントを使用すること
//   - リトライは行わない。1リクエストにつき1回だけ送信する
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{next: t, userAgent: DefaultUserAgent},
	}
}

// userAgentTransport はUser-Agentヘッダーを補完するRoundTripperです。
type userAgentTransport struct {
	next      http.RoundTripper
	userAgent string
}

// RoundTrip はリクエストを複製してUser-Agentを設定し、次のTransportへ渡します。
// RoundTripperは元のリクエストを変更してはならないため複製します。
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(r)
}
