// Package dto はquotesフィーチャーのHTTPレスポンスDTOを提供します。
package dto

// ErrorResponse はゲートウェイのエラーレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`          // エラーメッセージ
	Code  int    `json:"code,omitempty"` // YChartsのエラーコード（ある場合）
}
