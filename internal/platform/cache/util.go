package cache

import (
	"net/url"
	"strings"
	"time"
)

// ParseTTL は "10m" のような文字列をTTLに変換します。
// 空文字・不正な値・0以下の場合はfallbackを返します。
func ParseTTL(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// keyEscaper はキー区切り（:）、SCANのglob文字、空白をパーセントエスケープします。
// "%" 自体もエスケープするため、異なる入力が同じキーになることはありません。
var keyEscaper = strings.NewReplacer(
	"%", "%25",
	":", "%3A",
	"*", "%2A",
	"?", "%3F",
	"[", "%5B",
	"]", "%5D",
	"\\", "%5C",
	" ", "%20",
)

// safe escapes one key segment reversibly.
func safe(s string) string {
	return keyEscaper.Replace(s)
}

// encodeParams はパラメータをキー順に並べたクエリ文字列にします。
func encodeParams(p map[string]string) string {
	v := url.Values{}
	for k, s := range p {
		v.Set(k, s)
	}
	return v.Encode()
}
