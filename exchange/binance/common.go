package binance

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	t "github.com/tonkla/autoladder/types"
)

const (
	urlProd    = "https://api.binance.com/api"
	urlTestnet = "https://testnet.binance.vision/api"

	headerAPIKey = "X-MBX-APIKEY"
)

// SignFunc computes the signature of a payload with a secret key
type SignFunc func(payload string, secretKey string) string

// Sign signs a payload with a Binance API secret key (HMAC-SHA256, lowercase hex)
func Sign(payload string, secretKey string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func NewHeader(apiKey string) http.Header {
	header := make(http.Header)
	header.Set(headerAPIKey, apiKey)
	return header
}

// BaseURL returns the REST root for the testnet or production
func BaseURL(sandbox bool) string {
	if sandbox {
		return urlTestnet
	}
	return urlProd
}

type Param struct {
	Key   string
	Value string
}

// Params keeps query parameters in the order they are appended. The signature
// covers the exact encoded bytes, so the order is significant.
type Params []Param

func (p Params) Add(key string, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// Encode joins the params as key=value pairs with '&'. Values are not escaped.
func (p Params) Encode() string {
	var qs strings.Builder
	for i, kv := range p {
		if i > 0 {
			qs.WriteByte('&')
		}
		fmt.Fprintf(&qs, "%s=%s", kv.Key, kv.Value)
	}
	return qs.String()
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// exchangeError turns a rejected response into an error carrying the exchange code and message
func exchangeError(resp Response) *t.Error {
	e := &t.Error{Kind: t.KindExchange}
	if gjson.Valid(resp.Body) {
		r := gjson.Parse(resp.Body)
		e.Code = r.Get("code").Int()
		e.Msg = r.Get("msg").String()
	}
	if e.Msg == "" {
		e.Msg = fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return e
}
