package binance

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tonkla/autoladder/types"
)

func TestGetUnsigned(t *testing.T) {
	c, rc := newTestClient(t, http.StatusOK, `{"ok":true}`)

	resp, err := c.Get(context.Background(), "/v3/ping", Params{}.Add("symbol", testSymbol), false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, resp.Body)

	reqs := rc.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/v3/ping", reqs[0].Path)
	assert.Equal(t, "symbol=BTCUSDT", reqs[0].Query)
	assert.Empty(t, reqs[0].APIKey)
}

func TestGetSigned(t *testing.T) {
	c, rc := newTestClient(t, http.StatusOK, `[]`)

	p := Params{}.Add("symbol", testSymbol).Add("timestamp", "1000")
	_, err := c.Get(context.Background(), "/v3/openOrders", p, true)
	require.NoError(t, err)

	reqs := rc.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, testAPIKey, reqs[0].APIKey)
	assert.Equal(t, "symbol=BTCUSDT&timestamp=1000&signature="+Sign("symbol=BTCUSDT&timestamp=1000", testSecret), reqs[0].Query)
}

func TestGetSurfacesStatus(t *testing.T) {
	c, _ := newTestClient(t, http.StatusTeapot, `{"code":-1,"msg":"teapot"}`)

	resp, err := c.Get(context.Background(), "/v3/ping", nil, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, `{"code":-1,"msg":"teapot"}`, resp.Body)
}

func TestPostForm(t *testing.T) {
	c, rc := newTestClient(t, http.StatusOK, `{}`)

	p := Params{}.Add("symbol", testSymbol).Add("timestamp", "1000")
	_, err := c.Post(context.Background(), "/v3/order", p)
	require.NoError(t, err)

	reqs := rc.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "application/x-www-form-urlencoded", reqs[0].CType)
	assert.Equal(t, testAPIKey, reqs[0].APIKey)
	assert.Empty(t, reqs[0].Query)
	assert.Equal(t, "symbol=BTCUSDT&timestamp=1000&signature="+Sign("symbol=BTCUSDT&timestamp=1000", testSecret), reqs[0].Body)
}

func TestTransportFailureEnvelope(t *testing.T) {
	c := newDownClient(t)

	resp, err := c.Get(context.Background(), "/v3/ping", nil, false)
	requireKind(t, err, types.KindTransport)
	require.True(t, gjson.Valid(resp.Body))
	assert.Equal(t, "transport", gjson.Get(resp.Body, "error").String())
	assert.NotEmpty(t, gjson.Get(resp.Body, "msg").String())

	resp, err = c.Post(context.Background(), "/v3/order", Params{}.Add("symbol", testSymbol))
	requireKind(t, err, types.KindTransport)
	require.True(t, gjson.Valid(resp.Body))
	assert.Equal(t, "transport", gjson.Get(resp.Body, "error").String())
}

func TestSignerFailureNotSent(t *testing.T) {
	empty := func(string, string) string { return "" }
	c, rc := newTestClient(t, http.StatusOK, `{}`, WithSigner(empty))

	resp, err := c.Post(context.Background(), "/v3/order", Params{}.Add("symbol", testSymbol))
	requireKind(t, err, types.KindSigner)
	assert.Equal(t, "signer", gjson.Get(resp.Body, "error").String())

	_, err = c.Get(context.Background(), "/v3/openOrders", Params{}.Add("symbol", testSymbol), true)
	requireKind(t, err, types.KindSigner)

	assert.Empty(t, rc.Requests())
}
