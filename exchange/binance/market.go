package binance

import (
	"context"

	"github.com/tidwall/gjson"

	h "github.com/tonkla/autoladder/helper"
	t "github.com/tonkla/autoladder/types"
)

const pathTicker = "/v3/ticker/price"

// PriceUnavailable is returned by GetPrice alongside an error. Real prices are always positive.
const PriceUnavailable float64 = -1

// GetPrice returns the latest price of the symbol
func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	resp, err := c.Get(ctx, pathTicker, Params{}.Add("symbol", symbol), false)
	if err != nil {
		return PriceUnavailable, err
	}
	if !isSuccess(resp.StatusCode) {
		e := exchangeError(resp)
		c.log.Warnw("get price", "symbol", symbol, "status", resp.StatusCode, "response", resp.Body)
		return PriceUnavailable, e
	}

	if !gjson.Valid(resp.Body) {
		c.log.Warnw("get price: malformed response", "symbol", symbol, "response", resp.Body)
		return PriceUnavailable, t.NewError(t.KindParse, "malformed ticker response", nil)
	}
	r := gjson.Parse(resp.Body)
	if r.Get("code").Int() < 0 {
		c.log.Warnw("get price", "symbol", symbol, "response", resp.Body)
		return PriceUnavailable, exchangeError(resp)
	}
	field := r.Get("price")
	if !field.Exists() {
		c.log.Warnw("get price: no price field", "symbol", symbol, "response", resp.Body)
		return PriceUnavailable, t.NewError(t.KindParse, "ticker response has no price", nil)
	}
	price, err := h.ParseDecimal(field.String())
	if err != nil {
		c.log.Warnw("get price: bad price", "symbol", symbol, "response", resp.Body)
		return PriceUnavailable, t.NewError(t.KindParse, "ticker price", err)
	}
	if price <= 0 {
		c.log.Warnw("get price: non-positive price", "symbol", symbol, "price", price)
		return PriceUnavailable, t.NewError(t.KindParse, "non-positive ticker price", nil)
	}
	return price, nil
}

// GetTicker returns the latest ticker
func (c *Client) GetTicker(ctx context.Context, symbol string) (*t.Ticker, error) {
	price, err := c.GetPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &t.Ticker{
		Exchange: t.ExcBinance,
		Symbol:   symbol,
		Price:    price,
		Time:     c.now(),
	}, nil
}
