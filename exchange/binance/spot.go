package binance

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/gjson"

	h "github.com/tonkla/autoladder/helper"
	t "github.com/tonkla/autoladder/types"
)

const (
	pathOrder      = "/v3/order"
	pathOpenOrders = "/v3/openOrders"
	pathAllOrders  = "/v3/allOrders"

	emptyObject = "{}"
	emptyArray  = "[]"
)

// OrderParams builds the canonical order query: symbol, side, type, timestamp,
// quantity, then timeInForce and price for LIMIT orders only.
func OrderParams(o t.Order) Params {
	p := Params{}.
		Add("symbol", o.Symbol).
		Add("side", o.Side).
		Add("type", o.Type).
		Add("timestamp", strconv.FormatInt(o.Timestamp, 10)).
		Add("quantity", h.FormatFixed(o.Qty))
	if o.Type == t.OrderTypeLimit {
		tif := o.TimeInForce
		if tif == "" {
			tif = t.TimeInForceGTC
		}
		p = p.Add("timeInForce", tif).Add("price", h.FormatFixed(o.Price))
	}
	return p
}

// PlaceOrder places an order on the Binance Spot. It never panics; on failure
// the result still carries a parseable Raw body next to the returned error.
func (c *Client) PlaceOrder(ctx context.Context, o t.Order) (res t.OrderResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			e := t.NewError(t.KindInternal, fmt.Sprint(p), nil)
			c.log.Errorw("place order: recovered", "symbol", o.Symbol, "side", o.Side, "panic", p)
			res = t.OrderResult{Raw: e.Envelope()}
			err = e
		}
	}()

	if o.Timestamp == 0 {
		o.Timestamp = c.now()
	}
	c.log.Debugw("place order", "symbol", o.Symbol, "side", o.Side, "type", o.Type,
		"price", o.Price, "qty", o.Qty)

	resp, err := c.Post(ctx, pathOrder, OrderParams(o))
	if err != nil {
		return t.OrderResult{StatusCode: resp.StatusCode, Raw: resp.Body}, err
	}
	c.log.Debugw("place order: response", "status", resp.StatusCode, "response", resp.Body)
	return decodeOrderResult(resp)
}

func decodeOrderResult(resp Response) (t.OrderResult, error) {
	res := t.OrderResult{StatusCode: resp.StatusCode, Raw: resp.Body}
	if !gjson.Valid(resp.Body) {
		var e *t.Error
		if isSuccess(resp.StatusCode) {
			e = t.NewError(t.KindParse, "malformed order response: "+resp.Body, nil)
		} else {
			e = exchangeError(resp)
		}
		res.Raw = e.Envelope()
		return res, e
	}

	r := gjson.Parse(resp.Body)
	if r.Get("code").Int() < 0 || !isSuccess(resp.StatusCode) {
		return res, exchangeError(resp)
	}
	id := r.Get("orderId")
	if !id.Exists() {
		return res, t.NewError(t.KindParse, "order response has no orderId", nil)
	}
	res.OrderID = id.Int()
	res.Status = r.Get("status").String()
	return res, nil
}

// PlaceLimitOrder places a GTC limit order
func (c *Client) PlaceLimitOrder(ctx context.Context, symbol string, side string, price float64, qty float64) (t.OrderResult, error) {
	return c.PlaceOrder(ctx, t.Order{
		Symbol:      symbol,
		Side:        side,
		Type:        t.OrderTypeLimit,
		TimeInForce: t.TimeInForceGTC,
		Price:       price,
		Qty:         qty,
	})
}

func (c *Client) signedRead(ctx context.Context, path string, params Params, fallback string) (string, error) {
	resp, err := c.Get(ctx, path, params, true)
	if err != nil {
		return fallback, err
	}
	if !isSuccess(resp.StatusCode) || (gjson.Valid(resp.Body) && gjson.Get(resp.Body, "code").Int() < 0) {
		c.log.Warnw("signed read rejected", "path", path, "status", resp.StatusCode, "response", resp.Body)
		return resp.Body, exchangeError(resp)
	}
	return resp.Body, nil
}

func (c *Client) symbolParams(symbol string) Params {
	return Params{}.
		Add("symbol", symbol).
		Add("timestamp", strconv.FormatInt(c.now(), 10))
}

// GetOpenOrders returns the raw open orders of the symbol, "{}" when the request fails
func (c *Client) GetOpenOrders(ctx context.Context, symbol string) (string, error) {
	return c.signedRead(ctx, pathOpenOrders, c.symbolParams(symbol), emptyObject)
}

// GetOrderHistory returns all account orders of the symbol; active, canceled, or filled.
// It returns "[]" when the request fails.
func (c *Client) GetOrderHistory(ctx context.Context, symbol string) (string, error) {
	return c.signedRead(ctx, pathAllOrders, c.symbolParams(symbol), emptyArray)
}

// GetOrder returns the order by its exchange ID
func (c *Client) GetOrder(ctx context.Context, symbol string, orderID int64) (*t.Order, error) {
	p := Params{}.
		Add("symbol", symbol).
		Add("orderId", strconv.FormatInt(orderID, 10)).
		Add("timestamp", strconv.FormatInt(c.now(), 10))
	data, err := c.signedRead(ctx, pathOrder, p, emptyObject)
	if err != nil {
		return nil, err
	}
	if !gjson.Valid(data) {
		return nil, t.NewError(t.KindParse, "malformed order response", nil)
	}
	o := parseOrder(gjson.Parse(data))
	o.Symbol = symbol
	return &o, nil
}

// OpenOrders returns open orders
func (c *Client) OpenOrders(ctx context.Context, symbol string) ([]t.Order, error) {
	data, err := c.GetOpenOrders(ctx, symbol)
	if err != nil {
		return nil, err
	}
	rs := gjson.Parse(data)
	if !gjson.Valid(data) || !rs.IsArray() {
		return nil, t.NewError(t.KindParse, "open orders response is not an array", nil)
	}

	var orders []t.Order
	for _, r := range rs.Array() {
		orders = append(orders, parseOrder(r))
	}
	return orders, nil
}

func parseOrder(r gjson.Result) t.Order {
	return t.Order{
		RefID:       r.Get("orderId").Int(),
		Symbol:      r.Get("symbol").String(),
		Side:        r.Get("side").String(),
		Type:        r.Get("type").String(),
		Status:      r.Get("status").String(),
		TimeInForce: r.Get("timeInForce").String(),
		Price:       r.Get("price").Float(),
		Qty:         r.Get("origQty").Float(),
		Timestamp:   r.Get("time").Int(),
		UpdateTime:  r.Get("updateTime").Int(),
	}
}

// CompactOrders extracts the compact view of a raw open-orders body. Orders with
// an ID not above filterOrderID are skipped unless filterOrderID is 0. ok is false
// when the body is not a JSON array.
func CompactOrders(data string, filterOrderID int64) (orders []t.CompactOrder, ok bool) {
	if !gjson.Valid(data) {
		return nil, false
	}
	rs := gjson.Parse(data)
	if !rs.IsArray() {
		return nil, false
	}
	for _, r := range rs.Array() {
		id := r.Get("orderId").Int()
		if filterOrderID != 0 && id <= filterOrderID {
			continue
		}
		orders = append(orders, t.CompactOrder{
			OrderID: id,
			Side:    r.Get("side").String(),
			Price:   r.Get("price").String(),
			OrigQty: r.Get("origQty").String(),
			Status:  r.Get("status").String(),
		})
	}
	return orders, true
}

// PrintCompactOrders writes a one-line summary per open order, or the raw
// response when it is not an order list.
func (c *Client) PrintCompactOrders(ctx context.Context, w io.Writer, symbol string, filterOrderID int64) error {
	data, err := c.GetOpenOrders(ctx, symbol)
	orders, ok := CompactOrders(data, filterOrderID)
	if !ok {
		fmt.Fprintf(w, "Open orders (raw): %s\n", data)
		return err
	}
	fmt.Fprintln(w, "Open orders (compact):")
	for _, o := range orders {
		fmt.Fprintf(w, "  id=%d %s price=%s qty=%s status=%s\n", o.OrderID, o.Side, o.Price, o.OrigQty, o.Status)
	}
	return err
}
