package ladder

import (
	"errors"

	"github.com/hashicorp/go-multierror"

	t "github.com/tonkla/autoladder/types"
)

// Strategy places a symmetric ladder of limit orders around the reference price
type Strategy struct {
	Symbol    string
	Levels    int64
	Step      float64
	OrderSize float64
}

// New validates the ladder parameters, reporting every invalid one at once.
func New(bp t.BotParams) (Strategy, error) {
	var merr *multierror.Error
	if bp.Symbol == "" {
		merr = multierror.Append(merr, errors.New("symbol is required"))
	}
	if bp.Levels < 1 {
		merr = multierror.Append(merr, errors.New("ladder size must be greater than 0"))
	}
	if bp.Step <= 0 {
		merr = multierror.Append(merr, errors.New("ladder step must be greater than 0"))
	}
	if bp.OrderSize <= 0 {
		merr = multierror.Append(merr, errors.New("order size must be greater than 0"))
	}
	if err := merr.ErrorOrNil(); err != nil {
		return Strategy{}, err
	}
	return Strategy{
		Symbol:    bp.Symbol,
		Levels:    bp.Levels,
		Step:      bp.Step,
		OrderSize: bp.OrderSize,
	}, nil
}

// AdjustOrderSize is where lot size, step size and min notional normalization
// belongs. It returns the requested size unchanged.
func AdjustOrderSize(requested float64) float64 {
	return requested
}

// OnTick returns, for each level from the nearest outward, a BUY below and then
// a SELL above the price. It returns nil for a non-positive price.
func (s Strategy) OnTick(ticker t.Ticker) *t.TradeOrders {
	if ticker.Price <= 0 {
		return nil
	}

	var orders []t.Order
	for i := int64(1); i <= s.Levels; i++ {
		offset := float64(i) * s.Step
		qty := AdjustOrderSize(s.OrderSize)
		orders = append(orders,
			s.newOrder(t.OrderSideBuy, ticker.Price-offset, qty),
			s.newOrder(t.OrderSideSell, ticker.Price+offset, qty),
		)
	}
	return &t.TradeOrders{OpenOrders: orders}
}

func (s Strategy) newOrder(side string, price float64, qty float64) t.Order {
	return t.Order{
		Symbol:      s.Symbol,
		Side:        side,
		Type:        t.OrderTypeLimit,
		TimeInForce: t.TimeInForceGTC,
		Price:       price,
		Qty:         qty,
	}
}
