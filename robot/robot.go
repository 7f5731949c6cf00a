package robot

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/tonkla/autoladder/strategy"
	t "github.com/tonkla/autoladder/types"
)

type State int

const (
	StateFetchingPrice State = iota
	StatePlacingOrders
	StateSleeping
)

func (s State) String() string {
	switch s {
	case StateFetchingPrice:
		return "FETCHING_PRICE"
	case StatePlacingOrders:
		return "PLACING_ORDERS"
	case StateSleeping:
		return "SLEEPING"
	}
	return "UNKNOWN"
}

// Exchange is what the loop needs from the exchange: a price and a way to place orders
type Exchange interface {
	GetTicker(ctx context.Context, symbol string) (*t.Ticker, error)
	PlaceOrder(ctx context.Context, o t.Order) (t.OrderResult, error)
}

type CycleReport struct {
	Price    float64
	Placed   int
	Rejected int
	Failed   int
}

type SleepFunc func(ctx context.Context, d time.Duration) error

type Robot struct {
	EX Exchange
	ST strategy.Repository
	BP *t.BotParams

	log      *zap.SugaredLogger
	interval time.Duration
	failure  backoff.BackOff
	sleep    SleepFunc
	state    State
}

type Option func(*Robot)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Robot) { r.log = l }
}

func WithSleep(fn SleepFunc) Option {
	return func(r *Robot) { r.sleep = fn }
}

// WithBackOff replaces the policy used after a failed price fetch
func WithBackOff(b backoff.BackOff) Option {
	return func(r *Robot) { r.failure = b }
}

func New(ex Exchange, st strategy.Repository, bp *t.BotParams, opts ...Option) (*Robot, error) {
	b, err := NewBackOff(bp)
	if err != nil {
		return nil, err
	}
	r := &Robot{
		EX:       ex,
		ST:       st,
		BP:       bp,
		log:      zap.NewNop().Sugar(),
		interval: Interval(bp),
		failure:  b,
		sleep:    Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Robot) State() State {
	return r.state
}

// Run repeats the ladder cycle until ctx is done, or until BotParams.MaxCycles
// cycles have completed when it is set.
func (r *Robot) Run(ctx context.Context) error {
	r.log.Infow("ladder running", "symbol", r.BP.Symbol, "levels", r.BP.Levels,
		"step", r.BP.Step, "orderSize", r.BP.OrderSize, "interval", r.interval)

	for cycle := int64(1); ; cycle++ {
		wait := r.interval
		report, err := r.RunCycle(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			wait = r.failure.NextBackOff()
			if wait < 0 {
				wait = r.interval
			}
			r.log.Warnw("price unavailable", "symbol", r.BP.Symbol, "retryIn", wait, "error", err)
		} else {
			r.failure.Reset()
			r.log.Infow("cycle done", "cycle", cycle, "price", report.Price,
				"placed", report.Placed, "rejected", report.Rejected, "failed", report.Failed)
		}

		if r.BP.MaxCycles > 0 && cycle >= r.BP.MaxCycles {
			return nil
		}
		r.state = StateSleeping
		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// RunCycle fetches the price and places the ladder once. The error is the price
// fetch failure, in which case nothing is placed. A failed order never stops the cycle.
func (r *Robot) RunCycle(ctx context.Context) (CycleReport, error) {
	var report CycleReport

	r.state = StateFetchingPrice
	ticker, err := r.EX.GetTicker(ctx, r.BP.Symbol)
	if err != nil {
		return report, err
	}
	if ticker == nil || ticker.Price <= 0 {
		return report, t.NewError(t.KindParse, "non-positive price", nil)
	}
	report.Price = ticker.Price

	tradeOrders := r.ST.OnTick(*ticker)
	if tradeOrders == nil {
		return report, nil
	}

	r.state = StatePlacingOrders
	r.log.Infow("placing ladder", "price", ticker.Price, "orders", len(tradeOrders.OpenOrders))
	for _, o := range tradeOrders.OpenOrders {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res, err := r.EX.PlaceOrder(ctx, o)
		if err != nil {
			var e *t.Error
			if errors.As(err, &e) && e.Kind == t.KindExchange {
				report.Rejected++
				r.log.Warnw("order rejected", "side", o.Side, "price", o.Price, "qty", o.Qty,
					"code", e.Code, "msg", e.Msg)
			} else {
				report.Failed++
				r.log.Errorw("order failed", "side", o.Side, "price", o.Price, "qty", o.Qty,
					"error", err, "response", res.Raw)
			}
			continue
		}
		report.Placed++
		r.log.Infow("order placed", "orderId", res.OrderID, "side", o.Side, "price", o.Price, "qty", o.Qty)
	}
	return report, nil
}
