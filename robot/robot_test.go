package robot

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonkla/autoladder/strategy/ladder"
	"github.com/tonkla/autoladder/types"
)

// fakeExchange records every call in order. prices is consumed one per
// GetTicker call; a non-positive entry is reported as a fetch failure.
type fakeExchange struct {
	prices []float64
	fail   map[int]error
	calls  []string
	orders []types.Order
}

func (f *fakeExchange) GetTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	f.calls = append(f.calls, "TICKER")
	if len(f.prices) == 0 {
		return nil, types.NewError(types.KindTransport, "no more prices", nil)
	}
	price := f.prices[0]
	f.prices = f.prices[1:]
	if price <= 0 {
		return nil, types.NewError(types.KindTransport, "connection refused", nil)
	}
	return &types.Ticker{Symbol: symbol, Price: price}, nil
}

func (f *fakeExchange) PlaceOrder(ctx context.Context, o types.Order) (types.OrderResult, error) {
	f.calls = append(f.calls, fmt.Sprintf("%s@%g", o.Side, o.Price))
	f.orders = append(f.orders, o)
	if err := f.fail[len(f.orders)]; err != nil {
		e := &types.Error{}
		errors.As(err, &e)
		return types.OrderResult{Raw: e.Envelope()}, err
	}
	return types.OrderResult{OrderID: int64(len(f.orders)), Raw: `{"orderId":1}`}, nil
}

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func botParams() *types.BotParams {
	return &types.BotParams{
		Symbol:        "BTCUSDT",
		Levels:        3,
		Step:          1,
		OrderSize:     0.0001,
		IntervalSec:   3,
		MaxBackoffSec: 60,
	}
}

func newRobot(t *testing.T, ex Exchange, bp *types.BotParams, s *sleepRecorder) *Robot {
	st, err := ladder.New(*bp)
	require.NoError(t, err)
	r, err := New(ex, st, bp, WithSleep(s.Sleep))
	require.NoError(t, err)
	return r
}

func TestRunCycleOrdering(t *testing.T) {
	ex := &fakeExchange{prices: []float64{100}}
	r := newRobot(t, ex, botParams(), &sleepRecorder{})

	report, err := r.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CycleReport{Price: 100, Placed: 6}, report)
	assert.Equal(t, []string{"TICKER", "BUY@99", "SELL@101", "BUY@98", "SELL@102", "BUY@97", "SELL@103"}, ex.calls)
	assert.Equal(t, StatePlacingOrders, r.State())

	for _, o := range ex.orders {
		assert.Equal(t, "BTCUSDT", o.Symbol)
		assert.Equal(t, types.OrderTypeLimit, o.Type)
		assert.Equal(t, 0.0001, o.Qty)
	}
}

func TestRunCyclePriceFailure(t *testing.T) {
	ex := &fakeExchange{prices: []float64{-1}}
	r := newRobot(t, ex, botParams(), &sleepRecorder{})

	report, err := r.RunCycle(context.Background())
	assert.Error(t, err)
	assert.Equal(t, CycleReport{}, report)
	assert.Equal(t, []string{"TICKER"}, ex.calls)
	assert.Equal(t, StateFetchingPrice, r.State())
}

func TestRunCycleOrderFailuresContinue(t *testing.T) {
	ex := &fakeExchange{
		prices: []float64{100},
		fail: map[int]error{
			2: &types.Error{Kind: types.KindExchange, Code: -2010, Msg: "Account has insufficient balance"},
			3: types.NewError(types.KindTransport, "POST /v3/order", errors.New("i/o timeout")),
		},
	}
	r := newRobot(t, ex, botParams(), &sleepRecorder{})

	report, err := r.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CycleReport{Price: 100, Placed: 4, Rejected: 1, Failed: 1}, report)
	assert.Len(t, ex.orders, 6)
}

func TestRunBounded(t *testing.T) {
	ex := &fakeExchange{prices: []float64{100, -1, 200}}
	bp := botParams()
	bp.MaxCycles = 3
	s := &sleepRecorder{}
	r := newRobot(t, ex, bp, s)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, s.waits)
	assert.Len(t, ex.orders, 12)
	assert.Equal(t, 199.0, ex.orders[6].Price)
	assert.Equal(t, 201.0, ex.orders[7].Price)
}

func TestRunExponentialBackoff(t *testing.T) {
	ex := &fakeExchange{prices: []float64{-1, -1, -1, 100, -1}}
	bp := botParams()
	bp.MaxCycles = 5
	bp.Backoff = types.BackoffExponential
	s := &sleepRecorder{}
	r := newRobot(t, ex, bp, s)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []time.Duration{
		3 * time.Second,
		6 * time.Second,
		12 * time.Second,
		3 * time.Second,
	}, s.waits)
	assert.Len(t, ex.orders, 6)
}

func TestRunStopsOnCancel(t *testing.T) {
	ex := &fakeExchange{prices: []float64{100, 100, 100}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bp := botParams()
	st, err := ladder.New(*bp)
	require.NoError(t, err)

	sleeps := 0
	r, err := New(ex, st, bp, WithSleep(func(ctx context.Context, d time.Duration) error {
		sleeps++
		cancel()
		return ctx.Err()
	}))
	require.NoError(t, err)

	err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sleeps)
	assert.Len(t, ex.orders, 6)
	assert.Equal(t, StateSleeping, r.State())
}

func TestRunCycleCanceledMidLadder(t *testing.T) {
	ex := &fakeExchange{prices: []float64{100}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRobot(t, ex, botParams(), &sleepRecorder{})
	_, err := r.RunCycle(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ex.orders)
}

func TestNewBackOff(t *testing.T) {
	bp := botParams()

	b, err := NewBackOff(bp)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, b.NextBackOff())
	assert.Equal(t, 3*time.Second, b.NextBackOff())

	bp.Backoff = types.BackoffExponential
	bp.MaxBackoffSec = 10
	b, err = NewBackOff(bp)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, b.NextBackOff())
	assert.Equal(t, 6*time.Second, b.NextBackOff())
	assert.Equal(t, 10*time.Second, b.NextBackOff())
	assert.Equal(t, 10*time.Second, b.NextBackOff())
	b.Reset()
	assert.Equal(t, 3*time.Second, b.NextBackOff())

	bp.Backoff = types.BackoffJittered
	b, err = NewBackOff(bp)
	require.NoError(t, err)
	d := b.NextBackOff()
	assert.GreaterOrEqual(t, d, 1500*time.Millisecond)
	assert.LessOrEqual(t, d, 4500*time.Millisecond)

	bp.Backoff = "forever"
	_, err = NewBackOff(bp)
	assert.Error(t, err)
}

func TestInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, Interval(&types.BotParams{}))
	assert.Equal(t, 5*time.Second, Interval(&types.BotParams{IntervalSec: 5}))
}

func TestSleep(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "FETCHING_PRICE", StateFetchingPrice.String())
	assert.Equal(t, "PLACING_ORDERS", StatePlacingOrders.String())
	assert.Equal(t, "SLEEPING", StateSleeping.String())
}
