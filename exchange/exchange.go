package exchange

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/tonkla/autoladder/exchange/binance"
	h "github.com/tonkla/autoladder/helper"
	t "github.com/tonkla/autoladder/types"
)

type MarketData interface {
	GetPrice(ctx context.Context, symbol string) (float64, error)
	GetTicker(ctx context.Context, symbol string) (*t.Ticker, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, o t.Order) (t.OrderResult, error)
	PlaceLimitOrder(ctx context.Context, symbol string, side string, price float64, qty float64) (t.OrderResult, error)
}

// OrderReader holds the read-only order queries. None of them mutates exchange state.
type OrderReader interface {
	GetOpenOrders(ctx context.Context, symbol string) (string, error)
	GetOrderHistory(ctx context.Context, symbol string) (string, error)
	GetOrder(ctx context.Context, symbol string, orderID int64) (*t.Order, error)
	OpenOrders(ctx context.Context, symbol string) ([]t.Order, error)
	PrintCompactOrders(ctx context.Context, w io.Writer, symbol string, filterOrderID int64) error
}

type Repository interface {
	MarketData
	OrderPlacer
	OrderReader
}

func New(bp *t.BotParams, log *zap.SugaredLogger) (Repository, error) {
	if bp.Exchange == t.ExcBinance && bp.Product == t.ProductSpot {
		return binance.NewSpotClient(bp.ApiKey, bp.SecretKey, bp.Sandbox,
			binance.WithBaseURL(bp.BaseURL),
			binance.WithTransport(h.NewTransport(time.Duration(bp.HTTPTimeoutSec)*time.Second)),
			binance.WithLogger(log.Named("binance")),
		), nil
	}
	return nil, errors.New("exchange not found")
}
