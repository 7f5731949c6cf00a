package types

const (
	ExcBinance = "BINANCE"

	ProductSpot = "SPOT"

	StrategyLadder = "LADDER"

	OrderSideBuy  = "BUY"
	OrderSideSell = "SELL"

	OrderTypeLimit  = "LIMIT"
	OrderTypeMarket = "MARKET"

	TimeInForceGTC = "GTC"

	OrderStatusNew      = "NEW"
	OrderStatusFilled   = "FILLED"
	OrderStatusCanceled = "CANCELED"

	BackoffFixed       = "fixed"
	BackoffExponential = "exponential"
	BackoffJittered    = "jittered"
)

// BotParams is the materialized process configuration
type BotParams struct {
	ApiKey    string
	SecretKey string
	Sandbox   bool
	BaseURL   string

	Exchange string
	Product  string
	Strategy string

	Symbol    string
	Levels    int64
	Step      float64
	OrderSize float64

	IntervalSec    int64
	Backoff        string
	MaxBackoffSec  int64
	HTTPTimeoutSec int64
	MaxCycles      int64

	LogFile  string
	LogLevel string
}

type Ticker struct {
	Exchange string
	Symbol   string
	Price    float64
	Time     int64
}

// Order is an order request, or an order as reported back by the exchange
type Order struct {
	RefID       int64
	Symbol      string
	Side        string
	Type        string
	Status      string
	TimeInForce string
	Price       float64
	Qty         float64
	Timestamp   int64
	UpdateTime  int64
}

// OrderResult is the outcome of a placement. Raw is always parseable JSON.
type OrderResult struct {
	OrderID    int64
	Status     string
	StatusCode int
	Raw        string
}

type TradeOrders struct {
	OpenOrders []Order
}

// CompactOrder is the short view of an open order used for console reports
type CompactOrder struct {
	OrderID int64
	Side    string
	Price   string
	OrigQty string
	Status  string
}
