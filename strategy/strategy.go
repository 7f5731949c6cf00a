package strategy

import (
	"errors"

	"github.com/tonkla/autoladder/strategy/ladder"
	t "github.com/tonkla/autoladder/types"
)

// Repository turns a price observation into the orders to place
type Repository interface {
	OnTick(ticker t.Ticker) *t.TradeOrders
}

func New(bp t.BotParams) (Repository, error) {
	if bp.Strategy == t.StrategyLadder {
		st, err := ladder.New(bp)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	return nil, errors.New("strategy not found")
}
