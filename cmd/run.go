package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tonkla/autoladder/exchange"
	h "github.com/tonkla/autoladder/helper"
	"github.com/tonkla/autoladder/robot"
	"github.com/tonkla/autoladder/strategy"
	t "github.com/tonkla/autoladder/types"
)

var cycles int64

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Place the order ladder on every tick until stopped",
	RunE: func(cmd *cobra.Command, args []string) error {
		bp, log, ex, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()
		if cycles > 0 {
			bp.MaxCycles = cycles
		}

		st, err := strategy.New(*bp)
		if err != nil {
			return err
		}
		rb, err := robot.New(ex, st, bp, robot.WithLogger(log.Named("robot")))
		if err != nil {
			return err
		}

		log.Infow("ladder strategy created", "exchange", bp.Exchange, "product", bp.Product,
			"symbol", bp.Symbol, "sandbox", bp.Sandbox, "orderSize", bp.OrderSize)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = rb.Run(ctx)
		if errors.Is(err, context.Canceled) {
			log.Infow("ladder stopped", "symbol", bp.Symbol)
			return nil
		}
		return err
	},
}

func init() {
	runCmd.Flags().Int64VarP(&cycles, "cycles", "n", 0, "Stop after this many cycles (0 runs until interrupted)")
	rootCmd.AddCommand(runCmd)
}

func setup() (*t.BotParams, *zap.SugaredLogger, exchange.Repository, error) {
	bp, err := loadParams(configFile, envFile)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := h.NewLogger(bp.LogLevel, bp.LogFile)
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.Sugar()
	ex, err := exchange.New(bp, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return bp, log, ex, nil
}
