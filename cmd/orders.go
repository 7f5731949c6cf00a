package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	afterOrderID int64
	rawOrders    bool
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Print the current price of the configured symbol",
	RunE: func(cmd *cobra.Command, args []string) error {
		bp, log, ex, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		price, err := ex.GetPrice(context.Background(), bp.Symbol)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", bp.Symbol, price)
		return nil
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Print open orders of the configured symbol",
	RunE: func(cmd *cobra.Command, args []string) error {
		bp, log, ex, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if rawOrders {
			data, err := ex.GetOpenOrders(context.Background(), bp.Symbol)
			fmt.Fprintln(cmd.OutOrStdout(), data)
			return err
		}
		return ex.PrintCompactOrders(context.Background(), cmd.OutOrStdout(), bp.Symbol, afterOrderID)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print all orders of the configured symbol; active, canceled, or filled",
	RunE: func(cmd *cobra.Command, args []string) error {
		bp, log, ex, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		data, err := ex.GetOrderHistory(context.Background(), bp.Symbol)
		fmt.Fprintln(cmd.OutOrStdout(), data)
		return err
	},
}

var orderCmd = &cobra.Command{
	Use:   "order [orderId]",
	Short: "Print one order by its exchange ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order ID %q: %w", args[0], err)
		}
		bp, log, ex, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		o, err := ex.GetOrder(context.Background(), bp.Symbol, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "id=%d %s %s price=%.8f qty=%.8f status=%s\n",
			o.RefID, o.Side, o.Type, o.Price, o.Qty, o.Status)
		return nil
	},
}

func init() {
	ordersCmd.Flags().Int64VarP(&afterOrderID, "after", "a", 0, "Show only orders with an ID above this one")
	ordersCmd.Flags().BoolVar(&rawOrders, "raw", false, "Print the raw exchange response")

	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(orderCmd)
}
