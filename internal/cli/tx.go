package cli

import (
	"github.com/spf13/cobra"
)

func newTxCmd() *cobra.Command {
	var (
		txType      string
		amount      int64
		description string
	)

	cmd := &cobra.Command{
		Use:   "tx <player-id>",
		Short: "Apply a transaction to a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"type":        txType,
				"amount":      amount,
				"description": description,
			}
			var result TransactionResult

			if err := client.Post("/api/v1/players/"+args[0]+"/transactions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&txType, "type", "", "Transaction type, e.g. RECEIVE_BANK or PAY_RENT (required)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount in whole units (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description (optional)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newTransferCmd() *cobra.Command {
	var (
		from   string
		to     string
		amount int64
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer between two players",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"sender_id":    from,
				"recipient_id": to,
				"amount":       amount,
			}
			var result TransferResult

			if err := client.Post("/api/v1/transfers", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Sender player id (required)")
	cmd.Flags().StringVar(&to, "to", "", "Recipient player id (required)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount in whole units (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
