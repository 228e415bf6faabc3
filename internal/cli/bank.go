package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newBankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Bank administration commands",
	}

	cmd.AddCommand(newBankLoginCmd())
	cmd.AddCommand(newBankSettingsCmd())
	cmd.AddCommand(newBankSetBalanceCmd())
	cmd.AddCommand(newBankChangePasswordCmd())
	cmd.AddCommand(newBankResetCmd())
	cmd.AddCommand(newBankWipeCmd())
	cmd.AddCommand(newBankExportCmd())
	cmd.AddCommand(newBankImportCmd())

	return cmd
}

func newBankLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a bank session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"password": password}
			var result BankSession

			if err := client.Post("/api/v1/bank/login", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Bank password (required)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newBankSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show bank settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Settings

			if err := client.Get("/api/v1/bank/settings", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBankSetBalanceCmd() *cobra.Command {
	var balance int64

	cmd := &cobra.Command{
		Use:   "set-balance",
		Short: "Set the starting balance for new players",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int64{"initial_balance": balance}
			var result Settings

			if err := client.Patch("/api/v1/bank/settings", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&balance, "balance", 0, "Starting balance (required)")
	_ = cmd.MarkFlagRequired("balance")

	return cmd
}

func newBankChangePasswordCmd() *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the bank password",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"current_password": current,
				"new_password":     next,
			}

			if err := client.Post("/api/v1/bank/password", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Password changed")
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "Current password (required)")
	cmd.Flags().StringVar(&next, "new", "", "New password (required)")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}

func newBankResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset every player to the starting balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerList

			if err := client.Post("/api/v1/bank/reset", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBankWipeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all players and settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to wipe without --force")
			}

			if err := client.Delete("/api/v1/players"); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("All data wiped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm the wipe")

	return cmd
}

func newBankExportCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full player list as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ExportResult

			if err := client.Get("/api/v1/bank/export", &result); err != nil {
				return err
			}

			if outFile != "" {
				return os.WriteFile(outFile, []byte(result.Data), 0644)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&outFile, "file", "", "Write the export to a file instead of stdout")

	return cmd
}

func newBankImportCmd() *cobra.Command {
	var inFile string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the player list with an exported JSON blob",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(inFile)
			if err != nil {
				return err
			}

			req := map[string]string{"data": string(data)}
			var result ImportResult

			if err := client.Post("/api/v1/bank/import", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&inFile, "file", "", "Exported JSON file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
