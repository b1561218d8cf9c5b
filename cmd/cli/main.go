package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/bankledger/internal/adapter/repository/memory"
	"github.com/iho/bankledger/internal/infrastructure/auth"
	"github.com/iho/bankledger/internal/usecase"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bankledger-cli",
		Short:         "BankLedger CLI tool",
		Long:          `A command line interface for the BankLedger API and an offline demo of the ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the BankLedger API")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("BANKLEDGER_TOKEN"), "Bearer token for authenticated APIs")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(consistencyCmd())

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}
	accountCmd.AddCommand(statementCmd())

	root.AddCommand(ledgerCmd, accountCmd, demoCmd(), tokenCmd())

	return root
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := get(cmd.Context(), "/api/v1/ledger/consistency")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status != http.StatusOK {
				fmt.Fprintf(out, "Consistency check FAILED (Status: %d)\nResponse: %s\n", status, string(body))
				return fmt.Errorf("consistency check failed with status %d", status)
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Fprintf(out, "Consistency check PASSED\n")
			if consistent, ok := result["consistent"].(bool); ok {
				fmt.Fprintf(out, "Consistent: %v\n", consistent)
			}
			fmt.Fprintf(out, "Accounts: %v\n", result["accounts"])
			fmt.Fprintf(out, "Total balance: %v\n", result["total_balance"])

			return nil
		},
	}
}

func statementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statement <account-id>",
		Short: "Print an account statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := get(cmd.Context(), "/api/v1/accounts/"+url.PathEscape(args[0])+"/statement?format=text")
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("statement request failed (status %d): %s", status, truncate(string(body), 200))
			}

			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		secret  string
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}

			r, err := auth.ParseRole(role)
			if err != nil {
				return err
			}

			signed, err := auth.NewJWTManager(secret, ttl).Generate(auth.Principal{Subject: subject, Role: r})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC signing secret")
	cmd.Flags().StringVar(&subject, "subject", "cli", "Token subject")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleViewer), "Role: viewer, operator or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the ledger demo against an in-memory registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

// runDemo opens two accounts, exercises deposits, withdrawals and transfers
// including failing ones, then prints both statements.
func runDemo(ctx context.Context, out io.Writer) error {
	repo := memory.NewAccountRepository()
	idGen := memory.NewULIDGenerator()
	accounts := usecase.NewAccountUseCase(repo, idGen, nil, nil, zerolog.Nop())
	transfers := usecase.NewTransferUseCase(repo, idGen, nil, nil, zerolog.Nop())

	for _, in := range []usecase.OpenAccountInput{
		{ID: "123456", Owner: "Alice", OpeningBalance: decimal.NewFromInt(1000)},
		{ID: "789012", Owner: "Bob", OpeningBalance: decimal.NewFromInt(500)},
	} {
		if _, err := accounts.OpenAccount(ctx, in); err != nil {
			return err
		}
	}

	report := func(err error) {
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}

	_, err := accounts.Deposit(ctx, "123456", decimal.NewFromInt(200))
	report(err)
	_, err = accounts.Withdraw(ctx, "123456", decimal.NewFromInt(100))
	report(err)
	_, err = accounts.Withdraw(ctx, "123456", decimal.NewFromInt(2000))
	report(err)
	_, err = accounts.Deposit(ctx, "123456", decimal.NewFromInt(-50))
	report(err)

	for _, amount := range []int64{300, 2000} {
		transfer, _ := transfers.TransferByID(ctx, usecase.TransferInput{
			SourceID: "123456",
			TargetID: "789012",
			Amount:   decimal.NewFromInt(amount),
		})
		fmt.Fprintln(out, transfer.Message())
	}

	for _, id := range []string{"123456", "789012"} {
		stmt, err := accounts.Statement(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprint(out, stmt.String())
	}

	return nil
}

func get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
