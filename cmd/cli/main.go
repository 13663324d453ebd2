package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/usecase"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient calls the wallet HTTP API.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// envelope is the response wrapper of every endpoint.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// apiError is a non-2xx answer from the server.
type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Message)
}

func (c *apiClient) do(method, path string, body any, headers map[string]string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, strings.TrimRight(c.baseURL, "/")+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &apiError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return env.Data, nil
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		baseURL string
		token   string
		timeout time.Duration
	)

	client := func() *apiClient {
		t := token
		if t == "" {
			t = os.Getenv("WALLET_TOKEN")
		}
		return &apiClient{baseURL: baseURL, token: t, http: &http.Client{Timeout: timeout}}
	}

	// printData pretty-prints the data of a successful response.
	printData := func(data json.RawMessage) error {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, buf.String())
		return err
	}

	rootCmd := &cobra.Command{
		Use:           "gowallet-cli",
		Short:         "GoWallet CLI tool",
		Long:          `A command line interface for interacting with the GoWallet API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoWallet API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (defaults to $WALLET_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "register <name> <phone> <pin>",
		Short: "Open a wallet and print its token",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client().do(http.MethodPost, "/api/auth/register",
				map[string]string{"name": args[0], "phone": args[1], "pin": args[2]}, nil)
			if err != nil {
				return err
			}
			return printData(data)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "login <phone> <pin>",
		Short: "Log in and print a token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client().do(http.MethodPost, "/api/auth/login",
				map[string]string{"phone": args[0], "pin": args[1]}, nil)
			if err != nil {
				return err
			}
			return printData(data)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "balance",
		Short: "Show the wallet balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client().do(http.MethodGet, "/wallet/balance", nil, nil)
			if err != nil {
				return err
			}

			var b struct {
				Amount   json.Number `json:"amount"`
				Currency string      `json:"currency"`
			}
			if err := json.Unmarshal(data, &b); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "Balance: %s %s\n", b.Amount, b.Currency)
			return err
		},
	})

	var idempotencyKey string
	sendCmd := &cobra.Command{
		Use:   "send <phone> <amount>",
		Short: "Send money to the wallet registered to a phone number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var headers map[string]string
			if idempotencyKey != "" {
				headers = map[string]string{"Idempotency-Key": idempotencyKey}
			}
			data, err := client().do(http.MethodPost, "/wallet/send",
				map[string]string{"recipientIdentifier": args[0], "amount": args[1]}, headers)
			if err != nil {
				return err
			}
			return printData(data)
		},
	}
	sendCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Replay-safe key for retries")
	rootCmd.AddCommand(sendCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "deposit <amount>",
		Short: "Add funds to the wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client().do(http.MethodPost, "/wallet/deposit", map[string]string{"amount": args[0]}, nil)
			if err != nil {
				return err
			}
			return printData(data)
		},
	})

	var page, size int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List wallet transactions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/wallet/transactions?page=" + strconv.Itoa(page) + "&size=" + strconv.Itoa(size)
			data, err := client().do(http.MethodGet, path, nil, nil)
			if err != nil {
				return err
			}
			return printData(data)
		},
	}
	historyCmd.Flags().IntVar(&page, "page", 0, "Page number, starting at 0")
	historyCmd.Flags().IntVar(&size, "size", 20, "Page size")
	rootCmd.AddCommand(historyCmd)

	var unread bool
	notificationsCmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/notifications"
			if unread {
				path = "/notifications/unread"
			}
			data, err := client().do(http.MethodGet, path, nil, nil)
			if err != nil {
				return err
			}
			return printData(data)
		},
	}
	notificationsCmd.Flags().BoolVar(&unread, "unread", false, "Only unread notifications")
	rootCmd.AddCommand(notificationsCmd)

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations (admin)",
	}

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client().do(http.MethodGet, "/admin/ledger/consistency", nil, nil)
			if err != nil {
				return err
			}

			var report struct {
				Consistent    bool        `json:"consistent"`
				TotalBalances json.Number `json:"totalBalances"`
				TotalDeposits json.Number `json:"totalDeposits"`
			}
			if err := json.Unmarshal(data, &report); err != nil {
				return err
			}

			if !report.Consistent {
				fmt.Fprintf(out, "Consistency check FAILED\nBalances: %s\nDeposits: %s\n", report.TotalBalances, report.TotalDeposits)
				return errors.New("ledger is inconsistent")
			}

			_, err = fmt.Fprintf(out, "Consistency check PASSED\nBalances: %s\nDeposits: %s\n", report.TotalBalances, report.TotalDeposits)
			return err
		},
	})

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "reconcile [account-id]",
		Short: "Reconcile one account, or every account when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/admin/reconciliation"
			if len(args) == 1 {
				path += "/" + args[0]
			}
			data, err := client().do(http.MethodGet, path, nil, nil)
			if err != nil {
				return err
			}
			return printData(data)
		},
	})
	rootCmd.AddCommand(ledgerCmd)

	// Database commands run against DATABASE_URL directly.
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath, log)
		},
	})
	rootCmd.AddCommand(migrateCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "hash-pin <pin>",
		Short: "Print the bcrypt hash stored for a pin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), usecase.PinHashCost)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(hash))
			return err
		},
	})

	return rootCmd
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"}), nil
}
