package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledger-cli",
		Short: "Ledger CLI tool",
		Long:  `A command line interface for interacting with the ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(verifyCmd(), balanceCmd(), postCmd(), reverseCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func verifyCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "verify [party-id]",
		Short: "Check cached balances against recomputed ones",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if all || len(args) == 0 {
				doRequest(http.MethodPost, "/api/company-balance/verify", nil)
				return
			}
			doRequest(http.MethodGet, "/api/ledger/"+args[0]+"/verify", nil)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Verify every party")
	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <party-id>",
		Short: "Show a party's running balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/clients/"+args[0]+"/balance", nil)
		},
	}
}

func postCmd() *cobra.Command {
	var (
		kind   string
		key    string
		party  string
		amount string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Record a single-leg posting",
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]any{
				"kind":            kind,
				"idempotency_key": key,
				"reason":          reason,
				"legs": []map[string]any{
					{"party_id": party, "amount": amount},
				},
			}
			doRequest(http.MethodPost, "/api/ledger", body)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "sale", "Posting kind (sale, payment, adjustment)")
	cmd.Flags().StringVar(&key, "key", "", "Idempotency key (required)")
	cmd.Flags().StringVar(&party, "party", "", "Party ID (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "Signed amount (required)")
	cmd.Flags().StringVar(&reason, "reason", "", "Free-form reason")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("party")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func reverseCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reverse <posting-id>",
		Short: "Reverse a posting with a compensating posting",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/ledger/"+args[0]+"/reverse", map[string]any{"reason": reason})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the posting is being reversed")
	return cmd
}

func doRequest(method, path string, body map[string]any) {
	client := &http.Client{Timeout: timeout}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(pretty.String())
}
