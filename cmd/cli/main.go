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
		Use:   "remit-cli",
		Short: "Remit CLI tool",
		Long:  `A command line interface for interacting with the Remit API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Remit API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	trackCmd := &cobra.Command{
		Use:   "track [tracking-number]",
		Short: "Track a transfer by tracking number",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			trackTransfer(args[0])
		},
	}
	rootCmd.AddCommand(trackCmd)

	ratesCmd := &cobra.Command{
		Use:   "rates",
		Short: "List active exchange rate corridors",
		Run: func(cmd *cobra.Command, args []string) {
			listRates()
		},
	}
	rootCmd.AddCommand(ratesCmd)

	var (
		quoteAmount float64
		quoteFrom   string
		quoteTo     string
		quoteMethod string
		quotePayout string
	)
	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Get a transfer quote",
		Run: func(cmd *cobra.Command, args []string) {
			getQuote(quoteAmount, quoteFrom, quoteTo, quoteMethod, quotePayout)
		},
	}
	quoteCmd.Flags().Float64Var(&quoteAmount, "amount", 0, "Amount to send")
	quoteCmd.Flags().StringVar(&quoteFrom, "from", "USD", "Source currency")
	quoteCmd.Flags().StringVar(&quoteTo, "to", "NGN", "Destination currency")
	quoteCmd.Flags().StringVar(&quoteMethod, "method", "bank-transfer", "Payment method")
	quoteCmd.Flags().StringVar(&quotePayout, "payout", "bank_account", "Payout method")
	_ = quoteCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(quoteCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func trackTransfer(trackingNumber string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/track/" + trackingNumber)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Tracking lookup failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Tracking number: %s\n", result["tracking_number"])
	fmt.Printf("Status: %s\n", result["status"])
	if delivery, ok := result["estimated_delivery"].(string); ok && delivery != "" {
		fmt.Printf("Estimated delivery: %s\n", delivery)
	}
	if completed, ok := result["completed_at"].(string); ok && completed != "" {
		fmt.Printf("Completed at: %s\n", completed)
	}
}

func listRates() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/rates")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Rates lookup failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var corridors []map[string]any
	if err := json.Unmarshal(body, &corridors); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, c := range corridors {
		line := fmt.Sprintf("%s -> %s: %v (updated %s)",
			c["from"], c["to"], c["client_rate"], c["last_updated"])
		if stale, ok := c["stale"].(bool); ok && stale {
			line += " [stale]"
		}
		fmt.Println(line)
	}
}

func getQuote(amount float64, from, to, method, payout string) {
	client := &http.Client{Timeout: timeout}

	payload, _ := json.Marshal(map[string]any{
		"send_amount":      amount,
		"send_currency":    from,
		"receive_currency": to,
		"payment_method":   method,
		"payout_method":    payout,
	})

	resp, err := client.Post(baseURL+"/api/v1/quotes", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Quote request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Send %v %s -> receive %v %s\n", result["send_amount"], from, result["receive_amount"], to)
	if rate, ok := result["rate"].(map[string]any); ok {
		fmt.Printf("Rate: %v\n", rate["effective_rate"])
	}
	if fees, ok := result["fees"].(map[string]any); ok {
		fmt.Printf("Fees: %v %s\n", fees["total_fees"], from)
	}
	fmt.Printf("Total to pay: %v %s\n", result["total_send_amount"], from)
	if delivery, ok := result["estimated_delivery"].(string); ok && delivery != "" {
		fmt.Printf("Estimated delivery: %s\n", delivery)
	}
}
