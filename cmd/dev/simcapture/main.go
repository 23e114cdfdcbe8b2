// simcapture posts a signed payment.captured webhook to a locally running
// API, standing in for the payment provider during development.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"tourbook/internal/payment"
	"tourbook/pkg/gateway"
)

func main() {
	var (
		url       = flag.String("url", "", "webhook endpoint url (defaults to http://localhost<HTTP_ADDR>/v1/webhooks/payments)")
		secret    = flag.String("secret", "", "GATEWAY_WEBHOOK_SECRET")
		reference = flag.String("reference", "", "booking id the capture is for")
		amount    = flag.String("amount", "120.00", "captured amount")
		currency  = flag.String("currency", "USD", "captured currency")
		session   = flag.String("session", "sess_dev", "provider session id")
	)
	flag.Parse()

	if *url == "" {
		httpAddr := os.Getenv("HTTP_ADDR")
		if httpAddr == "" {
			httpAddr = ":8081"
		}
		if len(httpAddr) > 0 && httpAddr[0] == ':' {
			*url = "http://localhost" + httpAddr + "/v1/webhooks/payments"
		} else {
			*url = "http://localhost:8081/v1/webhooks/payments"
		}
	}

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -secret")
		os.Exit(2)
	}
	if *reference == "" {
		fmt.Fprintln(os.Stderr, "missing -reference")
		os.Exit(2)
	}

	b, err := json.Marshal(map[string]any{
		"type":      "payment.captured",
		"sessionId": *session,
		"reference": *reference,
		"amount":    *amount,
		"currency":  *currency,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal payload: %v\n", err)
		os.Exit(2)
	}

	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(b))
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(2)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(payment.SignatureHeader, gateway.Sign(b, *secret))

	c := &http.Client{Timeout: 10 * time.Second}
	resp, err := c.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "post: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("status=%d\n%s\n", resp.StatusCode, string(body))
}
