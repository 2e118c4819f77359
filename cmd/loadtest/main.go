package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	defaultBaseURL = "http://localhost:8080"
	targetRPS      = 5
	testDuration   = 2 * time.Minute
)

var (
	baseURL       = envOr("LOADTEST_URL", defaultBaseURL)
	webhookSecret = os.Getenv("GITHUB_WEBHOOK_SECRET")
)

// Сценарии обращаются только к путям, не выходящим за пределы сервиса:
// health, ping вебхука и ответ неизвестному пользователю Slack
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/loadtest <scenario>")
		fmt.Println("Scenarios: health, webhook, command, all")
		os.Exit(1)
	}

	scenario := os.Args[1]

	var metrics vegeta.Metrics
	var err error

	switch scenario {
	case "health":
		metrics, err = testHealth()
	case "webhook":
		metrics, err = testWebhook()
	case "command":
		metrics, err = testCommand()
	case "all":
		metrics, err = testAll()
	default:
		fmt.Printf("Unknown scenario: %s\n", scenario)
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	printMetrics(metrics)
}

func testHealth() (vegeta.Metrics, error) {
	return runAttack(vegeta.NewStaticTargeter(healthTarget()), "Health Check")
}

func testWebhook() (vegeta.Metrics, error) {
	return runAttack(vegeta.NewStaticTargeter(pingTarget()), "Webhook Ping")
}

func testCommand() (vegeta.Metrics, error) {
	return runAttack(vegeta.NewStaticTargeter(reviewCommandTarget()), "Review Command")
}

func testAll() (vegeta.Metrics, error) {
	targeter := vegeta.NewStaticTargeter(
		healthTarget(),
		pingTarget(),
		reviewCommandTarget(),
	)
	return runAttack(targeter, "All Endpoints")
}

func healthTarget() vegeta.Target {
	return vegeta.Target{
		Method: "GET",
		URL:    baseURL + "/health",
	}
}

func pingTarget() vegeta.Target {
	body := []byte(`{"zen":"Keep it logically awesome.","hook_id":1}`)
	header := http.Header{
		"Content-Type":   []string{"application/json"},
		"X-GitHub-Event": []string{"ping"},
	}
	if webhookSecret != "" {
		header.Set("X-Hub-Signature-256", sign(body, webhookSecret))
	}

	return vegeta.Target{
		Method: "POST",
		URL:    baseURL + "/github_event",
		Body:   body,
		Header: header,
	}
}

func reviewCommandTarget() vegeta.Target {
	form := url.Values{
		"command":    {"/code_review_bot"},
		"user_id":    {fmt.Sprintf("U_LOAD_%d", time.Now().Unix())},
		"channel_id": {"C_LOAD"},
		"text":       {""},
	}

	return vegeta.Target{
		Method: "POST",
		URL:    baseURL + "/review",
		Body:   []byte(form.Encode()),
		Header: http.Header{
			"Content-Type": []string{"application/x-www-form-urlencoded"},
		},
	}
}

func runAttack(targeter vegeta.Targeter, name string) (vegeta.Metrics, error) {
	rate := vegeta.Rate{Freq: targetRPS, Per: time.Second}
	attacker := vegeta.NewAttacker()

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, rate, testDuration, name) {
		metrics.Add(res)
	}
	metrics.Close()

	return metrics, nil
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printMetrics(metrics vegeta.Metrics) {
	fmt.Printf("\n=== Load Test Results ===\n\n")
	fmt.Printf("Target:             %s\n", baseURL)
	fmt.Printf("Requests Total:     %d\n", metrics.Requests)
	fmt.Printf("Success Rate:       %.2f%%\n", metrics.Success*100)
	fmt.Printf("Duration:           %v\n", metrics.Duration)

	if metrics.Requests > 0 {
		fmt.Printf("\nLatency:\n")
		fmt.Printf("  Mean:             %v\n", metrics.Latencies.Mean)
		fmt.Printf("  P50:              %v\n", metrics.Latencies.P50)
		fmt.Printf("  P95:              %v\n", metrics.Latencies.P95)
		fmt.Printf("  P99:              %v\n", metrics.Latencies.P99)
		fmt.Printf("  Max:              %v\n", metrics.Latencies.Max)

		fmt.Printf("\nThroughput:\n")
		fmt.Printf("  Requests/sec:     %.2f\n", metrics.Rate)

		fmt.Printf("\nStatus Codes:\n")
		for code, count := range metrics.StatusCodes {
			fmt.Printf("  %s: %d\n", code, count)
		}

		fmt.Printf("\nErrors:\n")
		if len(metrics.Errors) > 0 {
			for _, err := range metrics.Errors {
				fmt.Printf("  %s\n", err)
			}
		} else {
			fmt.Printf("  None\n")
		}

		fmt.Printf("\nSLI Compliance:\n")
		p95ms := metrics.Latencies.P95.Seconds() * 1000
		successRate := metrics.Success * 100
		fmt.Printf("  P95 Latency:      %.2f ms (target: < 300ms) - %s\n",
			p95ms,
			checkStatus(p95ms < 300, "PASS", "FAIL"))
		fmt.Printf("  Success Rate:     %.2f%% (target: > 99.9%%) - %s\n",
			successRate,
			checkStatus(successRate >= 99.9, "PASS", "FAIL"))
	}
	fmt.Printf("\n")
}

func checkStatus(condition bool, pass, fail string) string {
	if condition {
		return pass
	}
	return fail
}
