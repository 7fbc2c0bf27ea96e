package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/marcus/pkg/config"
	"github.com/wonny/marcus/pkg/httputil"
	"github.com/wonny/marcus/pkg/logger"
)

// Example_getJSON demonstrates decoding a JSON endpoint with retries
func Example_getJSON() {
	cfg := config.Default()
	log := logger.New(cfg)

	// Create HTTP client (SSOT)
	client := httputil.New(cfg, log).WithRetry(2, 500*time.Millisecond)

	var payload map[string]interface{}
	err := client.GetJSON(context.Background(), cfg.Yahoo.BaseURL+"/v10/finance/quoteSummary/AAPL?modules=assetProfile", &payload)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}

	fmt.Printf("Modules: %d\n", len(payload))
}
