// Package main provides a small load test CLI for the attendance API. It
// drives the read path (session list and single-session reads) with a
// configurable number of workers and reports latency percentiles.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

type Config struct {
	BaseURL     string
	Viewer      string        // optional viewer address appended to read requests
	Duration    time.Duration // how long to run
	Concurrency int           // number of concurrent workers
	Timeout     time.Duration // per-request timeout
}

type sample struct {
	latency time.Duration
	status  int
	err     error
}

type report struct {
	Total     int
	Failed    int
	NonOK     int
	Elapsed   time.Duration
	Latencies []time.Duration
}

func main() {
	cfg := parseFlags()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	ids, err := discoverSessionIDs(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list sessions: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Target: %s (%d sessions, %d workers, %s)\n\n",
		cfg.BaseURL, len(ids), cfg.Concurrency, cfg.Duration)

	rep := run(ctx, cfg, ids)
	printReport(rep)

	if rep.Failed > 0 {
		os.Exit(1)
	}
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "url", defaultBaseURL, "Base URL of the attendance API")
	flag.StringVar(&cfg.Viewer, "viewer", "", "Optional viewer address to resolve participation for")
	flag.DurationVar(&cfg.Duration, "duration", 30*time.Second, "How long to run")
	flag.IntVar(&cfg.Concurrency, "concurrency", 8, "Number of concurrent workers")
	flag.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "Per-request timeout")
	flag.Parse()
	return cfg
}

// discoverSessionIDs fetches the session list once so workers can hit
// individual session reads with real ids
func discoverSessionIDs(ctx context.Context, cfg Config) ([]uint64, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+"/v1/sessions", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Sessions []struct {
			ID uint64 `json:"id"`
		} `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(body.Sessions))
	for _, s := range body.Sessions {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

// run fans out workers that alternate between list and single-session reads
// until the context expires, then aggregates their samples
func run(ctx context.Context, cfg Config, ids []uint64) *report {
	samples := make(chan sample, 1024)
	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < cfg.Concurrency; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			worker(ctx, cfg, ids, rand.New(rand.NewSource(seed)), samples)
		}(start.UnixNano() + int64(w))
	}

	go func() {
		wg.Wait()
		close(samples)
	}()

	rep := &report{}
	for s := range samples {
		rep.Total++
		switch {
		case s.err != nil:
			rep.Failed++
		case s.status != http.StatusOK:
			rep.NonOK++
		default:
			rep.Latencies = append(rep.Latencies, s.latency)
		}
	}
	rep.Elapsed = time.Since(start)
	return rep
}

func worker(ctx context.Context, cfg Config, ids []uint64, rng *rand.Rand, samples chan<- sample) {
	client := &http.Client{Timeout: cfg.Timeout}

	for ctx.Err() == nil {
		url := cfg.BaseURL + "/v1/sessions"
		if len(ids) > 0 && rng.Intn(2) == 0 {
			url = fmt.Sprintf("%s/%d", url, ids[rng.Intn(len(ids))])
		}
		if cfg.Viewer != "" {
			url += "?viewer=" + cfg.Viewer
		}

		begin := time.Now()
		status, err := get(ctx, client, url)
		if ctx.Err() != nil {
			return
		}
		samples <- sample{latency: time.Since(begin), status: status, err: err}
	}
}

func get(ctx context.Context, client *http.Client, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func printReport(rep *report) {
	fmt.Printf("Requests:   %d (%s)\n", rep.Total, formatRate(rep.Total, rep.Elapsed))
	fmt.Printf("Failures:   %d transport, %d non-200 (%s error rate)\n",
		rep.Failed, rep.NonOK, percentageString(rep.Failed+rep.NonOK, rep.Total))

	if len(rep.Latencies) == 0 {
		return
	}
	sort.Slice(rep.Latencies, func(i, j int) bool { return rep.Latencies[i] < rep.Latencies[j] })
	fmt.Printf("Latency:    p50=%s p90=%s p99=%s max=%s\n",
		percentile(rep.Latencies, 0.50),
		percentile(rep.Latencies, 0.90),
		percentile(rep.Latencies, 0.99),
		rep.Latencies[len(rep.Latencies)-1].Round(time.Millisecond))
}

// percentile returns the p-th percentile of sorted latencies
func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx].Round(time.Millisecond)
}

// formatRate formats a rate (requests per second)
func formatRate(count int, duration time.Duration) string {
	if duration.Seconds() == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f/s", float64(count)/duration.Seconds())
}

// percentageString calculates and formats a percentage
func percentageString(part, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}
