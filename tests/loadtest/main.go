package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sourcegraph/conc"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

// Real OMDb ids; each is fetched upstream once and served from the watched list after that.
var movieIDs = []string{
	"tt0372784", "tt1877830", "tt0096895", "tt0468569", "tt1345836",
	"tt0103776", "tt0112462", "tt0118688", "tt2975590", "tt0106364",
}

var queries = []string{"batman", "heat", "alien", "matrix", "ronin"}

var httpClient = &http.Client{
	Timeout: 15 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== usePopcorn Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Movies: %d\n\n", numWorkers, testDuration, len(movieIDs))

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Select and rate every movie once so later phases mostly hit the watched list.
	fmt.Println("\n--- Phase 1: Seeding watched list (details + rating) ---")
	for _, id := range movieIDs {
		r := doSelect(id)
		if r.err {
			fmt.Printf("  select %s failed with status %d\n", id, r.status)
			continue
		}
		doRate(rand.New(rand.NewSource(time.Now().UnixNano())))
		doClose()
	}

	fmt.Println("\n--- Phase 2: Mixed load (30% writes, 70% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.15:
			return doSelect(movieIDs[rng.Intn(len(movieIDs))])
		case r < 0.30:
			return doRate(rng)
		case r < 0.55:
			return doGet("/api/watched/stats")
		case r < 0.80:
			return doGet("/api/watched")
		case r < 0.95:
			return doGet("/api/state")
		default:
			return doSearch(rng)
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (stats cache) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doRate(rng)
		case r < 0.60:
			return doGet("/api/watched/stats")
		case r < 0.90:
			return doGet("/api/watched")
		default:
			return doGet("/health")
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg conc.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		seed := rand.Int63() + int64(i)
		wg.Go(func() {
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		})
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func send(method, path, endpoint string, body []byte, okStatus int) result {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		return result{endpoint, 0, 0, true}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != okStatus}
}

func doGet(path string) result {
	return send(http.MethodGet, path, "GET "+path, nil, http.StatusOK)
}

func doSearch(rng *rand.Rand) result {
	q := queries[rng.Intn(len(queries))]
	return send(http.MethodGet, "/api/search?q="+q, "GET /api/search", nil, http.StatusOK)
}

func doSelect(id string) result {
	return send(http.MethodGet, "/api/details/"+id, "GET /api/details/{id}", nil, http.StatusOK)
}

func doClose() result {
	return send(http.MethodDelete, "/api/details", "DELETE /api/details", nil, http.StatusNoContent)
}

// doRate rates whatever is selected. A 409 means another worker closed the
// selection in between and is not counted as an error.
func doRate(rng *rand.Rand) result {
	data, _ := json.Marshal(map[string]int{"rating": rng.Intn(10) + 1})
	r := send(http.MethodPost, "/api/rating", "POST /api/rating", data, http.StatusOK)
	if r.status == http.StatusConflict {
		r.err = false
	}
	return r
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
