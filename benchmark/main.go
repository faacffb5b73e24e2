// Package main provides a performance benchmarking tool for the Scout CLI.
// It generates synthetic batch documents of increasing size, then times
// `scout diagnose` on each one with and without a SQLite report store,
// treating the first successful recorded run as cold and averaging the rest as warm.
// Results are written to a timestamped CSV file for later comparison.
//
// Prerequisites:
// - scout binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated documents and the benchmark report database
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-report average, cold run and average of warm runs).
type BenchmarkResult struct {
	BatchSize    int
	NoReportTime string
	ColdTime     string
	WarmTime     string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	Workers      int
	NoReportRuns int
	ReportRuns   int
	BatchSizes   []int
	Seed         uint64
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:      os.Args[1],
		Timeout:      5 * time.Minute,
		Workers:      14,
		NoReportRuns: 3,
		ReportRuns:   4,
		BatchSizes:   []int{100, 1000, 10000},
		Seed:         42,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the scout binary exists and the work directory is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("scout"); err != nil {
		return fmt.Errorf("scout binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks generates one document per batch size and benchmarks it
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d batch sizes, %v timeout, %d workers, no-report: %d runs, report: %d runs\n",
		len(config.BatchSizes), config.Timeout, config.Workers, config.NoReportRuns, config.ReportRuns)

	rng := rand.New(rand.NewPCG(config.Seed, config.Seed))
	for _, size := range config.BatchSizes {
		docPath := filepath.Join(config.WorkDir, fmt.Sprintf("batch_%d.json", size))
		if err := writeDocument(docPath, size, rng); err != nil {
			fmt.Printf("Failed to generate batch of %d: %v\n", size, err)
			continue
		}
		results = append(results, runBenchmarkSuite(config, size, docPath))
	}

	return results
}

// writeDocument writes a synthetic batch document with n companies spread across stages and signal shapes
func writeDocument(path string, n int, rng *rand.Rand) error {
	stages := []string{"Seed", "Series A", "Series B"}
	hiring := []string{"active", "frozen", "unknown"}

	companies := make([]map[string]any, 0, n)
	for i := range n {
		eng := 5 + rng.IntN(60)
		sales := 2 + rng.IntN(40)
		funded := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rng.IntN(700))
		companies = append(companies, map[string]any{
			"profile": map[string]any{
				"name":                    fmt.Sprintf("Bench %05d", i),
				"domain":                  fmt.Sprintf("bench-%05d.example", i),
				"stage":                   stages[rng.IntN(len(stages))],
				"funding_amount":          float64(1+rng.IntN(30)) * 1_000_000,
				"last_funding_date":       funded.Format(time.DateOnly),
				"engineering_count":       eng,
				"engineering_count_prior": eng + rng.IntN(10) - 5,
				"sales_count":             sales,
				"sales_count_prior":       sales + rng.IntN(10) - 2,
			},
			"signals": map[string]any{
				"engineering": map[string]any{"last_commit_days": rng.IntN(200), "stars": rng.IntN(5000)},
				"traffic":     map[string]any{"score": rng.IntN(100)},
				"hiring":      map[string]any{"status": hiring[rng.IntN(len(hiring))], "sales_to_eng_ratio": rng.Float64() * 2},
				"homepage":    map[string]any{"h1_text": "The leading innovative platform", "title_text": "Platform"},
			},
		})
	}

	data, err := json.Marshal(map[string]any{"as_of": "2026-01-15", "companies": companies})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// runBenchmarkSuite runs both no-report and report benchmarks for one document
func runBenchmarkSuite(config BenchmarkConfig, size int, docPath string) BenchmarkResult {
	fmt.Printf("Running diagnose on %d companies\n", size)

	dbPath := filepath.Join(config.WorkDir, "bench_reports.db")
	clearCmd := exec.Command("scout", "report", "clear", "--report-backend", "sqlite", "--report-db-connect", dbPath)
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear report store: %v\nOutput: %s\n", err, string(output))
	}

	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		args := []string{"--report-backend", backend}
		if backend == "sqlite" {
			args = append(args, "--report-db-connect", dbPath)
		}
		cold, times := runBenchmark(config, docPath, args, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noReportAvg := runPhase("none", config.NoReportRuns, "No-report")
	coldTime, warmAvg := runPhase("sqlite", config.ReportRuns, "Report")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-report average: %s, Cold time: %s, Warm average: %s\n", noReportAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		BatchSize:    size,
		NoReportTime: noReportAvg,
		ColdTime:     coldTimeStr,
		WarmTime:     warmAvg,
	}
}

// runBenchmark executes scout diagnose multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, docPath string, extraArgs []string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{"diagnose", docPath, "--workers", strconv.Itoa(config.Workers)}, extraArgs...)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("scout", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Diagnosis completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/scout_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"batch_size", "no_report_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{strconv.Itoa(result.BatchSize), result.NoReportTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	fmt.Printf("Diagnose:\n")
	for _, result := range results {
		fmt.Printf("  %-6d companies: No-report: %s, Cold: %s, Warm: %s\n", result.BatchSize, result.NoReportTime, result.ColdTime, result.WarmTime)
	}
}
