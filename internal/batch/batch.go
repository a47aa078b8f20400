// Package batch runs risk assessments over many tokens at once.
//
// Input is CSV (address,chain). Rows are validated and deduplicated up
// front, then assessed by a bounded worker pool. A failure on one token
// never stops the run; it surfaces as a maximum-risk result for that
// token, and the summary counts it.
package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/quantfi/tokenrisk/internal/assessor"
	"github.com/quantfi/tokenrisk/internal/logging"
	"github.com/quantfi/tokenrisk/internal/token"
)

const defaultWorkers = 5

// Request names one token to assess.
type Request struct {
	Address string
	Chain   string
	Line    int // 1-based CSV line, for error reporting
}

// RowError describes a CSV row that could not be turned into a request.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Summary is the outcome of a batch run.
type Summary struct {
	Results   []*assessor.Result
	Total     int
	Succeeded int
	Failed    int // assessments that resolved to an error result
	Skipped   []RowError
	Elapsed   time.Duration
}

// CategoryCounts tallies results per risk category.
func (s *Summary) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range s.Results {
		counts[r.Category]++
	}
	return counts
}

// ParseCSV reads address,chain rows. A header row is recognized and
// skipped; blank lines are ignored. Addresses are normalized and rows
// repeating an address+chain pair are dropped. Invalid rows are
// reported, not fatal.
func ParseCSV(r io.Reader) ([]Request, []RowError) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		requests []Request
		rowErrs  []RowError
		seen     = make(map[string]bool)
		line     int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if line == 1 && isHeader(record) {
			continue
		}
		if len(record) < 2 {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: "expected address,chain"})
			continue
		}

		addr := strings.TrimSpace(record[0])
		chainName := strings.ToLower(strings.TrimSpace(record[1]))

		normalized, err := token.NormalizeAddress(addr)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}
		if _, err := token.ParseChain(chainName); err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: fmt.Sprintf("unsupported chain %q", chainName)})
			continue
		}

		key := chainName + "/" + normalized
		if seen[key] {
			continue
		}
		seen[key] = true
		requests = append(requests, Request{Address: normalized, Chain: chainName, Line: line})
	}
	return requests, rowErrs
}

func isHeader(record []string) bool {
	return len(record) >= 1 && strings.EqualFold(strings.TrimSpace(record[0]), "address")
}

// Runner drives assessments through a bounded worker pool.
type Runner struct {
	assessor *assessor.Assessor
	workers  int
}

// NewRunner creates a batch runner. workers <= 0 falls back to the
// default pool size.
func NewRunner(a *assessor.Assessor, workers int) *Runner {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Runner{assessor: a, workers: workers}
}

// Run assesses every request and returns the collected summary. Results
// keep the input order. Cancelling ctx stops feeding new work; tokens
// not reached are left out of the results.
func (r *Runner) Run(ctx context.Context, requests []Request, skipped []RowError) *Summary {
	start := time.Now()
	results := make([]*assessor.Result, len(requests))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				req := requests[i]
				results[i] = r.assessor.Assess(ctx, req.Chain, req.Address)
			}
		}()
	}

feed:
	for i := range requests {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	summary := &Summary{
		Total:   len(requests),
		Skipped: skipped,
		Elapsed: time.Since(start),
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		summary.Results = append(summary.Results, res)
		if res.Error != "" {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}

	logging.L(ctx).Info("batch run complete",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", len(summary.Skipped),
		"elapsed", summary.Elapsed,
	)
	return summary
}
