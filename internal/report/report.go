// Package report renders batch assessment results for humans and
// downstream tooling: a per-token CSV, a JSON document, and a terse
// plain-text run summary.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/quantfi/tokenrisk/internal/batch"
)

// csvHeader is the column layout of the full CSV report.
var csvHeader = []string{
	"address", "chain", "symbol", "score", "category",
	"red_flags", "is_stablecoin", "eu_compliance", "mica_category",
	"degraded_sources", "error",
}

// WriteCSV writes one row per assessed token.
func WriteCSV(w io.Writer, summary *batch.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range summary.Results {
		row := []string{
			r.Address,
			r.Chain,
			r.Symbol,
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			r.Category,
			strings.Join(r.RedFlags, ";"),
			strconv.FormatBool(r.IsStablecoin),
			r.EUComplianceStatus,
			r.MiCACategory,
			strings.Join(r.DegradedSources, ";"),
			r.Error,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.Address, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// jsonReport is the top-level shape of the JSON report.
type jsonReport struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Total       int               `json:"total"`
	Succeeded   int               `json:"succeeded"`
	Failed      int               `json:"failed"`
	SkippedRows []string          `json:"skippedRows,omitempty"`
	Categories  map[string]int    `json:"categories"`
	Results     []json.RawMessage `json:"results"`
}

// WriteJSON writes the full run as a single indented JSON document.
// Each result keeps its API shape.
func WriteJSON(w io.Writer, summary *batch.Summary) error {
	doc := jsonReport{
		GeneratedAt: time.Now().UTC(),
		Total:       summary.Total,
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		Categories:  summary.CategoryCounts(),
	}
	for _, skip := range summary.Skipped {
		doc.SkippedRows = append(doc.SkippedRows, skip.Error())
	}
	for _, r := range summary.Results {
		raw, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal result for %s: %w", r.Address, err)
		}
		doc.Results = append(doc.Results, raw)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteSummary writes the short human-readable run recap used by the
// CLI after a batch finishes.
func WriteSummary(w io.Writer, summary *batch.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Assessed %d tokens in %s (%d ok, %d failed, %d rows skipped)\n",
		summary.Total, summary.Elapsed.Round(time.Millisecond),
		summary.Succeeded, summary.Failed, len(summary.Skipped))

	counts := summary.CategoryCounts()
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(&b, "  %-14s %d\n", c, counts[c])
	}

	if worst := worstTokens(summary, 5); len(worst) > 0 {
		b.WriteString("Highest risk:\n")
		for _, r := range worst {
			label := r.Symbol
			if label == "" {
				label = r.Address
			}
			fmt.Fprintf(&b, "  %6.2f  %-13s %s (%s)\n", r.Score, r.Category, label, r.Chain)
		}
	}

	for _, skip := range summary.Skipped {
		fmt.Fprintf(&b, "skipped %s\n", skip.Error())
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// worstTokens returns up to n results ordered by descending score.
func worstTokens(summary *batch.Summary, n int) []*resultView {
	views := make([]*resultView, 0, len(summary.Results))
	for _, r := range summary.Results {
		views = append(views, &resultView{
			Address:  r.Address,
			Chain:    r.Chain,
			Symbol:   r.Symbol,
			Score:    r.Score,
			Category: r.Category,
		})
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Score > views[j].Score })
	if len(views) > n {
		views = views[:n]
	}
	return views
}

type resultView struct {
	Address  string
	Chain    string
	Symbol   string
	Score    float64
	Category string
}
