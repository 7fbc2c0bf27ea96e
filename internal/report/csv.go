package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/wonny/marcus/internal/contracts"
)

// csvRow is one exported line. Absent metrics are empty cells.
// Ratios that are fractions in the quote are written as percentages.
type csvRow struct {
	Rank          int    `csv:"rank"`
	Ticker        string `csv:"ticker"`
	Name          string `csv:"name"`
	Sector        string `csv:"sector"`
	Price         string `csv:"price"`
	PE            string `csv:"pe"`
	PB            string `csv:"pb"`
	ROE           string `csv:"roe"`
	DividendYield string `csv:"dividend_yield"`
	Score         int    `csv:"score"`
	Signals       string `csv:"signals"`
	Reasons       string `csv:"reasons"`
}

// WriteCSV writes a header row plus one row per result.
// An empty result set still produces the header.
func WriteCSV(w io.Writer, results []contracts.ScoredResult) error {
	rows := make([]*csvRow, 0, len(results))
	for i := range results {
		rows = append(rows, toRow(&results[i]))
	}

	if len(rows) == 0 {
		header, err := gocsv.MarshalString([]*csvRow{{}})
		if err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
		// Header line only
		if idx := strings.IndexByte(header, '\n'); idx >= 0 {
			header = header[:idx+1]
		}
		_, err = io.WriteString(w, header)
		return err
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func toRow(r *contracts.ScoredResult) *csvRow {
	q := r.Quote
	return &csvRow{
		Rank:          r.Rank,
		Ticker:        r.Ticker,
		Name:          r.DisplayName,
		Sector:        r.Sector,
		Price:         decimal.NewFromFloat(q.CurrentPrice).StringFixed(2),
		PE:            ratioCell(q.PERatio),
		PB:            ratioCell(q.PBRatio),
		ROE:           percentCell(q.ROE),
		DividendYield: percentCell(q.DividendYield),
		Score:         r.Score,
		Signals:       r.SignalString(),
		Reasons:       strings.Join(r.Reasons, "; "),
	}
}

func ratioCell(p *float64) string {
	v, ok := contracts.Value(p)
	if !ok {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func percentCell(p *float64) string {
	v, ok := contracts.Value(p)
	if !ok {
		return ""
	}
	return decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).StringFixed(2)
}
