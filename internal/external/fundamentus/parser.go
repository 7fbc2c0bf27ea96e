package fundamentus

import (
	"errors"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/marcus/internal/contracts"
)

// Labels on the detail page
const (
	labelCompany       = "Empresa"
	labelSector        = "Setor"
	labelPE            = "P/L"
	labelPB            = "P/VP"
	labelROE           = "ROE"
	labelDividendYield = "Div. Yield"
	labelRevenueGrowth = "Cres. Rec (5a)"
)

// errNotFound is returned when the page has no indicator table (unknown papel)
var errNotFound = errors.New("papel not found")

// details is the parsed subset of the page. Percent values are fractions.
type details struct {
	Company       string
	Sector        string
	PE            *float64
	PB            *float64
	ROE           *float64
	DividendYield *float64
	RevenueGrowth *float64
}

// parseDetails reads label/value cell pairs from the detail tables
func parseDetails(html string) (*details, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	doc.Find("td.label").Each(func(_ int, cell *goquery.Selection) {
		label := cellText(cell)
		if label == "" {
			return
		}
		if _, seen := values[label]; seen {
			return
		}
		values[label] = cellText(cell.Next())
	})

	if _, ok := values[labelPE]; !ok {
		return nil, errNotFound
	}

	return &details{
		Company:       values[labelCompany],
		Sector:        values[labelSector],
		PE:            parseNumber(values[labelPE]),
		PB:            parseNumber(values[labelPB]),
		ROE:           parseNumber(values[labelROE]),
		DividendYield: parseNumber(values[labelDividendYield]),
		RevenueGrowth: parseNumber(values[labelRevenueGrowth]),
	}, nil
}

// cellText prefers the span.txt child; help markers live in sibling spans
func cellText(cell *goquery.Selection) string {
	txt := cell.Find("span.txt")
	if txt.Length() > 0 {
		return strings.TrimSpace(txt.First().Text())
	}
	return strings.TrimSpace(cell.Text())
}

// parseNumber reads pt-BR numbers: "1.234,56" and "23,4%" (returned as 0.234).
// Empty and "-" are absent.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	if percent {
		v /= 100
	}
	return &v
}

// fill copies values into absent quote fields and returns the names filled
func (d *details) fill(q *contracts.Quote) []string {
	var filled []string

	setRatio := func(dst **float64, v *float64, name string) {
		if *dst != nil || v == nil || *v == 0 {
			return
		}
		*dst = v
		filled = append(filled, name)
	}

	setRatio(&q.PERatio, d.PE, "pe")
	setRatio(&q.PBRatio, d.PB, "pb")
	setRatio(&q.ROE, d.ROE, "roe")
	setRatio(&q.DividendYield, d.DividendYield, "dividend_yield")
	setRatio(&q.RevenueGrowth, d.RevenueGrowth, "revenue_growth")

	if (q.Sector == "" || q.Sector == contracts.Unknown) && d.Sector != "" {
		q.Sector = d.Sector
		filled = append(filled, "sector")
	}
	if (q.Name == "" || q.Name == contracts.Unknown) && d.Company != "" {
		q.Name = d.Company
		filled = append(filled, "name")
	}

	return filled
}
