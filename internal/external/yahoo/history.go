package yahoo

import (
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/wonny/marcus/internal/contracts"
)

func chartParams(ticker string, start, end time.Time) *chart.Params {
	return &chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}
}

// readBars drains the iterator. Bars without a close (holidays, halts) are dropped.
func readBars(iter barIter) ([]contracts.PricePoint, error) {
	points := make([]contracts.PricePoint, 0, 260)
	for iter.Next() {
		bar := iter.Bar()
		if bar == nil {
			continue
		}
		price := bar.Close.InexactFloat64()
		if price <= 0 {
			continue
		}
		points = append(points, contracts.PricePoint{
			Date:  time.Unix(int64(bar.Timestamp), 0).UTC(),
			Close: price,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
