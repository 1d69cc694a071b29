package domain

import (
	"fmt"
	"strings"
)

// Ensure FundamentalReport satisfies the metadata union.
var _ Metadata = FundamentalReport{}

// FundamentalReport holds one quarterly financial statement. Amounts are
// in TWD. Missing fields stay zero; downstream formatting reports them as
// zero values rather than failing.
type FundamentalReport struct {
	// Date is the statement date in ISO form (YYYY-MM-DD).
	Date string

	Revenue         float64
	OperatingIncome float64
	NetIncome       float64
	EPS             float64
}

func (FundamentalReport) isMetadata() {}

// Ratios holds derived financial ratios. A field is only meaningful when
// its presence flag is set; absent ratios mean the denominator was zero
// or missing.
type Ratios struct {
	OperatingMargin    float64
	HasOperatingMargin bool

	NetMargin    float64
	HasNetMargin bool

	PERatio    float64
	HasPERatio bool
}

// CalculateRatios derives margin and valuation ratios from a report.
// It never divides by a zero or missing denominator: a non-positive
// revenue yields no margin, a non-positive EPS or absent price yields
// no P/E.
func CalculateRatios(r FundamentalReport, price float64) Ratios {
	var ratios Ratios

	if r.Revenue > 0 {
		if r.OperatingIncome != 0 {
			ratios.OperatingMargin = r.OperatingIncome / r.Revenue * 100
			ratios.HasOperatingMargin = true
		}
		if r.NetIncome != 0 {
			ratios.NetMargin = r.NetIncome / r.Revenue * 100
			ratios.HasNetMargin = true
		}
	}

	if price > 0 && r.EPS > 0 {
		ratios.PERatio = price / r.EPS
		ratios.HasPERatio = true
	}

	return ratios
}

// Text renders the report as the canonical natural-language document used
// for embedding. Derived ratio lines appear only when their operands are
// valid; price may be zero to omit the P/E line.
func (r FundamentalReport) Text(stockID, stockName string, price float64) string {
	date := r.Date
	if date == "" {
		date = "N/A"
	}

	lines := []string{
		fmt.Sprintf("股票代碼：%s", stockID),
		fmt.Sprintf("公司名稱：%s", stockName),
		fmt.Sprintf("財報日期：%s", date),
		"",
		"基本面資訊：",
		fmt.Sprintf("營收：%.2f百萬元", r.Revenue/1e6),
		fmt.Sprintf("營業利益：%.2f百萬元", r.OperatingIncome/1e6),
		fmt.Sprintf("淨利：%.2f百萬元", r.NetIncome/1e6),
		fmt.Sprintf("每股盈餘(EPS)：%.2f元", r.EPS),
	}

	ratios := CalculateRatios(r, price)
	if ratios.HasOperatingMargin {
		lines = append(lines, fmt.Sprintf("營業利益率：%.2f%%", ratios.OperatingMargin))
	}
	if ratios.HasNetMargin {
		lines = append(lines, fmt.Sprintf("淨利率：%.2f%%", ratios.NetMargin))
	}
	if ratios.HasPERatio {
		lines = append(lines, fmt.Sprintf("本益比(PE)：%.2f", ratios.PERatio))
	}

	return strings.Join(lines, "\n")
}

// Observation packages the report as a storable fundamental observation.
// The reference price feeds the P/E line only; it is not stored.
func (r FundamentalReport) Observation(stockID, stockName string, price float64) Observation {
	return Observation{
		StockID:   stockID,
		StockName: stockName,
		Date:      r.Date,
		DataType:  DataTypeFundamental,
		Text:      r.Text(stockID, stockName, price),
		Metadata:  r,
	}
}
