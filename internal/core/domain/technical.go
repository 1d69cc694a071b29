package domain

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Ensure TechnicalSnapshot satisfies the metadata union.
var _ Metadata = TechnicalSnapshot{}

// TechnicalSnapshot holds one day's closing price and derived indicator
// values for a stock. Values that could not be computed (e.g. a moving
// average early in the window) are zero; the formatter reports them as
// zero rather than failing, matching the best-effort ingestion policy.
type TechnicalSnapshot struct {
	Date        string
	Close       float64
	Volume      int64
	PriceChange float64

	MA5  float64
	MA10 float64
	MA20 float64
	MA60 float64

	EMA12 float64
	EMA26 float64

	RSI float64

	MACD       float64
	MACDSignal float64
	MACDHist   float64

	BBUpper  float64
	BBMiddle float64
	BBLower  float64

	K float64
	D float64

	ATR float64
	OBV float64
}

func (TechnicalSnapshot) isMetadata() {}

// Text renders the snapshot as the canonical natural-language document
// used for embedding. The field order is fixed; output is deterministic
// for a given snapshot.
func (s TechnicalSnapshot) Text(stockID, stockName string) string {
	lines := []string{
		fmt.Sprintf("股票代碼：%s", stockID),
		fmt.Sprintf("公司名稱：%s", stockName),
		fmt.Sprintf("日期：%s", s.Date),
		fmt.Sprintf("收盤價：%.2f元", s.Close),
		fmt.Sprintf("漲跌幅：%+.2f%%", s.PriceChange),
		fmt.Sprintf("成交量：%s張", humanize.Comma(s.Volume)),
		"",
		"技術指標：",
		fmt.Sprintf("- MA5：%.2f", s.MA5),
		fmt.Sprintf("- MA20：%.2f", s.MA20),
		fmt.Sprintf("- MA60：%.2f", s.MA60),
		fmt.Sprintf("- RSI(14)：%.2f", s.RSI),
		fmt.Sprintf("- MACD：%.4f", s.MACD),
		fmt.Sprintf("- MACD訊號：%.4f", s.MACDSignal),
		fmt.Sprintf("- KD指標：K=%.2f, D=%.2f", s.K, s.D),
		fmt.Sprintf("- 布林通道：上軌%.2f, 下軌%.2f", s.BBUpper, s.BBLower),
	}

	return strings.Join(lines, "\n")
}

// Observation packages the snapshot as a storable technical observation.
// The embedding is attached later, once the text has been encoded.
func (s TechnicalSnapshot) Observation(stockID, stockName string) Observation {
	return Observation{
		StockID:   stockID,
		StockName: stockName,
		Date:      s.Date,
		DataType:  DataTypeTechnical,
		Text:      s.Text(stockID, stockName),
		Metadata:  s,
	}
}
