package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() TechnicalSnapshot {
	return TechnicalSnapshot{
		Date:        "2026-08-28",
		Close:       1085.0,
		Volume:      32541,
		PriceChange: -1.36,
		MA5:         1090.2,
		MA20:        1072.85,
		MA60:        1041.5,
		RSI:         58.42,
		MACD:        12.3456,
		MACDSignal:  10.9876,
		K:           72.15,
		D:           68.3,
		BBUpper:     1112.4,
		BBLower:     1033.3,
	}
}

func TestTechnicalSnapshot_Text(t *testing.T) {
	text := sampleSnapshot().Text("2330", "台積電")
	lines := strings.Split(text, "\n")

	require.Len(t, lines, 16)
	assert.Equal(t, "股票代碼：2330", lines[0])
	assert.Equal(t, "公司名稱：台積電", lines[1])
	assert.Equal(t, "日期：2026-08-28", lines[2])
	assert.Equal(t, "收盤價：1085.00元", lines[3])
	assert.Equal(t, "漲跌幅：-1.36%", lines[4])
	assert.Equal(t, "成交量：32,541張", lines[5])
	assert.Equal(t, "", lines[6])
	assert.Equal(t, "技術指標：", lines[7])
	assert.Equal(t, "- MA5：1090.20", lines[8])
	assert.Equal(t, "- MACD：12.3456", lines[11])
	assert.Equal(t, "- MACD訊號：10.9876", lines[12])
	assert.Equal(t, "- KD指標：K=72.15, D=68.30", lines[13])
	assert.Equal(t, "- 布林通道：上軌1112.40, 下軌1033.30", lines[14])
}

func TestTechnicalSnapshot_Text_PositiveChangeHasSign(t *testing.T) {
	snap := sampleSnapshot()
	snap.PriceChange = 2.5

	assert.Contains(t, snap.Text("2330", "台積電"), "漲跌幅：+2.50%")
}

func TestTechnicalSnapshot_Text_ZeroIndicatorsRenderAsZero(t *testing.T) {
	snap := TechnicalSnapshot{Date: "2026-08-28", Close: 100}

	text := snap.Text("2337", "旺宏")

	assert.Contains(t, text, "- MA60：0.00")
	assert.Contains(t, text, "- RSI(14)：0.00")
}

func TestTechnicalSnapshot_Observation(t *testing.T) {
	snap := sampleSnapshot()

	obs := snap.Observation("2330", "台積電")

	assert.Equal(t, "2330", obs.StockID)
	assert.Equal(t, "台積電", obs.StockName)
	assert.Equal(t, "2026-08-28", obs.Date)
	assert.Equal(t, DataTypeTechnical, obs.DataType)
	assert.Equal(t, snap.Text("2330", "台積電"), obs.Text)
	assert.Equal(t, snap, obs.Metadata)
	assert.Nil(t, obs.Embedding)
}
