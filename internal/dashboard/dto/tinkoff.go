package dto

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Candle intervals accepted by MarketDataService/GetCandles.
const (
	CandleIntervalHour = "CANDLE_INTERVAL_HOUR"
	CandleIntervalDay  = "CANDLE_INTERVAL_DAY"
)

// TinkoffQuotation is the fixed-point number format of the Tinkoff API:
// units is an int64 encoded as a string, nano holds billionths.
type TinkoffQuotation struct {
	Currency string `json:"currency,omitempty"`
	Units    string `json:"units"`
	Nano     int32  `json:"nano"`
}

// Decimal converts the quotation to units + nano/1e9.
func (q TinkoffQuotation) Decimal() decimal.Decimal {
	units, err := strconv.ParseInt(q.Units, 10, 64)
	if err != nil {
		units = 0
	}
	return decimal.NewFromInt(units).Add(decimal.New(int64(q.Nano), -9))
}

type TinkoffSharesResponse struct {
	Instruments []TinkoffInstrument `json:"instruments"`
}

type TinkoffInstrument struct {
	FIGI     string `json:"figi"`
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Lot      int    `json:"lot"`
	Sector   string `json:"sector"`
}

type TinkoffLastPricesRequest struct {
	FIGI []string `json:"figi"`
}

type TinkoffLastPricesResponse struct {
	LastPrices []TinkoffLastPrice `json:"lastPrices"`
}

type TinkoffLastPrice struct {
	FIGI  string           `json:"figi"`
	Price TinkoffQuotation `json:"price"`
	Time  time.Time        `json:"time"`
}

type TinkoffCandlesRequest struct {
	FIGI     string `json:"figi"`
	From     string `json:"from"`
	To       string `json:"to"`
	Interval string `json:"interval"`
}

type TinkoffCandlesResponse struct {
	Candles []TinkoffCandle `json:"candles"`
}

type TinkoffCandle struct {
	Open   TinkoffQuotation `json:"open"`
	High   TinkoffQuotation `json:"high"`
	Low    TinkoffQuotation `json:"low"`
	Close  TinkoffQuotation `json:"close"`
	Volume string           `json:"volume"`
	Time   time.Time        `json:"time"`
}

// Instrument is a share listed by the provider.
type Instrument struct {
	FIGI     string
	Ticker   string
	Name     string
	Currency string
	Lot      int
	Sector   string
}

// LastPrice is the latest traded price of an instrument.
type LastPrice struct {
	FIGI  string
	Price decimal.Decimal
	Time  time.Time
}

// Candle is one OHLC bar.
type Candle struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}
