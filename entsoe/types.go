package entsoe

import "encoding/xml"

// Day-ahead price publication document (documentType A44).
type publicationMarketDocument struct {
	XMLName    xml.Name     `xml:"Publication_MarketDocument"`
	MRID       string       `xml:"mRID"`
	Type       string       `xml:"type"`
	CreatedAt  string       `xml:"createdDateTime"`
	TimeSeries []timeSeries `xml:"TimeSeries"`
}

type timeSeries struct {
	MRID         string   `xml:"mRID"`
	BusinessType string   `xml:"businessType"`
	CurrencyUnit string   `xml:"currency_Unit.name"`
	PriceMeasure string   `xml:"price_Measure_Unit.name"`
	Periods      []period `xml:"Period"`
}

type period struct {
	TimeInterval timeInterval `xml:"timeInterval"`
	Resolution   string       `xml:"resolution"`
	Points       []point      `xml:"Point"`
}

type timeInterval struct {
	Start string `xml:"start"`
	End   string `xml:"end"`
}

type point struct {
	Position int     `xml:"position"`
	Price    float64 `xml:"price.amount"`
}

type acknowledgementMarketDocument struct {
	XMLName xml.Name `xml:"Acknowledgement_MarketDocument"`
	Reason  struct {
		Code string `xml:"code"`
		Text string `xml:"text"`
	} `xml:"Reason"`
}
