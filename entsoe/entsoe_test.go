package entsoe

import (
	"encoding/xml"
	"testing"

	"github.com/angas/entsoe-go/hours"
)

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<Publication_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:0">
	<mRID>1</mRID>
	<type>A44</type>
	<createdDateTime>2025-01-01T12:00:00Z</createdDateTime>
	<TimeSeries>
		<mRID>1</mRID>
		<businessType>A62</businessType>
		<currency_Unit.name>EUR</currency_Unit.name>
		<price_Measure_Unit.name>MWH</price_Measure_Unit.name>
		<Period>
			<timeInterval>
				<start>2024-12-31T23:00Z</start>
				<end>2025-01-01T23:00Z</end>
			</timeInterval>
			<resolution>PT60M</resolution>
			<Point><position>1</position><price.amount>80.10</price.amount></Point>
			<Point><position>2</position><price.amount>95.50</price.amount></Point>
			<Point><position>3</position><price.amount>-10.00</price.amount></Point>
		</Period>
	</TimeSeries>
</Publication_MarketDocument>`

func TestPricesFromDocument(t *testing.T) {
	var doc publicationMarketDocument
	if err := xml.Unmarshal([]byte(sampleDocument), &doc); err != nil {
		t.Fatalf("failed to unmarshal sample document: %v", err)
	}

	prices, err := pricesFromDocument(&doc)
	if err != nil {
		t.Fatalf("pricesFromDocument() error: %v", err)
	}

	if len(prices) != 3 {
		t.Fatalf("expected 3 prices, got %d", len(prices))
	}

	first := prices[0]
	if first.Hour != (hours.DateHour{Date: "2024-12-31", Hour: 23}) {
		t.Errorf("expected first hour 2024-12-31 23, got %v", first.Hour)
	}
	if first.Price != 0.0801 {
		t.Errorf("expected first price 0.0801 (per kWh), got %f", first.Price)
	}

	second := prices[1]
	if second.Hour != (hours.DateHour{Date: "2025-01-01", Hour: 0}) {
		t.Errorf("expected second hour 2025-01-01 00, got %v", second.Hour)
	}

	// Negative prices happen and must pass through unchanged.
	third := prices[2]
	if third.Price != -0.01 {
		t.Errorf("expected third price -0.01, got %f", third.Price)
	}
}

func TestPricesFromEmptyDocument(t *testing.T) {
	prices, err := pricesFromDocument(&publicationMarketDocument{})
	if err != nil {
		t.Fatalf("pricesFromDocument() error: %v", err)
	}
	if len(prices) != 0 {
		t.Errorf("expected no prices, got %d", len(prices))
	}
}
