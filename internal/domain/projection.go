package domain

import (
	"github.com/shopspring/decimal"
)

// YearlyProjection is one simulated year. All monetary fields are rounded to
// cents when the record is emitted and the record is never mutated afterwards.
type YearlyProjection struct {
	Year int `json:"year"`
	Age  int `json:"age"`

	StartRRIF        decimal.Decimal `json:"startRrif"`
	Withdrawal       decimal.Decimal `json:"withdrawal"`
	InvestmentGrowth decimal.Decimal `json:"investmentGrowth"`
	MinWithdrawal    decimal.Decimal `json:"minWithdrawal"`

	Pension            decimal.Decimal `json:"pension"`
	CPP                decimal.Decimal `json:"cpp"`
	OAS                decimal.Decimal `json:"oas"` // net of clawback
	OASClawback        decimal.Decimal `json:"oasClawback"`
	OtherTaxableIncome decimal.Decimal `json:"otherTaxableIncome"`
	TotalTaxableIncome decimal.Decimal `json:"totalTaxableIncome"`

	FederalTax      decimal.Decimal `json:"federalTax"`
	ProvincialTax   decimal.Decimal `json:"provincialTax"`
	TotalTax        decimal.Decimal `json:"totalTax"`
	NetCashAfterTax decimal.Decimal `json:"netCashAfterTax"`

	EndRRIF     decimal.Decimal `json:"endRrif"`
	TFSABalance decimal.Decimal `json:"tfsaBalance"`
}

// SummaryMetrics aggregates a full strategy run.
type SummaryMetrics struct {
	TotalTaxPaid            decimal.Decimal `json:"totalTaxPaid"`
	TerminalRRIFBalance     decimal.Decimal `json:"terminalRrifBalance"`
	TerminalTaxEstimate     decimal.Decimal `json:"terminalTaxEstimate"`
	YearsOASClawback        int             `json:"yearsOasClawback"`
	AvgAnnualTaxRate        decimal.Decimal `json:"avgAnnualTaxRate"` // percent, one decimal place
	RRIFBalanceAtEndHorizon decimal.Decimal `json:"rrifBalanceAtEndHorizon"`
}

// StrategyResult holds one strategy's full projection and its summary.
type StrategyResult struct {
	StrategyName   string             `json:"strategyName"`
	SummaryMetrics SummaryMetrics     `json:"summaryMetrics"`
	YearlyData     []YearlyProjection `json:"yearlyData"`
}
