package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter emits the full year-by-year projection for every strategy,
// one row per strategy-year.
type CSVFormatter struct{}

func (cf *CSVFormatter) Name() string { return "csv" }

// Format generates CSV output for a comparison.
func (cf *CSVFormatter) Format(set *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Strategy", "Year", "Age",
		"Start RRIF", "Withdrawal", "Growth", "Min Withdrawal",
		"Pension", "CPP", "OAS Net", "OAS Clawback", "Other Income",
		"Taxable Income", "Federal Tax", "Provincial Tax", "Total Tax",
		"Net Cash", "End RRIF", "TFSA Balance",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, name := range set.Order {
		for _, p := range set.Results[name].YearlyData {
			row := []string{
				name,
				strconv.Itoa(p.Year),
				strconv.Itoa(p.Age),
				p.StartRRIF.StringFixed(2),
				p.Withdrawal.StringFixed(2),
				p.InvestmentGrowth.StringFixed(2),
				p.MinWithdrawal.StringFixed(2),
				p.Pension.StringFixed(2),
				p.CPP.StringFixed(2),
				p.OAS.StringFixed(2),
				p.OASClawback.StringFixed(2),
				p.OtherTaxableIncome.StringFixed(2),
				p.TotalTaxableIncome.StringFixed(2),
				p.FederalTax.StringFixed(2),
				p.ProvincialTax.StringFixed(2),
				p.TotalTax.StringFixed(2),
				p.NetCashAfterTax.StringFixed(2),
				p.EndRRIF.StringFixed(2),
				p.TFSABalance.StringFixed(2),
			}
			if err := writer.Write(row); err != nil {
				return "", err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
