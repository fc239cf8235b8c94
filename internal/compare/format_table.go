package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rrifgo/rrifgo/internal/domain"
)

// TableFormatter formats a comparison as a console table.
type TableFormatter struct {
	// Verbose adds the full year-by-year projection after the summary table.
	Verbose bool
}

func (tf *TableFormatter) Name() string { return "table" }

// Format renders the strategy comparison.
func (tf *TableFormatter) Format(set *ComparisonSet) (string, error) {
	var sb strings.Builder

	sb.WriteString("RRIF WITHDRAWAL STRATEGY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Age %d, RRSP/RRIF $%s, horizon %d years, %s%% return, %s%% inflation, province %s\n",
		set.Scenario.Age,
		money(set.Scenario.RRSPBalance),
		set.Scenario.PlanningHorizonYears,
		set.Scenario.NominalReturnPct.StringFixed(1),
		set.Scenario.InflationRatePct.StringFixed(1),
		set.Scenario.Province))
	if set.Scenario.HasSpouse && set.Scenario.SpouseDetails != nil {
		spouse := set.Scenario.SpouseDetails
		sb.WriteString(fmt.Sprintf("Spouse: age %d, RRSP $%s, other income $%s/yr (not simulated)\n",
			spouse.Age,
			money(spouse.RRSPBalance),
			money(spouse.TotalOtherIncome())))
	}
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 16
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Strategy",
		numWidth, "Total Tax",
		numWidth, "End RRIF",
		numWidth, "Terminal Tax",
		numWidth, "Avg Rate %",
		numWidth, "Clawback Yrs"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	for _, name := range set.Order {
		r := set.Results[name]
		m := r.SummaryMetrics
		sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*d\n",
			nameWidth, name,
			numWidth, "$"+money(m.TotalTaxPaid),
			numWidth, "$"+money(m.TerminalRRIFBalance),
			numWidth, "$"+money(m.TerminalTaxEstimate),
			numWidth, m.AvgAnnualTaxRate.StringFixed(1),
			numWidth, m.YearsOASClawback))
	}
	sb.WriteString(strings.Repeat("=", 96) + "\n")

	if tf.Verbose {
		for _, name := range set.Order {
			sb.WriteString("\n" + name + "\n")
			sb.WriteString(strings.Repeat("-", 96) + "\n")
			tf.writeProjection(&sb, set.Results[name].YearlyData)
		}
	}

	return sb.String(), nil
}

func (tf *TableFormatter) writeProjection(sb *strings.Builder, yearly []domain.YearlyProjection) {
	sb.WriteString(fmt.Sprintf("%6s %4s %14s %14s %12s %14s %12s %14s %14s\n",
		"Year", "Age", "Start RRIF", "Withdrawal", "Min W/D", "Taxable Inc", "Total Tax", "End RRIF", "TFSA"))
	for _, p := range yearly {
		sb.WriteString(fmt.Sprintf("%6d %4d %14s %14s %12s %14s %12s %14s %14s\n",
			p.Year, p.Age,
			money(p.StartRRIF),
			money(p.Withdrawal),
			money(p.MinWithdrawal),
			money(p.TotalTaxableIncome),
			money(p.TotalTax),
			money(p.EndRRIF),
			money(p.TFSABalance)))
	}
}

// money renders a decimal with thousands separators and two decimal places.
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]
	var grouped []string
	for len(whole) > 3 {
		grouped = append([]string{whole[len(whole)-3:]}, grouped...)
		whole = whole[:len(whole)-3]
	}
	grouped = append([]string{whole}, grouped...)
	out := strings.Join(grouped, ",") + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}
