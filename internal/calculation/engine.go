package calculation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rrifgo/rrifgo/internal/domain"
	"github.com/rrifgo/rrifgo/internal/taxrules"
)

// WithdrawalPolicy is the one capability the engine needs from a withdrawal
// strategy. The concrete implementations live in internal/strategy.
type WithdrawalPolicy interface {
	Name() string
	Propose(state domain.CurrentYearState, scenario *domain.Scenario) (decimal.Decimal, error)
}

// Engine drives the year-by-year projection loop. Each iteration strictly
// depends on the prior year's ending balances, so a single run is sequential;
// independent runs share no mutable state and may execute concurrently.
type Engine struct {
	Tax    *TaxCalculator
	Logger Logger
}

// NewEngine creates an engine over the given rule store.
func NewEngine(store *taxrules.Store) *Engine {
	tax := NewTaxCalculator(store)
	return &Engine{Tax: tax, Logger: NopLogger{}}
}

// SetLogger installs a logger on the engine and its tax calculator; nil
// restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	e.Tax.SetLogger(l)
}

// startYear resolves the scenario's first simulated calendar year, defaulting
// to the next calendar year.
func startYear(scenario *domain.Scenario) int {
	if scenario.StartYear != nil {
		return *scenario.StartYear
	}
	return time.Now().Year() + 1
}

// Simulate runs one strategy over the scenario's full planning horizon and
// returns the per-year projections plus summary metrics. The scenario is
// treated as read-only; running the same scenario twice yields identical
// results.
func (e *Engine) Simulate(scenario *domain.Scenario, policy WithdrawalPolicy) (*domain.StrategyResult, error) {
	if scenario.PlanningHorizonYears <= 0 {
		return nil, fmt.Errorf("planning horizon must be positive, got %d", scenario.PlanningHorizonYears)
	}
	e.Logger.Infof("starting simulation for strategy %q", policy.Name())

	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)
	growthRate := scenario.NominalReturnPct.Div(hundred)
	inflation := scenario.InflationRatePct.Div(hundred)

	year := startYear(scenario)
	age := scenario.Age
	rrifBalance := scenario.RRSPBalance
	tfsaBalance := scenario.TFSABalance

	yearly := make([]domain.YearlyProjection, 0, scenario.PlanningHorizonYears)

	for i := 0; i < scenario.PlanningHorizonYears; i++ {
		loopStartBalance := rrifBalance

		rules, err := e.Tax.Rules.ForYear(year)
		if err != nil {
			return nil, err
		}
		if len(rules.MinWithdrawalFactors) == 0 {
			return nil, fmt.Errorf("RRIF factor table missing for year %d", year)
		}

		// Growth compounds before the withdrawal is taken.
		rrifGrowth := rrifBalance.Mul(growthRate)
		rrifBalance = rrifBalance.Add(rrifGrowth)
		tfsaBalance = tfsaBalance.Add(tfsaBalance.Mul(growthRate))

		state := domain.CurrentYearState{Year: year, Age: age, RRIFBalance: rrifBalance}
		target, err := policy.Propose(state, scenario)
		if err != nil {
			return nil, fmt.Errorf("strategy %q failed for year %d: %w", policy.Name(), year, err)
		}
		minWithdrawal, err := e.Tax.MinimumWithdrawal(rrifBalance, age, rules.MinWithdrawalFactors)
		if err != nil {
			return nil, err
		}

		withdrawal := decimal.Max(minWithdrawal, target)
		withdrawal = decimal.Min(withdrawal, rrifBalance)
		withdrawal = decimal.Max(withdrawal, decimal.Zero)

		rrifBalance = rrifBalance.Sub(withdrawal)

		taxes, err := e.Tax.TotalTaxesForYear(year, age, scenario.Province, scenario, withdrawal, decimal.Zero)
		if err != nil {
			return nil, err
		}

		// Inflate the spending goal from the base year; any shortfall after
		// tax comes out of the TFSA buffer, never below zero.
		adjustedSpending := scenario.DesiredSpending.Mul(one.Add(inflation).Pow(decimal.NewFromInt(int64(i))))
		shortfall := adjustedSpending.Sub(taxes.NetCashAfterTax)
		if shortfall.GreaterThan(decimal.Zero) {
			tfsaBalance = tfsaBalance.Sub(decimal.Min(shortfall, tfsaBalance))
		}

		yearly = append(yearly, domain.YearlyProjection{
			Year:               year,
			Age:                age,
			StartRRIF:          loopStartBalance.Round(2),
			Withdrawal:         withdrawal.Round(2),
			InvestmentGrowth:   rrifGrowth.Round(2),
			MinWithdrawal:      minWithdrawal.Round(2),
			Pension:            taxes.Pension.Round(2),
			CPP:                taxes.CPP.Round(2),
			OAS:                taxes.OASNet,
			OASClawback:        taxes.OASClawback,
			OtherTaxableIncome: taxes.OtherTaxable.Round(2),
			TotalTaxableIncome: taxes.TaxableIncome,
			FederalTax:         taxes.FederalTax,
			ProvincialTax:      taxes.ProvincialTax,
			TotalTax:           taxes.TotalTax,
			NetCashAfterTax:    taxes.NetCashAfterTax,
			EndRRIF:            rrifBalance.Round(2),
			TFSABalance:        tfsaBalance.Round(2),
		})

		year++
		age++
	}

	summary, err := e.summarize(scenario, yearly)
	if err != nil {
		return nil, err
	}

	e.Logger.Infof("simulation complete for strategy %q", policy.Name())
	return &domain.StrategyResult{
		StrategyName:   policy.Name(),
		SummaryMetrics: summary,
		YearlyData:     yearly,
	}, nil
}

// summarize derives the run-level metrics from the finished projection.
func (e *Engine) summarize(scenario *domain.Scenario, yearly []domain.YearlyProjection) (domain.SummaryMetrics, error) {
	totalTax := decimal.Zero
	clawbackYears := 0
	for _, p := range yearly {
		totalTax = totalTax.Add(p.TotalTax)
		if p.OASClawback.GreaterThan(decimal.Zero) {
			clawbackYears++
		}
	}

	final := yearly[len(yearly)-1]
	terminalBalance := final.EndRRIF

	terminalEstimate, err := e.terminalTaxEstimate(scenario, final, terminalBalance)
	if err != nil {
		return domain.SummaryMetrics{}, err
	}

	// Gross income per year for the average effective rate, reconstructed
	// with gross OAS rather than the net figure the projection records.
	totalIncome := decimal.Zero
	for _, p := range yearly {
		grossOAS := p.OAS.Add(p.OASClawback)
		totalIncome = totalIncome.Add(p.Withdrawal).
			Add(p.Pension).
			Add(p.CPP).
			Add(grossOAS).
			Add(p.OtherTaxableIncome).
			Add(scenario.EmploymentIncomeAt(p.Age))
	}
	avgRate := decimal.Zero
	if totalIncome.GreaterThan(decimal.Zero) {
		avgRate = totalTax.Div(totalIncome).Mul(decimal.NewFromInt(100)).Round(1)
	}

	return domain.SummaryMetrics{
		TotalTaxPaid:            totalTax.Round(2),
		TerminalRRIFBalance:     terminalBalance.Round(2),
		TerminalTaxEstimate:     terminalEstimate,
		YearsOASClawback:        clawbackYears,
		AvgAnnualTaxRate:        avgRate,
		RRIFBalanceAtEndHorizon: terminalBalance.Round(2),
	}, nil
}

// terminalTaxEstimate approximates the tax due if the terminal balance were
// distributed at the final year's highest applicable marginal rate. Surtax
// tiers raise the provincial marginal rate multiplicatively, not as a flat
// add, because surtax applies to tax rather than to income.
func (e *Engine) terminalTaxEstimate(scenario *domain.Scenario, final domain.YearlyProjection, terminalBalance decimal.Decimal) (decimal.Decimal, error) {
	taxes, err := e.Tax.TotalTaxesForYear(final.Year, final.Age, scenario.Province, scenario, final.Withdrawal, decimal.Zero)
	if err != nil {
		return decimal.Zero, err
	}
	rules, err := e.Tax.Rules.ForYear(final.Year)
	if err != nil {
		return decimal.Zero, err
	}
	prov, err := rules.ProvincialFor(scenario.Province)
	if err != nil {
		return decimal.Zero, err
	}

	fedRate := MarginalRate(taxes.TaxableIncome, &rules.Federal)
	provRate := MarginalRate(taxes.TaxableIncome, prov)

	surtaxIncrease := decimal.Zero
	if prov.Surtax != nil {
		beforeSurtax := taxes.Provincial.TaxBeforeSurtax
		switch {
		case beforeSurtax.GreaterThan(prov.Surtax.Threshold2):
			surtaxIncrease = provRate.Mul(prov.Surtax.Rate1.Add(prov.Surtax.Rate2))
		case beforeSurtax.GreaterThan(prov.Surtax.Threshold1):
			surtaxIncrease = provRate.Mul(prov.Surtax.Rate1)
		}
	}

	highestRate := fedRate.Add(provRate).Add(surtaxIncrease)
	return decimal.Max(terminalBalance.Mul(highestRate), decimal.Zero).Round(2), nil
}
