package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rrifgo/rrifgo/internal/taxrules"
)

// TaxCalculator computes per-person, per-year Canadian federal and provincial
// taxes from a rule store. All methods are pure aside from fallback logging.
type TaxCalculator struct {
	Rules  *taxrules.Store
	Logger Logger
}

// NewTaxCalculator creates a calculator over the given rule store.
func NewTaxCalculator(store *taxrules.Store) *TaxCalculator {
	return &TaxCalculator{Rules: store, Logger: NopLogger{}}
}

// SetLogger installs a logger; nil restores the no-op logger.
func (tc *TaxCalculator) SetLogger(l Logger) {
	if l == nil {
		tc.Logger = NopLogger{}
		return
	}
	tc.Logger = l
}

// MarginalTax applies a marginal bracket schedule to income. Brackets are
// processed in ascending order and the walk stops once income falls inside a
// bracket. Zero for non-positive income; result rounded to cents.
func MarginalTax(income decimal.Decimal, rules *taxrules.JurisdictionRules) decimal.Decimal {
	if income.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	tax := decimal.Zero
	for _, b := range rules.SortedBrackets() {
		if income.GreaterThan(b.Min) {
			taxableInBracket := decimal.Min(income, b.Max).Sub(b.Min)
			tax = tax.Add(taxableInBracket.Mul(b.Rate))
		}
		if income.LessThanOrEqual(b.Max) {
			break
		}
	}
	return tax.Round(2)
}

// MarginalRate returns the rate of the bracket containing income.
func MarginalRate(income decimal.Decimal, rules *taxrules.JurisdictionRules) decimal.Decimal {
	rate := decimal.Zero
	for _, b := range rules.SortedBrackets() {
		if income.GreaterThan(b.Min) {
			rate = b.Rate
		}
		if income.LessThanOrEqual(b.Max) {
			break
		}
	}
	return rate
}

// MinimumWithdrawal returns the legally required RRIF withdrawal for the year:
// balance times the age factor, never more than the balance. Zero for an empty
// account. A missing exact-age factor logs the nearest-lower substitution.
func (tc *TaxCalculator) MinimumWithdrawal(balance decimal.Decimal, age int, table map[int]decimal.Decimal) (decimal.Decimal, error) {
	if balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}
	factor, usedAge, err := taxrules.MinWithdrawalFactor(age, table)
	if err != nil {
		return decimal.Zero, err
	}
	if age >= 71 && age < 95 && usedAge != age {
		tc.Logger.Warnf("RRIF factor for age %d missing, using age %d factor", age, usedAge)
	}
	return decimal.Min(balance.Mul(factor), balance).Round(2), nil
}

// OASClawback computes the OAS recovery tax: 15 cents per dollar of net income
// above the threshold, never more than the gross benefit. Missing parameters
// degrade to zero clawback rather than failing.
func (tc *TaxCalculator) OASClawback(netIncome, grossOAS decimal.Decimal, fed *taxrules.JurisdictionRules) decimal.Decimal {
	if grossOAS.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if fed == nil || fed.OAS == nil {
		tc.Logger.Warnf("federal OAS clawback parameters missing; assuming no clawback")
		return decimal.Zero
	}
	excess := netIncome.Sub(fed.OAS.ClawbackThreshold)
	if excess.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	clawback := decimal.Min(excess.Mul(fed.OAS.ClawbackRate), grossOAS)
	return decimal.Max(clawback, decimal.Zero).Round(2)
}

// JurisdictionTaxDetail is the audit trail of one jurisdiction's calculation.
type JurisdictionTaxDetail struct {
	GrossTax        decimal.Decimal `json:"grossTax"`
	CreditValue     decimal.Decimal `json:"creditValue"`
	TaxBeforeSurtax decimal.Decimal `json:"taxBeforeSurtax"`
	Surtax          decimal.Decimal `json:"surtax"`
	NetTax          decimal.Decimal `json:"netTax"`

	// Claimed credit bases, for auditability.
	BPABase     decimal.Decimal `json:"bpaClaimedBase"`
	AgeBase     decimal.Decimal `json:"ageClaimedBase"`
	PensionBase decimal.Decimal `json:"pensionClaimedBase"`
	CPPQPPBase  decimal.Decimal `json:"cppQppClaimedBase"`
}

// JurisdictionTax computes one jurisdiction's net tax: marginal gross tax,
// less non-refundable credits (floored at zero), plus surtax tiers where the
// jurisdiction defines a surtax schedule.
func (tc *TaxCalculator) JurisdictionTax(taxableIncome, netIncomeForTests decimal.Decimal, age int, cppContributions, pensionIncome decimal.Decimal, rules *taxrules.JurisdictionRules) JurisdictionTaxDetail {
	if taxableIncome.LessThan(decimal.Zero) {
		taxableIncome = decimal.Zero
	}
	grossTax := MarginalTax(taxableIncome, rules)

	credits := rules.Credits
	bpaBase := credits.BPA.Amount
	creditRate := credits.BPA.Rate

	ageBase := decimal.Zero
	if age >= 65 {
		ageBase = credits.Age.BaseAmount
		if netIncomeForTests.GreaterThan(credits.Age.IncomeThreshold) {
			reduction := netIncomeForTests.Sub(credits.Age.IncomeThreshold).Mul(credits.Age.ReductionRate)
			ageBase = decimal.Max(ageBase.Sub(reduction), decimal.Zero)
		}
	}

	pensionBase := decimal.Zero
	if pensionIncome.GreaterThan(decimal.Zero) {
		pensionBase = decimal.Min(pensionIncome, credits.Pension.MaxClaim)
	}

	cppBase := decimal.Zero
	if cppContributions.GreaterThan(decimal.Zero) {
		cppBase = decimal.Min(cppContributions, credits.CPPQPP.MaxClaimBase)
	}

	creditValue := bpaBase.Add(ageBase).Add(pensionBase).Add(cppBase).Mul(creditRate).Round(2)
	taxBeforeSurtax := decimal.Max(grossTax.Sub(creditValue), decimal.Zero)

	surtax := decimal.Zero
	if rules.Surtax != nil && taxBeforeSurtax.GreaterThan(decimal.Zero) {
		st := rules.Surtax
		if taxBeforeSurtax.GreaterThan(st.Threshold1) {
			surtax = surtax.Add(taxBeforeSurtax.Sub(st.Threshold1).Mul(st.Rate1))
		}
		if taxBeforeSurtax.GreaterThan(st.Threshold2) {
			surtax = surtax.Add(taxBeforeSurtax.Sub(st.Threshold2).Mul(st.Rate2))
		}
	}

	return JurisdictionTaxDetail{
		GrossTax:        grossTax,
		CreditValue:     creditValue,
		TaxBeforeSurtax: taxBeforeSurtax.Round(2),
		Surtax:          surtax.Round(2),
		NetTax:          taxBeforeSurtax.Add(surtax).Round(2),
		BPABase:         bpaBase.Round(2),
		AgeBase:         ageBase.Round(2),
		PensionBase:     pensionBase.Round(2),
		CPPQPPBase:      cppBase.Round(2),
	}
}
