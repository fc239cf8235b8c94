package taxrules

import "github.com/shopspring/decimal"

// Built-in rule tables. 2024 indexed amounts carried as the 2025 working set;
// update annually or override with a rules file.

func canada2025() *YearRules {
	return &YearRules{
		Year:                 2025,
		Federal:              federal2025(),
		Provincial:           map[string]JurisdictionRules{"ON": ontario2025()},
		MinWithdrawalFactors: rrifFactors(),
	}
}

func federal2025() JurisdictionRules {
	return JurisdictionRules{
		Year:         2025,
		Jurisdiction: "Federal",
		Brackets: []Bracket{
			{Min: decimal.Zero, Max: decimal.NewFromFloat(55867), Rate: decimal.NewFromFloat(0.15)},
			{Min: decimal.NewFromFloat(55867), Max: decimal.NewFromFloat(111733), Rate: decimal.NewFromFloat(0.205)},
			{Min: decimal.NewFromFloat(111733), Max: decimal.NewFromFloat(173205), Rate: decimal.NewFromFloat(0.26)},
			{Min: decimal.NewFromFloat(173205), Max: decimal.NewFromFloat(246752), Rate: decimal.NewFromFloat(0.29)},
			{Min: decimal.NewFromFloat(246752), Max: NoLimit, Rate: decimal.NewFromFloat(0.33)},
		},
		Credits: Credits{
			BPA: BPACredit{Amount: decimal.NewFromFloat(15705), Rate: decimal.NewFromFloat(0.15)},
			Age: AgeCredit{
				BaseAmount:      decimal.NewFromFloat(8790),
				IncomeThreshold: decimal.NewFromFloat(44325),
				ReductionRate:   decimal.NewFromFloat(0.15),
				CreditRate:      decimal.NewFromFloat(0.15),
			},
			Pension: PensionCredit{MaxClaim: decimal.NewFromFloat(2000), CreditRate: decimal.NewFromFloat(0.15)},
			CPPQPP:  CPPCredit{MaxClaimBase: decimal.NewFromFloat(3867.50), CreditRate: decimal.NewFromFloat(0.15)},
		},
		OAS: &OASParams{
			ClawbackThreshold: decimal.NewFromFloat(90997),
			ClawbackRate:      decimal.NewFromFloat(0.15),
		},
	}
}

func ontario2025() JurisdictionRules {
	return JurisdictionRules{
		Year:         2025,
		Jurisdiction: "ON",
		Brackets: []Bracket{
			{Min: decimal.Zero, Max: decimal.NewFromFloat(51446), Rate: decimal.NewFromFloat(0.0505)},
			{Min: decimal.NewFromFloat(51446), Max: decimal.NewFromFloat(102894), Rate: decimal.NewFromFloat(0.0915)},
			{Min: decimal.NewFromFloat(102894), Max: decimal.NewFromFloat(150000), Rate: decimal.NewFromFloat(0.1116)},
			{Min: decimal.NewFromFloat(150000), Max: decimal.NewFromFloat(220000), Rate: decimal.NewFromFloat(0.1216)},
			{Min: decimal.NewFromFloat(220000), Max: NoLimit, Rate: decimal.NewFromFloat(0.1316)},
		},
		Credits: Credits{
			BPA: BPACredit{Amount: decimal.NewFromFloat(12399), Rate: decimal.NewFromFloat(0.0505)},
			Age: AgeCredit{
				BaseAmount:      decimal.NewFromFloat(5896),
				IncomeThreshold: decimal.NewFromFloat(44325),
				ReductionRate:   decimal.NewFromFloat(0.15),
				CreditRate:      decimal.NewFromFloat(0.0505),
			},
			Pension: PensionCredit{MaxClaim: decimal.NewFromFloat(1580), CreditRate: decimal.NewFromFloat(0.0505)},
			CPPQPP:  CPPCredit{MaxClaimBase: decimal.NewFromFloat(3867.50), CreditRate: decimal.NewFromFloat(0.0505)},
		},
		Surtax: &Surtax{
			Threshold1: decimal.NewFromFloat(5315),
			Rate1:      decimal.NewFromFloat(0.20),
			Threshold2: decimal.NewFromFloat(6802),
			Rate2:      decimal.NewFromFloat(0.16),
		},
	}
}

// rrifFactors is the ITA Reg 7308(4) schedule for ages 71-95.
func rrifFactors() map[int]decimal.Decimal {
	raw := map[int]float64{
		71: 0.0528, 72: 0.0540, 73: 0.0553, 74: 0.0567, 75: 0.0582,
		76: 0.0598, 77: 0.0617, 78: 0.0636, 79: 0.0658, 80: 0.0682,
		81: 0.0708, 82: 0.0738, 83: 0.0771, 84: 0.0808, 85: 0.0851,
		86: 0.0899, 87: 0.0955, 88: 0.1021, 89: 0.1099, 90: 0.1192,
		91: 0.1306, 92: 0.1449, 93: 0.1634, 94: 0.1879, 95: 0.2000,
	}
	table := make(map[int]decimal.Decimal, len(raw))
	for age, f := range raw {
		table[age] = decimal.NewFromFloat(f)
	}
	return table
}
