package payroll

import "math"

// TaxBracket is one band of the PNG fortnightly salary or wages tax schedule,
// expressed on annual income. Base is the cumulative tax owed by all lower
// bands, precomputed so a lookup touches a single bracket.
type TaxBracket struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Rate float64 `json:"rate"`
	Base float64 `json:"base"`
}

// unbounded marks the open-ended top bracket.
var unbounded = math.Inf(1)

// ResidentBrackets2026 starts with a tax-free band.
var ResidentBrackets2026 = []TaxBracket{
	{Min: 0, Max: 20000, Rate: 0, Base: 0},
	{Min: 20001, Max: 33000, Rate: 0.30, Base: 0},
	{Min: 33001, Max: 70000, Rate: 0.35, Base: 3900},
	{Min: 70001, Max: 250000, Rate: 0.40, Base: 16850},
	{Min: 250001, Max: unbounded, Rate: 0.42, Base: 88850},
}

// NonResidentBrackets2026 taxes from the first kina.
var NonResidentBrackets2026 = []TaxBracket{
	{Min: 0, Max: 20000, Rate: 0.22, Base: 0},
	{Min: 20001, Max: 33000, Rate: 0.30, Base: 4400},
	{Min: 33001, Max: 70000, Rate: 0.35, Base: 8300},
	{Min: 70001, Max: 250000, Rate: 0.40, Base: 21250},
	{Min: 250001, Max: unbounded, Rate: 0.42, Base: 93250},
}

type bracketSet struct {
	resident    []TaxBracket
	nonResident []TaxBracket
}

var taxYears = map[int]bracketSet{
	2026: {resident: ResidentBrackets2026, nonResident: NonResidentBrackets2026},
}

// BracketsFor returns the bracket table for a tax year and residency status.
// Unknown years fall back to the current schedule.
func BracketsFor(year int, resident bool) []TaxBracket {
	set, ok := taxYears[year]
	if !ok {
		set = taxYears[CurrentTaxYear]
	}
	if resident {
		return set.resident
	}
	return set.nonResident
}

// AnnualPAYE walks the ordered brackets and returns the annual tax owed on
// annualIncome. Bracket upper bounds are inclusive; the low boundary is
// treated as exclusive at the one-kina level, hence the +1 in the taxable
// amount. Changing that offset shifts tax at every bracket edge.
func AnnualPAYE(annualIncome float64, brackets []TaxBracket) float64 {
	for _, bracket := range brackets {
		if annualIncome <= bracket.Max {
			taxable := math.Max(0, annualIncome-bracket.Min+1)
			return bracket.Base + taxable*bracket.Rate
		}
	}
	return 0
}
