package payroll

// Progressive income tax brackets applied to monthly gross salary. Each
// bracket's base amount equals the tax accrued by the brackets below it, so
// the function is continuous at the boundaries.
const (
	taxExemptLimit  = 250000.0
	lowerBracketCap = 500000.0
	upperBracketCap = 1000000.0

	lowerBracketRate = 0.05
	midBracketRate   = 0.20
	topBracketRate   = 0.30

	midBracketBase = 12500.0  // 5% of the 250k-500k band
	topBracketBase = 112500.0 // midBracketBase + 20% of the 500k-1M band
)

// CalculateTax returns the income tax owed on grossSalary. Pure and
// deterministic; callers must not pass negative values.
func CalculateTax(grossSalary float64) float64 {
	switch {
	case grossSalary <= taxExemptLimit:
		return 0
	case grossSalary <= lowerBracketCap:
		return (grossSalary - taxExemptLimit) * lowerBracketRate
	case grossSalary <= upperBracketCap:
		return midBracketBase + (grossSalary-lowerBracketCap)*midBracketRate
	default:
		return topBracketBase + (grossSalary-upperBracketCap)*topBracketRate
	}
}
