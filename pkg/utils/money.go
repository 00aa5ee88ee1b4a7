package utils

import "fmt"

// The platform reports money amounts in 1/100000 yuan.
const yuanUnitMultiplier = 0.00001

// MoneyToYuan converts a platform money amount to yuan.
func MoneyToYuan(v float64) float64 {
	return RoundWithTwoDecimalPlace(v * yuanUnitMultiplier)
}

// FormatYuan renders a platform money amount as yuan with two decimals.
func FormatYuan(v float64) string {
	return fmt.Sprintf("%.2f", MoneyToYuan(v))
}
