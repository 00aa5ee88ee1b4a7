package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoneyToYuan(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected float64
	}{
		{name: "whole yuan", amount: 120000000, expected: 1200},
		{name: "rounds to two decimals", amount: 123456, expected: 1.23},
		{name: "zero", amount: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MoneyToYuan(tt.amount))
		})
	}
}

func TestFormatYuan(t *testing.T) {
	assert.Equal(t, "1200.00", FormatYuan(120000000))
	assert.Equal(t, "1.23", FormatYuan(123456))
}
