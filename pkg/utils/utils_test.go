package utils

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{name: "monthly final amount", input: 142576.08868461792, want: 142576.09},
		{name: "effective rate", input: 46.40999999999997, want: 46.41},
		{name: "whole pesos", input: 850000, want: 850000},
		{name: "negative advantage", input: -1234.567, want: -1234.57},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round2(tt.input); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Round2(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  bool
	}{
		{name: "rate", input: 58.7, want: true},
		{name: "zero", input: 0, want: true},
		{name: "overflowed compounding", input: math.Pow(10, 400), want: false},
		{name: "negative infinity", input: math.Inf(-1), want: false},
		{name: "undefined ratio", input: math.NaN(), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFinite(tt.input); got != tt.want {
				t.Errorf("IsFinite(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{name: "two decimals", value: 46.41, decimals: 2, want: "46.41%"},
		{name: "rounds up", value: 42.5761, decimals: 2, want: "42.58%"},
		{name: "no decimals", value: 50, decimals: 0, want: "50%"},
		{name: "negative decimals treated as zero", value: 12.3, decimals: -1, want: "12%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPercentage(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("FormatPercentage() = %q, want %q", got, tt.want)
			}
		})
	}
}
