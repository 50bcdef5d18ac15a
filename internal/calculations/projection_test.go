package calculations

import (
	"math"
	"strings"
	"testing"
)

func TestEvolution(t *testing.T) {
	got := Evolution(100000, 3, DefaultEvolutionMonths)

	if len(got) != 13 {
		t.Fatalf("expected 13 points, got %d", len(got))
	}
	if got[0] != 100000 {
		t.Errorf("first point = %v, want capital", got[0])
	}
	want := MonthlyReturn(100000, 36).FinalAmount
	if math.Abs(got[12]-want) > 1e-4 {
		t.Errorf("last point = %v, want %v", got[12], want)
	}

	if got := Evolution(500, 3, -1); len(got) != 1 || got[0] != 500 {
		t.Errorf("negative months should return only capital, got %v", got)
	}
}

func TestRealReturn(t *testing.T) {
	tests := []struct {
		name      string
		nominal   float64
		inflation float64
		want      float64
	}{
		{name: "no inflation", nominal: 50, inflation: 0, want: 50},
		{name: "equal rates", nominal: 40, inflation: 40, want: 0},
		{name: "fisher", nominal: 100, inflation: 60, want: 25},
		{name: "negative real", nominal: 20, inflation: 50, want: -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RealReturn(tt.nominal, tt.inflation)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("RealReturn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDifferencePercentage(t *testing.T) {
	if got := DifferencePercentage(110, 100); math.Abs(got-10) > eps {
		t.Errorf("DifferencePercentage(110, 100) = %v, want 10", got)
	}
	if got := DifferencePercentage(10, 0); got != 0 {
		t.Errorf("DifferencePercentage(10, 0) = %v, want 0", got)
	}
}

func TestApplyScenario(t *testing.T) {
	banks := []Bank{NewBank("a", "A", "A", "", "", 50, 50, 50)}

	tests := []struct {
		kind ScenarioKind
		want float64
	}{
		{Optimistic, 60},
		{Realistic, 50},
		{Pessimistic, 40},
		{"unknown", 50},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			scaled := ApplyScenario(banks, tt.kind)
			for _, r := range scaled[0].Rates {
				if math.Abs(r-tt.want) > eps {
					t.Errorf("rate = %v, want %v", r, tt.want)
				}
			}
		})
	}

	if banks[0].Rates[0] != 50 {
		t.Errorf("ApplyScenario must not modify input, got %v", banks[0].Rates)
	}
}

func TestRecommend(t *testing.T) {
	rec, err := Recommend(Calculate(ExampleBanks(), DefaultCapital))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if rec.BankID != "nacion" || rec.Modality != "Mensual" {
		t.Errorf("recommendation = %s/%s, want nacion/Mensual", rec.BankID, rec.Modality)
	}
	if rec.RunnerUpBank != "Banco Provincia" {
		t.Errorf("runner-up = %s, want Banco Provincia", rec.RunnerUpBank)
	}
	if rec.AdvantageAmount <= 0 || rec.AdvantagePercent <= 0 {
		t.Errorf("advantage should be positive, got %v / %v", rec.AdvantageAmount, rec.AdvantagePercent)
	}
	if !strings.Contains(rec.RecommendationMsg, "Banco Nación") {
		t.Errorf("unexpected message: %s", rec.RecommendationMsg)
	}
}

func TestRecommendSingleBank(t *testing.T) {
	rec, err := Recommend(Calculate([]Bank{NewBank("a", "A", "A", "", "", 10, 10, 10)}, 1000))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if rec.RunnerUpBank != "" || rec.AdvantageAmount != 0 {
		t.Errorf("single bank should have no runner-up, got %+v", rec)
	}
}

func TestRecommendEmpty(t *testing.T) {
	if _, err := Recommend(nil); err == nil {
		t.Error("expected error for empty evaluations")
	}
}
