package category

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreateParams_Validate(t *testing.T) {
	valid := CreateParams{Name: "Food", Color: "#ff0000", Type: TypeExpense}

	tests := []struct {
		name    string
		mutate  func(p *CreateParams)
		wantErr error
	}{
		{"valid", func(p *CreateParams) {}, nil},
		{"income", func(p *CreateParams) { p.Type = TypeIncome }, nil},
		{"missing name", func(p *CreateParams) { p.Name = "" }, ErrInvalidInput},
		{"missing color", func(p *CreateParams) { p.Color = "" }, ErrInvalidInput},
		{"bad type", func(p *CreateParams) { p.Type = "TRANSFER" }, ErrInvalidType},
		{"negative budget", func(p *CreateParams) { p.MonthlyBudgetAmount = decimal.NewFromInt(-5) }, ErrInvalidInput},
		{"percentage over 100", func(p *CreateParams) { p.MonthlyBudgetPercentage = decimal.NewFromInt(101) }, ErrInvalidInput},
		{"percentage 100", func(p *CreateParams) { p.MonthlyBudgetPercentage = decimal.NewFromInt(100) }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUpdateParams_Validate(t *testing.T) {
	bad := "SAVINGS"
	if err := (UpdateParams{Type: &bad}).Validate(); !errors.Is(err, ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
	pct := decimal.NewFromFloat(12.5)
	if err := (UpdateParams{MonthlyBudgetPercentage: &pct}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
