package finance

import (
	"testing"

	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

// TestKPIsSolvencyRatio проверяет расчет коэффициента платежеспособности.
func TestKPIsSolvencyRatio(t *testing.T) {
	budget := BudgetSummary{TotalMonthlyExpenses: decimal.RequireFromString("800")}
	assets := []models.Asset{liquidAsset("Cash", "2400"), illiquidAsset("Car", "10000")}
	debts := []models.Debt{
		{Type: models.DebtTypeLoan, RemainingAmount: decimal.RequireFromString("5000"), MonthlyPayment: decimal.RequireFromString("400")},
	}

	kpis := BuildKPIs(budget, assets, debts)

	// 2400 / (800 + 400) = 2
	if !kpis.SolvencyRatio.Equal(decimal.RequireFromString("2")) {
		t.Fatalf("expected solvency ratio 2, got %s", kpis.SolvencyRatio)
	}
	if !kpis.MonthlyDebtPayments.Equal(decimal.RequireFromString("400")) {
		t.Fatalf("expected monthly payments 400, got %s", kpis.MonthlyDebtPayments)
	}
}

// TestKPIsZeroObligations проверяет ноль вместо деления на ноль.
func TestKPIsZeroObligations(t *testing.T) {
	kpis := BuildKPIs(BudgetSummary{}, []models.Asset{liquidAsset("Cash", "100")}, nil)

	if !kpis.SolvencyRatio.IsZero() {
		t.Fatalf("expected zero solvency ratio, got %s", kpis.SolvencyRatio)
	}
}

// TestKPIsAssetPercentages проверяет доли ликвидных и неликвидных активов.
func TestKPIsAssetPercentages(t *testing.T) {
	assets := []models.Asset{liquidAsset("Cash", "250"), illiquidAsset("Land", "750")}

	kpis := BuildKPIs(BudgetSummary{}, assets, nil)

	if !kpis.LiquidPercentage.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("expected 25%% liquid, got %s", kpis.LiquidPercentage)
	}
	if !kpis.IlliquidPercentage.Equal(decimal.RequireFromString("75")) {
		t.Fatalf("expected 75%% illiquid, got %s", kpis.IlliquidPercentage)
	}
}

// TestKPIsDebtDistribution проверяет разбивку долга по типам с долями от общего долга.
func TestKPIsDebtDistribution(t *testing.T) {
	debts := []models.Debt{
		{Type: models.DebtTypeMortgage, RemainingAmount: decimal.RequireFromString("9000")},
		{Type: models.DebtTypeCreditCard, RemainingAmount: decimal.RequireFromString("600")},
		{Type: models.DebtTypeCreditCard, RemainingAmount: decimal.RequireFromString("400")},
	}

	kpis := BuildKPIs(BudgetSummary{}, nil, debts)

	if !kpis.TotalDebt.Equal(decimal.RequireFromString("10000")) {
		t.Fatalf("expected total debt 10000, got %s", kpis.TotalDebt)
	}
	if len(kpis.DebtByType) != 2 {
		t.Fatalf("expected 2 debt types, got %d", len(kpis.DebtByType))
	}

	first := kpis.DebtByType[0]
	if first.Type != models.DebtTypeMortgage || !first.Percentage.Equal(decimal.RequireFromString("90")) {
		t.Fatalf("expected mortgage at 90%%, got %s at %s", first.Type, first.Percentage)
	}

	second := kpis.DebtByType[1]
	if second.Count != 2 || !second.Amount.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("expected 2 credit card debts totaling 1000, got %d and %s", second.Count, second.Amount)
	}
}
