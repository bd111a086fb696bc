package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

func liquidAsset(name, value string) models.Asset {
	return models.Asset{
		ID:       uuid.New(),
		Name:     name,
		Value:    decimal.RequireFromString(value),
		Type:     models.AssetTypeLiquid,
		IsActive: true,
	}
}

func illiquidAsset(name, value string) models.Asset {
	asset := liquidAsset(name, value)
	asset.Type = models.AssetTypeIlliquid
	return asset
}

func activeDebt(creditor, remaining string, endDate *time.Time) models.Debt {
	return models.Debt{
		ID:              uuid.New(),
		Creditor:        creditor,
		TotalAmount:     decimal.RequireFromString(remaining),
		RemainingAmount: decimal.RequireFromString(remaining),
		Type:            models.DebtTypeLoan,
		Status:          models.DebtStatusActive,
		EndDate:         endDate,
	}
}

// TestBalanceSheetIdentity проверяет тождество netWorth = assets - liabilities = equity.
func TestBalanceSheetIdentity(t *testing.T) {
	asOf := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	horizon := asOf.AddDate(0, 6, 0)

	assets := []models.Asset{liquidAsset("Checking", "2500.50"), illiquidAsset("Car", "12000")}
	debts := []models.Debt{activeDebt("Bank", "7300.25", &horizon)}

	sheet := BuildBalanceSheet(asOf, assets, debts, decimal.Zero)

	want := sheet.Assets.Total.Sub(sheet.Liabilities.Total)
	if !sheet.NetWorth.Equal(want) {
		t.Fatalf("expected net worth %s, got %s", want, sheet.NetWorth)
	}
	if !sheet.NetWorth.Equal(sheet.Equity) {
		t.Fatalf("expected equity %s to equal net worth %s", sheet.Equity, sheet.NetWorth)
	}
	if sheet.Source != BalanceSheetComputed {
		t.Fatalf("expected computed source, got %s", sheet.Source)
	}
}

// TestDebtHorizonBoundary проверяет границу краткосрочности: ровно год считается текущим
// долгом, днем позже долгосрочным, а без срока долг всегда долгосрочный.
func TestDebtHorizonBoundary(t *testing.T) {
	asOf := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	exactlyOneYear := asOf.AddDate(1, 0, 0)
	if !IsCurrentDebt(activeDebt("Bank", "100", &exactlyOneYear), asOf) {
		t.Fatal("expected debt due in exactly one year to be current")
	}

	oneYearAndDay := exactlyOneYear.AddDate(0, 0, 1)
	if IsCurrentDebt(activeDebt("Bank", "100", &oneYearAndDay), asOf) {
		t.Fatal("expected debt due one year and a day out to be long-term")
	}

	if IsCurrentDebt(activeDebt("Bank", "100", nil), asOf) {
		t.Fatal("expected open-ended debt to be long-term")
	}
}

// TestBalanceSheetNoDebts воспроизводит сценарий: ликвидные активы 1000 без долгов.
func TestBalanceSheetNoDebts(t *testing.T) {
	asOf := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	sheet := BuildBalanceSheet(asOf, []models.Asset{liquidAsset("Cash", "1000")}, nil, decimal.Zero)

	if !sheet.Equity.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("expected equity 1000, got %s", sheet.Equity)
	}
	if !sheet.Ratios.DebtToAssets.IsZero() {
		t.Fatalf("expected zero debt-to-assets, got %s", sheet.Ratios.DebtToAssets)
	}
	if !sheet.Ratios.CurrentRatio.IsZero() {
		t.Fatalf("expected zero current ratio without current liabilities, got %s", sheet.Ratios.CurrentRatio)
	}
}

// TestBalanceSheetGroupPercentages проверяет доли позиций от итога своей группы.
func TestBalanceSheetGroupPercentages(t *testing.T) {
	asOf := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	assets := []models.Asset{
		liquidAsset("Checking", "750"),
		liquidAsset("Savings", "250"),
		illiquidAsset("Car", "5000"),
	}

	sheet := BuildBalanceSheet(asOf, assets, nil, decimal.Zero)

	if len(sheet.Assets.Liquid) != 2 {
		t.Fatalf("expected 2 liquid entries, got %d", len(sheet.Assets.Liquid))
	}
	if !sheet.Assets.Liquid[0].Percentage.Equal(decimal.RequireFromString("75")) {
		t.Fatalf("expected 75%% of liquid group, got %s", sheet.Assets.Liquid[0].Percentage)
	}
	if !sheet.Assets.Illiquid[0].Percentage.Equal(hundred) {
		t.Fatalf("expected 100%% of illiquid group, got %s", sheet.Assets.Illiquid[0].Percentage)
	}
}

// TestBalanceSheetLiquidityMonths проверяет коэффициент ликвидности.
func TestBalanceSheetLiquidityMonths(t *testing.T) {
	asOf := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	sheet := BuildBalanceSheet(asOf, []models.Asset{liquidAsset("Cash", "3000")}, nil, decimal.RequireFromString("1500"))

	if !sheet.Ratios.LiquidityMonths.Equal(decimal.RequireFromString("2")) {
		t.Fatalf("expected 2 months of liquidity, got %s", sheet.Ratios.LiquidityMonths)
	}
}

// TestBalanceSheetFromSnapshot проверяет восстановление отчета из снимка.
func TestBalanceSheetFromSnapshot(t *testing.T) {
	snapshot := models.FinancialSnapshot{
		UserID:               uuid.New(),
		Date:                 time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		TotalAssets:          decimal.RequireFromString("10000"),
		LiquidAssets:         decimal.RequireFromString("4000"),
		IlliquidAssets:       decimal.RequireFromString("6000"),
		TotalLiabilities:     decimal.RequireFromString("2500"),
		ShortTermLiabilities: decimal.RequireFromString("500"),
		LongTermLiabilities:  decimal.RequireFromString("2000"),
		Equity:               decimal.RequireFromString("7500"),
		NetWorth:             decimal.RequireFromString("7500"),
	}

	sheet := BalanceSheetFromSnapshot(snapshot)

	if sheet.Source != BalanceSheetSnapshot {
		t.Fatalf("expected snapshot source, got %s", sheet.Source)
	}
	if !sheet.NetWorth.Equal(snapshot.NetWorth) {
		t.Fatalf("expected net worth %s, got %s", snapshot.NetWorth, sheet.NetWorth)
	}
	if len(sheet.Assets.Liquid) != 0 || len(sheet.Liabilities.Current) != 0 {
		t.Fatal("expected no position detail on the snapshot path")
	}
}

// TestSnapshotRoundTrip проверяет согласованность снимка с исходным отчетом.
func TestSnapshotRoundTrip(t *testing.T) {
	asOf := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	horizon := asOf.AddDate(0, 3, 0)
	userID := uuid.New()

	original := BuildBalanceSheet(asOf,
		[]models.Asset{liquidAsset("Cash", "1200"), illiquidAsset("Car", "8000")},
		[]models.Debt{activeDebt("Bank", "3000", &horizon)},
		decimal.Zero,
	)

	snapshot := SnapshotFromBalanceSheet(userID, original, decimal.RequireFromString("1200"))
	restored := BalanceSheetFromSnapshot(snapshot)

	if !restored.NetWorth.Equal(original.NetWorth) {
		t.Fatalf("expected net worth %s, got %s", original.NetWorth, restored.NetWorth)
	}
	if !restored.Liabilities.CurrentTotal.Equal(original.Liabilities.CurrentTotal) {
		t.Fatalf("expected current liabilities %s, got %s", original.Liabilities.CurrentTotal, restored.Liabilities.CurrentTotal)
	}
}
