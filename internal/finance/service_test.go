package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

type stubSources struct {
	transactions []models.Transaction
	categories   map[uuid.UUID]models.TransactionCategory
	assets       []models.Asset
	debts        []models.Debt
	cash         decimal.Decimal
	snapshots    map[string]models.FinancialSnapshot
	incomes      []models.IncomeSource
	expenses     []models.RecurringExpense
}

func newStubSources() *stubSources {
	return &stubSources{
		cash:      decimal.Zero,
		snapshots: make(map[string]models.FinancialSnapshot),
	}
}

func (s *stubSources) ListByPeriod(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]models.Transaction, error) {
	return s.transactions, nil
}

func (s *stubSources) MapByUser(_ context.Context, _ uuid.UUID) (map[uuid.UUID]models.TransactionCategory, error) {
	return s.categories, nil
}

func (s *stubSources) ListActive(_ context.Context, _ uuid.UUID) ([]models.Asset, error) {
	return s.assets, nil
}

func (s *stubSources) ListActiveAsOf(_ context.Context, _ uuid.UUID, _ time.Time) ([]models.Asset, error) {
	return s.assets, nil
}

func (s *stubSources) ListAcquiredBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]models.Asset, error) {
	return nil, nil
}

func (s *stubSources) ListDeactivatedBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]models.Asset, error) {
	return nil, nil
}

func (s *stubSources) SumActiveBalances(_ context.Context, _ uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	return s.cash, nil
}

func (s *stubSources) GetByDate(_ context.Context, _ uuid.UUID, date time.Time) (models.FinancialSnapshot, bool, error) {
	snapshot, ok := s.snapshots[date.Format("2006-01-02")]
	return snapshot, ok, nil
}

func (s *stubSources) Upsert(_ context.Context, snapshot models.FinancialSnapshot) (models.FinancialSnapshot, error) {
	snapshot.ID = uuid.New()
	s.snapshots[snapshot.Date.Format("2006-01-02")] = snapshot
	return snapshot, nil
}

func (s *stubSources) ListActiveIncomeSources(_ context.Context, _ uuid.UUID) ([]models.IncomeSource, error) {
	return s.incomes, nil
}

func (s *stubSources) ListActiveRecurringExpenses(_ context.Context, _ uuid.UUID) ([]models.RecurringExpense, error) {
	return s.expenses, nil
}

type debtStub struct{ *stubSources }

func (d debtStub) ListActive(_ context.Context, _ uuid.UUID) ([]models.Debt, error) {
	return d.debts, nil
}

func (d debtStub) ListActiveAsOf(_ context.Context, _ uuid.UUID, _ time.Time) ([]models.Debt, error) {
	return d.debts, nil
}

func (d debtStub) ListStartedBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]models.Debt, error) {
	return nil, nil
}

func (d debtStub) ListPaidBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]models.Debt, error) {
	return nil, nil
}

func newStubService(stub *stubSources) *Service {
	return NewService(stub, stub, stub, debtStub{stub}, stub, stub, stub)
}

// TestBalanceSheetSnapshotFastPath проверяет, что при существующем снимке отчет
// восстанавливается из него, а не пересчитывается.
func TestBalanceSheetSnapshotFastPath(t *testing.T) {
	stub := newStubSources()
	date := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	stub.snapshots[date.Format("2006-01-02")] = models.FinancialSnapshot{
		Date:        date,
		TotalAssets: decimal.RequireFromString("9999"),
		NetWorth:    decimal.RequireFromString("9999"),
		Equity:      decimal.RequireFromString("9999"),
	}
	// Живые данные намеренно другие: пересчет дал бы иной итог.
	stub.assets = []models.Asset{liquidAsset("Cash", "1")}

	sheet, err := newStubService(stub).BalanceSheet(context.Background(), uuid.New(), date)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if sheet.Source != BalanceSheetSnapshot {
		t.Fatalf("expected snapshot source, got %s", sheet.Source)
	}
	if !sheet.Assets.Total.Equal(decimal.RequireFromString("9999")) {
		t.Fatalf("expected cached total 9999, got %s", sheet.Assets.Total)
	}
}

// TestBalanceSheetComputedPath проверяет пересчет при отсутствии снимка.
func TestBalanceSheetComputedPath(t *testing.T) {
	stub := newStubSources()
	stub.assets = []models.Asset{liquidAsset("Cash", "1500")}

	date := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)
	sheet, err := newStubService(stub).BalanceSheet(context.Background(), uuid.New(), date)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if sheet.Source != BalanceSheetComputed {
		t.Fatalf("expected computed source, got %s", sheet.Source)
	}
	if !sheet.NetWorth.Equal(decimal.RequireFromString("1500")) {
		t.Fatalf("expected net worth 1500, got %s", sheet.NetWorth)
	}
}

// TestCreateSnapshotPersistsAggregates проверяет сохранение агрегатов снимка
// и последующий быстрый путь для той же даты.
func TestCreateSnapshotPersistsAggregates(t *testing.T) {
	stub := newStubSources()
	stub.assets = []models.Asset{liquidAsset("Cash", "2000"), illiquidAsset("Car", "8000")}
	stub.cash = decimal.RequireFromString("2000")
	service := newStubService(stub)

	date := time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)
	userID := uuid.New()

	snapshot, err := service.CreateSnapshot(context.Background(), userID, date)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !snapshot.TotalAssets.Equal(decimal.RequireFromString("10000")) {
		t.Fatalf("expected total assets 10000, got %s", snapshot.TotalAssets)
	}
	if !snapshot.CashBalance.Equal(decimal.RequireFromString("2000")) {
		t.Fatalf("expected cash balance 2000, got %s", snapshot.CashBalance)
	}

	sheet, err := service.BalanceSheet(context.Background(), userID, date)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sheet.Source != BalanceSheetSnapshot {
		t.Fatalf("expected snapshot source after creation, got %s", sheet.Source)
	}
}

// TestDashboardComposesStatements проверяет параллельную сборку дашборда.
func TestDashboardComposesStatements(t *testing.T) {
	stub := newStubSources()
	salaryID := uuid.New()
	stub.categories = map[uuid.UUID]models.TransactionCategory{
		salaryID: {ID: salaryID, Name: "Salary"},
	}
	stub.transactions = []models.Transaction{
		{Amount: decimal.RequireFromString("500"), Type: models.TransactionTypeIncome, CategoryID: &salaryID},
	}
	stub.assets = []models.Asset{liquidAsset("Cash", "1000")}
	stub.cash = decimal.RequireFromString("1000")

	dashboard, err := newStubService(stub).Dashboard(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !dashboard.IncomeStatement.Revenue.Total.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("expected revenue 500, got %s", dashboard.IncomeStatement.Revenue.Total)
	}
	if !dashboard.BalanceSheet.NetWorth.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("expected net worth 1000, got %s", dashboard.BalanceSheet.NetWorth)
	}
	if !dashboard.CashFlow.EndingCash.Equal(decimal.RequireFromString("1500")) {
		t.Fatalf("expected ending cash 1500, got %s", dashboard.CashFlow.EndingCash)
	}
}
