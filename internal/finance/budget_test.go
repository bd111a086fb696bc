package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

// TestMonthlyEquivalent проверяет приведение периодичностей к месяцу:
// еженедельные 100 дают 433, годовые 12000 дают 1000.
func TestMonthlyEquivalent(t *testing.T) {
	weekly := MonthlyEquivalent(decimal.RequireFromString("100"), models.FrequencyWeekly)
	if !weekly.Equal(decimal.RequireFromString("433")) {
		t.Fatalf("expected 433, got %s", weekly)
	}

	biweekly := MonthlyEquivalent(decimal.RequireFromString("100"), models.FrequencyBiweekly)
	if !biweekly.Equal(decimal.RequireFromString("217")) {
		t.Fatalf("expected 217, got %s", biweekly)
	}

	monthly := MonthlyEquivalent(decimal.RequireFromString("250"), models.FrequencyMonthly)
	if !monthly.Equal(decimal.RequireFromString("250")) {
		t.Fatalf("expected 250, got %s", monthly)
	}

	annual := MonthlyEquivalent(decimal.RequireFromString("12000"), models.FrequencyAnnual)
	if !annual.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("expected 1000, got %s", annual)
	}
}

// TestBudgetSummaryPlanned проверяет плановые итоги и доступный остаток.
func TestBudgetSummaryPlanned(t *testing.T) {
	incomes := []models.IncomeSource{
		{Amount: decimal.RequireFromString("1000"), Frequency: models.FrequencyMonthly, Category: BudgetCategorySalary},
		{Amount: decimal.RequireFromString("12000"), Frequency: models.FrequencyAnnual, Category: BudgetCategoryBusiness},
	}
	expenses := []models.RecurringExpense{
		{Amount: decimal.RequireFromString("500"), Frequency: models.FrequencyMonthly, Category: BudgetCategoryHousing},
		{Amount: decimal.RequireFromString("100"), Frequency: models.FrequencyWeekly, Category: BudgetCategoryFood},
	}

	summary := BuildBudgetSummary(incomes, expenses, nil, nil)

	if !summary.TotalMonthlyIncome.Equal(decimal.RequireFromString("2000")) {
		t.Fatalf("expected income 2000, got %s", summary.TotalMonthlyIncome)
	}
	if !summary.TotalMonthlyExpenses.Equal(decimal.RequireFromString("933")) {
		t.Fatalf("expected expenses 933, got %s", summary.TotalMonthlyExpenses)
	}
	if !summary.AvailableBalance.Equal(decimal.RequireFromString("1067")) {
		t.Fatalf("expected available 1067, got %s", summary.AvailableBalance)
	}
	if !summary.SavingsRate.Equal(decimal.RequireFromString("53.35")) {
		t.Fatalf("expected savings rate 53.35, got %s", summary.SavingsRate)
	}
}

// TestBudgetSummaryZeroIncome проверяет нулевую норму сбережений без дохода.
func TestBudgetSummaryZeroIncome(t *testing.T) {
	expenses := []models.RecurringExpense{
		{Amount: decimal.RequireFromString("300"), Frequency: models.FrequencyMonthly, Category: BudgetCategoryHousing},
	}

	summary := BuildBudgetSummary(nil, expenses, nil, nil)

	if !summary.SavingsRate.IsZero() {
		t.Fatalf("expected zero savings rate, got %s", summary.SavingsRate)
	}
	if !summary.AvailableBalance.Equal(decimal.RequireFromString("-300")) {
		t.Fatalf("expected available -300, got %s", summary.AvailableBalance)
	}
}

// TestBudgetSummaryMergesActualByAlias проверяет слияние факта в плановый бакет
// по таблице соответствий имен.
func TestBudgetSummaryMergesActualByAlias(t *testing.T) {
	expenses := []models.RecurringExpense{
		{Amount: decimal.RequireFromString("400"), Frequency: models.FrequencyMonthly, Category: BudgetCategoryFood},
	}

	groceriesID := uuid.New()
	categories := map[uuid.UUID]models.TransactionCategory{
		groceriesID: {ID: groceriesID, Name: "Groceries"},
	}
	transactions := []models.Transaction{
		{Amount: decimal.RequireFromString("120"), Type: models.TransactionTypeExpense, CategoryID: &groceriesID},
	}

	summary := BuildBudgetSummary(nil, expenses, transactions, categories)

	var food *BudgetCategorySummary
	for i := range summary.ExpensesByCategory {
		if summary.ExpensesByCategory[i].Key == BudgetCategoryFood {
			food = &summary.ExpensesByCategory[i]
		}
	}

	if food == nil {
		t.Fatal("expected food bucket")
	}
	if !food.Planned.Equal(decimal.RequireFromString("400")) {
		t.Fatalf("expected planned 400, got %s", food.Planned)
	}
	if !food.Actual.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("expected actual 120, got %s", food.Actual)
	}
	if !summary.ActualMonthlyExpenses.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("expected actual total 120, got %s", summary.ActualMonthlyExpenses)
	}
}

// TestBudgetSummaryUnmappedCategory проверяет отдельный бакет для имени
// без соответствия: данные не отбрасываются.
func TestBudgetSummaryUnmappedCategory(t *testing.T) {
	petsID := uuid.New()
	categories := map[uuid.UUID]models.TransactionCategory{
		petsID: {ID: petsID, Name: "Pet Supplies"},
	}
	transactions := []models.Transaction{
		{Amount: decimal.RequireFromString("75"), Type: models.TransactionTypeExpense, CategoryID: &petsID},
	}

	summary := BuildBudgetSummary(nil, nil, transactions, categories)

	if len(summary.ExpensesByCategory) != 1 {
		t.Fatalf("expected one ad-hoc bucket, got %d", len(summary.ExpensesByCategory))
	}

	bucket := summary.ExpensesByCategory[0]
	if bucket.Key != "Pet Supplies" {
		t.Fatalf("expected ad-hoc key, got %q", bucket.Key)
	}
	if !bucket.Actual.Equal(decimal.RequireFromString("75")) {
		t.Fatalf("expected actual 75, got %s", bucket.Actual)
	}
}
