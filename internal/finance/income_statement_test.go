package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

// TestIncomeStatementScenario воспроизводит сценарий: два расхода Food (100 и 50)
// и доход Salary 500 дают выручку 500, расходы 150, маржу 70%.
func TestIncomeStatementScenario(t *testing.T) {
	foodID := uuid.New()
	salaryID := uuid.New()
	categories := map[uuid.UUID]models.TransactionCategory{
		foodID:   {ID: foodID, Name: "Food", Emoji: "🍔"},
		salaryID: {ID: salaryID, Name: "Salary", Emoji: "💼"},
	}

	transactions := []models.Transaction{
		expenseTx(&foodID, "100"),
		expenseTx(&foodID, "50"),
		{ID: uuid.New(), Amount: decimal.RequireFromString("500"), Type: models.TransactionTypeIncome, CategoryID: &salaryID},
	}

	period := Period{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
	}
	statement := BuildIncomeStatement(period, transactions, categories)

	if !statement.Revenue.Total.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("expected revenue 500, got %s", statement.Revenue.Total)
	}
	if !statement.Expenses.Total.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("expected expenses 150, got %s", statement.Expenses.Total)
	}

	if len(statement.Expenses.Categories) != 1 {
		t.Fatalf("expected one expense category, got %d", len(statement.Expenses.Categories))
	}
	food := statement.Expenses.Categories[0]
	if food.CategoryName != "Food" {
		t.Fatalf("expected Food, got %s", food.CategoryName)
	}
	if !food.Amount.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("expected Food amount 150, got %s", food.Amount)
	}
	if !food.Percentage.Equal(hundred) {
		t.Fatalf("expected Food percentage 100, got %s", food.Percentage)
	}

	if !statement.NetIncome.Equal(decimal.RequireFromString("350")) {
		t.Fatalf("expected net income 350, got %s", statement.NetIncome)
	}
	if !statement.NetIncomeMargin.Equal(decimal.RequireFromString("70")) {
		t.Fatalf("expected margin 70, got %s", statement.NetIncomeMargin)
	}
}

// TestIncomeStatementIdentity проверяет тождество netIncome = revenue - expenses.
func TestIncomeStatementIdentity(t *testing.T) {
	id := uuid.New()
	transactions := []models.Transaction{
		{ID: uuid.New(), Amount: decimal.RequireFromString("1234.56"), Type: models.TransactionTypeIncome, CategoryID: &id},
		expenseTx(&id, "789.01"),
		expenseTx(nil, "10.99"),
	}

	statement := BuildIncomeStatement(Period{}, transactions, nil)

	want := statement.Revenue.Total.Sub(statement.Expenses.Total)
	if !statement.NetIncome.Equal(want) {
		t.Fatalf("expected net income %s, got %s", want, statement.NetIncome)
	}
}

// TestIncomeStatementZeroRevenue проверяет нулевую маржу при нулевой выручке.
func TestIncomeStatementZeroRevenue(t *testing.T) {
	statement := BuildIncomeStatement(Period{}, []models.Transaction{expenseTx(nil, "42")}, nil)

	if !statement.NetIncomeMargin.IsZero() {
		t.Fatalf("expected zero margin, got %s", statement.NetIncomeMargin)
	}
	if !statement.NetIncome.Equal(decimal.RequireFromString("-42")) {
		t.Fatalf("expected net income -42, got %s", statement.NetIncome)
	}
}
