package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

var percentageTolerance = decimal.New(1, -6)

func expenseTx(categoryID *uuid.UUID, amount string) models.Transaction {
	return models.Transaction{
		ID:         uuid.New(),
		Amount:     decimal.RequireFromString(amount),
		Type:       models.TransactionTypeExpense,
		CategoryID: categoryID,
	}
}

func namedCategory(name, emoji string) (uuid.UUID, map[uuid.UUID]models.TransactionCategory) {
	id := uuid.New()
	return id, map[uuid.UUID]models.TransactionCategory{
		id: {ID: id, Name: name, Emoji: emoji, Type: models.CategoryTypeExpense},
	}
}

// TestBreakdownPercentagesSumTo100 проверяет нормировку долей при ненулевой базе.
func TestBreakdownPercentagesSumTo100(t *testing.T) {
	foodID := uuid.New()
	rentID := uuid.New()
	funID := uuid.New()
	categories := map[uuid.UUID]models.TransactionCategory{
		foodID: {ID: foodID, Name: "Food"},
		rentID: {ID: rentID, Name: "Rent"},
		funID:  {ID: funID, Name: "Fun"},
	}

	transactions := []models.Transaction{
		expenseTx(&foodID, "33.33"),
		expenseTx(&rentID, "33.33"),
		expenseTx(&funID, "33.34"),
	}

	total := SumAmounts(transactions)
	breakdown := BreakdownByCategory(transactions, categories, total)

	sum := decimal.Zero
	for _, group := range breakdown {
		sum = sum.Add(group.Percentage)
	}

	if sum.Sub(hundred).Abs().GreaterThan(percentageTolerance) {
		t.Fatalf("expected percentages to sum to 100, got %s", sum)
	}
}

// TestBreakdownZeroBase проверяет нулевые доли при нулевой базе.
func TestBreakdownZeroBase(t *testing.T) {
	id, categories := namedCategory("Food", "🍔")
	transactions := []models.Transaction{expenseTx(&id, "0")}

	breakdown := BreakdownByCategory(transactions, categories, decimal.Zero)

	for _, group := range breakdown {
		if !group.Percentage.IsZero() {
			t.Fatalf("expected zero percentage, got %s", group.Percentage)
		}
	}
}

// TestBreakdownUncategorizedBucket проверяет бакет для операций без категории.
func TestBreakdownUncategorizedBucket(t *testing.T) {
	transactions := []models.Transaction{expenseTx(nil, "50"), expenseTx(nil, "25")}

	breakdown := BreakdownByCategory(transactions, nil, SumAmounts(transactions))

	if len(breakdown) != 1 {
		t.Fatalf("expected single bucket, got %d", len(breakdown))
	}

	bucket := breakdown[0]
	if bucket.CategoryID != uuid.Nil {
		t.Fatalf("expected nil category id, got %s", bucket.CategoryID)
	}
	if bucket.CategoryName != UncategorizedName {
		t.Fatalf("expected %q, got %q", UncategorizedName, bucket.CategoryName)
	}
	if !bucket.Amount.Equal(decimal.RequireFromString("75")) {
		t.Fatalf("expected 75, got %s", bucket.Amount)
	}
	if bucket.TransactionCount != 2 {
		t.Fatalf("expected 2 transactions, got %d", bucket.TransactionCount)
	}
}

// TestBreakdownSortedByAmount проверяет сортировку по убыванию суммы.
func TestBreakdownSortedByAmount(t *testing.T) {
	smallID := uuid.New()
	bigID := uuid.New()
	categories := map[uuid.UUID]models.TransactionCategory{
		smallID: {ID: smallID, Name: "Small"},
		bigID:   {ID: bigID, Name: "Big"},
	}

	transactions := []models.Transaction{
		expenseTx(&smallID, "10"),
		expenseTx(&bigID, "200"),
	}

	breakdown := BreakdownByCategory(transactions, categories, SumAmounts(transactions))

	if breakdown[0].CategoryName != "Big" {
		t.Fatalf("expected Big first, got %s", breakdown[0].CategoryName)
	}
}

// TestBreakdownRetainsTransactions проверяет сохранение операций для детализации.
func TestBreakdownRetainsTransactions(t *testing.T) {
	id, categories := namedCategory("Food", "🍔")
	transactions := []models.Transaction{expenseTx(&id, "100"), expenseTx(&id, "50")}

	breakdown := BreakdownByCategory(transactions, categories, SumAmounts(transactions))

	if len(breakdown[0].Transactions) != 2 {
		t.Fatalf("expected 2 retained transactions, got %d", len(breakdown[0].Transactions))
	}
}
