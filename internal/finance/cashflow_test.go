package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

func flowTypePtr(flow models.FlowType) *models.FlowType {
	return &flow
}

// TestCashFlowIdentity проверяет тождество endingCash = startingCash + сумма потоков.
func TestCashFlowIdentity(t *testing.T) {
	period := Period{
		Start: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	}

	transactions := []models.Transaction{
		{Amount: decimal.RequireFromString("2000"), Type: models.TransactionTypeIncome},
		{Amount: decimal.RequireFromString("750.40"), Type: models.TransactionTypeExpense},
	}
	purchased := []models.Asset{liquidAsset("Bike", "300")}
	sold := []models.Asset{illiquidAsset("Old laptop", "150")}
	paidDate := period.Start.AddDate(0, 0, 10)
	repaid := []models.Debt{
		{Creditor: "Bank", TotalAmount: decimal.RequireFromString("500"), Status: models.DebtStatusPaid, PaidDate: &paidDate},
	}
	borrowed := []models.Debt{
		{Creditor: "Credit union", TotalAmount: decimal.RequireFromString("1000"), StartDate: period.Start},
	}

	startingCash := decimal.RequireFromString("5000")
	statement := BuildCashFlowStatement(period, transactions, nil, purchased, sold, borrowed, repaid, startingCash)

	wantNet := statement.Operations.Net.Add(statement.Investing.Net).Add(statement.Financing.Net)
	if !statement.NetCashFlow.Equal(wantNet) {
		t.Fatalf("expected net cash flow %s, got %s", wantNet, statement.NetCashFlow)
	}

	wantEnding := startingCash.Add(statement.NetCashFlow)
	if !statement.EndingCash.Equal(wantEnding) {
		t.Fatalf("expected ending cash %s, got %s", wantEnding, statement.EndingCash)
	}
}

// TestCashFlowOperatingFilter проверяет, что в операционный поток попадают только
// операции без flow_type или с flow_type=operating.
func TestCashFlowOperatingFilter(t *testing.T) {
	transactions := []models.Transaction{
		{Amount: decimal.RequireFromString("100"), Type: models.TransactionTypeIncome},
		{Amount: decimal.RequireFromString("200"), Type: models.TransactionTypeIncome, FlowType: flowTypePtr(models.FlowTypeOperating)},
		{Amount: decimal.RequireFromString("900"), Type: models.TransactionTypeIncome, FlowType: flowTypePtr(models.FlowTypeInvesting)},
		{Amount: decimal.RequireFromString("40"), Type: models.TransactionTypeExpense, FlowType: flowTypePtr(models.FlowTypeFinancing)},
		{Amount: decimal.RequireFromString("60"), Type: models.TransactionTypeExpense},
	}

	statement := BuildCashFlowStatement(Period{}, transactions, nil, nil, nil, nil, nil, decimal.Zero)

	if !statement.Operations.Inflows.Equal(decimal.RequireFromString("300")) {
		t.Fatalf("expected operating inflows 300, got %s", statement.Operations.Inflows)
	}
	if !statement.Operations.Outflows.Equal(decimal.RequireFromString("60")) {
		t.Fatalf("expected operating outflows 60, got %s", statement.Operations.Outflows)
	}
	if !statement.Operations.Net.Equal(decimal.RequireFromString("240")) {
		t.Fatalf("expected operating net 240, got %s", statement.Operations.Net)
	}
}

// TestCashFlowInvesting проверяет покупку как отток и деактивацию как продажу
// по последней известной стоимости актива.
func TestCashFlowInvesting(t *testing.T) {
	purchased := []models.Asset{liquidAsset("Shares", "1000")}
	sold := []models.Asset{illiquidAsset("Motorbike", "2500")}

	statement := BuildCashFlowStatement(Period{}, nil, nil, purchased, sold, nil, nil, decimal.Zero)

	if !statement.Investing.Purchases.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("expected purchases 1000, got %s", statement.Investing.Purchases)
	}
	if !statement.Investing.Sales.Equal(decimal.RequireFromString("2500")) {
		t.Fatalf("expected sales 2500, got %s", statement.Investing.Sales)
	}
	if !statement.Investing.Net.Equal(decimal.RequireFromString("1500")) {
		t.Fatalf("expected investing net 1500, got %s", statement.Investing.Net)
	}
	if len(statement.Investing.SaleDetails) != 1 || statement.Investing.SaleDetails[0].Name != "Motorbike" {
		t.Fatal("expected sale detail for the deactivated asset")
	}
}

// TestCashFlowFinancingUsesTotalAmount проверяет, что погашение учитывается полной
// суммой обязательства, а не остатком.
func TestCashFlowFinancingUsesTotalAmount(t *testing.T) {
	paidDate := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	repaid := []models.Debt{
		{
			Creditor:        "Bank",
			TotalAmount:     decimal.RequireFromString("5000"),
			RemainingAmount: decimal.RequireFromString("120"),
			Status:          models.DebtStatusPaid,
			PaidDate:        &paidDate,
		},
	}

	statement := BuildCashFlowStatement(Period{}, nil, nil, nil, nil, nil, repaid, decimal.Zero)

	if !statement.Financing.Repayment.Equal(decimal.RequireFromString("5000")) {
		t.Fatalf("expected repayment 5000, got %s", statement.Financing.Repayment)
	}
	if !statement.Financing.Net.Equal(decimal.RequireFromString("-5000")) {
		t.Fatalf("expected financing net -5000, got %s", statement.Financing.Net)
	}
}

// TestCashFlowCategoryDetails проверяет разбивку операционного потока по категориям.
func TestCashFlowCategoryDetails(t *testing.T) {
	foodID := uuid.New()
	categories := map[uuid.UUID]models.TransactionCategory{
		foodID: {ID: foodID, Name: "Food", Emoji: "🍔"},
	}
	transactions := []models.Transaction{
		expenseTx(&foodID, "80"),
		expenseTx(&foodID, "20"),
	}

	statement := BuildCashFlowStatement(Period{}, transactions, categories, nil, nil, nil, nil, decimal.Zero)

	if len(statement.Operations.OutflowCategories) != 1 {
		t.Fatalf("expected one outflow category, got %d", len(statement.Operations.OutflowCategories))
	}
	group := statement.Operations.OutflowCategories[0]
	if group.CategoryName != "Food" || !group.Percentage.Equal(hundred) {
		t.Fatalf("expected Food at 100%%, got %s at %s", group.CategoryName, group.Percentage)
	}
}
