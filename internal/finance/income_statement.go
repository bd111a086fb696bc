package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

// Period задает включительный диапазон календарных дат в зоне пользователя.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StatementSection описывает одну сторону отчета: разбивку по категориям и ее итог.
type StatementSection struct {
	Categories []CategoryBreakdown `json:"categories"`
	Total      decimal.Decimal     `json:"total"`
}

type IncomeStatement struct {
	Period          Period           `json:"period"`
	Revenue         StatementSection `json:"revenue"`
	Expenses        StatementSection `json:"expenses"`
	NetIncome       decimal.Decimal  `json:"net_income"`
	NetIncomeMargin decimal.Decimal  `json:"net_income_margin"`
}

// BuildIncomeStatement разбивает операции периода на доходы и расходы.
// Доли категорий считаются от итога своей стороны, маржа равна нулю при нулевой выручке.
func BuildIncomeStatement(period Period, transactions []models.Transaction, categories map[uuid.UUID]models.TransactionCategory) IncomeStatement {
	var revenue, expenses []models.Transaction
	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionTypeIncome:
			revenue = append(revenue, tx)
		case models.TransactionTypeExpense:
			expenses = append(expenses, tx)
		}
	}

	revenueTotal := SumAmounts(revenue)
	expenseTotal := SumAmounts(expenses)
	netIncome := revenueTotal.Sub(expenseTotal)

	return IncomeStatement{
		Period: period,
		Revenue: StatementSection{
			Categories: BreakdownByCategory(revenue, categories, revenueTotal),
			Total:      revenueTotal,
		},
		Expenses: StatementSection{
			Categories: BreakdownByCategory(expenses, categories, expenseTotal),
			Total:      expenseTotal,
		},
		NetIncome:       netIncome,
		NetIncomeMargin: percentageOf(netIncome, revenueTotal),
	}
}
