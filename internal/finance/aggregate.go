package finance

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

// Бакет для операций без категории.
const (
	UncategorizedName  = "Uncategorized"
	UncategorizedEmoji = "📁"
)

var hundred = decimal.NewFromInt(100)

// CategoryBreakdown хранит сгруппированный денежный итог с долей от базы,
// общий выходной формат всех построителей отчетов.
type CategoryBreakdown struct {
	CategoryID       uuid.UUID            `json:"category_id"`
	CategoryName     string               `json:"category_name"`
	Emoji            string               `json:"emoji"`
	Amount           decimal.Decimal      `json:"amount"`
	Percentage       decimal.Decimal      `json:"percentage"`
	TransactionCount int                  `json:"transaction_count"`
	Transactions     []models.Transaction `json:"transactions,omitempty"`
}

// BreakdownByCategory группирует операции по категориям и считает долю каждой
// группы от базы base. База передается вызывающим: для отчета о прибылях это
// итог соответствующей стороны, не сумма всей выборки. При нулевой базе все
// доли равны нулю. Результат отсортирован по убыванию суммы.
func BreakdownByCategory(transactions []models.Transaction, categories map[uuid.UUID]models.TransactionCategory, base decimal.Decimal) []CategoryBreakdown {
	groups := make(map[uuid.UUID]*CategoryBreakdown)
	order := make([]uuid.UUID, 0)

	for _, tx := range transactions {
		key := uuid.Nil
		if tx.CategoryID != nil {
			key = *tx.CategoryID
		}

		group, ok := groups[key]
		if !ok {
			group = &CategoryBreakdown{
				CategoryID:   key,
				CategoryName: UncategorizedName,
				Emoji:        UncategorizedEmoji,
				Amount:       decimal.Zero,
			}
			if category, found := categories[key]; found {
				group.CategoryName = category.Name
				group.Emoji = category.Emoji
			}
			groups[key] = group
			order = append(order, key)
		}

		group.Amount = group.Amount.Add(tx.Amount)
		group.TransactionCount++
		group.Transactions = append(group.Transactions, tx)
	}

	result := make([]CategoryBreakdown, 0, len(order))
	for _, key := range order {
		group := groups[key]
		group.Percentage = percentageOf(group.Amount, base)
		result = append(result, *group)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Amount.GreaterThan(result[j].Amount)
	})

	return result
}

// SumAmounts возвращает сумму операций списка.
func SumAmounts(transactions []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount)
	}
	return total
}

// percentageOf считает долю amount от base в процентах.
// Нулевая база дает 0, а не деление на ноль.
func percentageOf(amount, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return amount.Div(base).Mul(hundred)
}
