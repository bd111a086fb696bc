package finance

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

// Множители приведения к месячному эквиваленту: средние количества
// периодов в месяце, сознательно не календарно-точные.
var (
	weeksPerMonth   = decimal.RequireFromString("4.33")
	biweeksPerMonth = decimal.RequireFromString("2.17")
	monthsPerYear   = decimal.NewFromInt(12)
)

// Плановые категории бюджета.
const (
	BudgetCategoryHousing        = "housing"
	BudgetCategoryFood           = "food"
	BudgetCategoryTransportation = "transportation"
	BudgetCategoryUtilities      = "utilities"
	BudgetCategoryEntertainment  = "entertainment"
	BudgetCategoryHealth         = "health"
	BudgetCategoryDebt           = "debt"
	BudgetCategoryOther          = "other"

	BudgetCategorySalary      = "salary"
	BudgetCategoryBusiness    = "business"
	BudgetCategoryInvestments = "investments"
)

// Соответствие свободных имен категорий операций плановым категориям.
// Имя без записи здесь и без точного совпадения с плановым ключом
// образует собственный бакет, данные не теряются.
var expenseCategoryAliases = map[string]string{
	"rent":          BudgetCategoryHousing,
	"mortgage":      BudgetCategoryHousing,
	"housing":       BudgetCategoryHousing,
	"groceries":     BudgetCategoryFood,
	"food":          BudgetCategoryFood,
	"restaurants":   BudgetCategoryFood,
	"dining":        BudgetCategoryFood,
	"gas":           BudgetCategoryTransportation,
	"fuel":          BudgetCategoryTransportation,
	"transport":     BudgetCategoryTransportation,
	"parking":       BudgetCategoryTransportation,
	"electricity":   BudgetCategoryUtilities,
	"water":         BudgetCategoryUtilities,
	"internet":      BudgetCategoryUtilities,
	"phone":         BudgetCategoryUtilities,
	"streaming":     BudgetCategoryEntertainment,
	"subscriptions": BudgetCategoryEntertainment,
	"movies":        BudgetCategoryEntertainment,
	"pharmacy":      BudgetCategoryHealth,
	"doctor":        BudgetCategoryHealth,
	"insurance":     BudgetCategoryHealth,
	"loan":          BudgetCategoryDebt,
	"credit card":   BudgetCategoryDebt,
}

var incomeCategoryAliases = map[string]string{
	"salary":    BudgetCategorySalary,
	"paycheck":  BudgetCategorySalary,
	"wages":     BudgetCategorySalary,
	"freelance": BudgetCategoryBusiness,
	"side gig":  BudgetCategoryBusiness,
	"dividends": BudgetCategoryInvestments,
	"interest":  BudgetCategoryInvestments,
}

// BudgetCategorySummary объединяет плановые и фактические суммы одного бакета.
type BudgetCategorySummary struct {
	Key        string          `json:"key"`
	Planned    decimal.Decimal `json:"planned"`
	Actual     decimal.Decimal `json:"actual"`
	Percentage decimal.Decimal `json:"percentage"`
}

type BudgetSummary struct {
	TotalMonthlyIncome    decimal.Decimal         `json:"total_monthly_income"`
	TotalMonthlyExpenses  decimal.Decimal         `json:"total_monthly_expenses"`
	ActualMonthlyExpenses decimal.Decimal         `json:"actual_monthly_expenses"`
	AvailableBalance      decimal.Decimal         `json:"available_balance"`
	SavingsRate           decimal.Decimal         `json:"savings_rate"`
	ExpensesByCategory    []BudgetCategorySummary `json:"expenses_by_category"`
	IncomeByCategory      []BudgetCategorySummary `json:"income_by_category"`
}

// MonthlyEquivalent приводит сумму с произвольной периодичностью к месячной.
func MonthlyEquivalent(amount decimal.Decimal, frequency models.Frequency) decimal.Decimal {
	switch frequency {
	case models.FrequencyWeekly:
		return amount.Mul(weeksPerMonth)
	case models.FrequencyBiweekly:
		return amount.Mul(biweeksPerMonth)
	case models.FrequencyAnnual:
		return amount.Div(monthsPerYear)
	default:
		return amount
	}
}

// BuildBudgetSummary сводит плановые регулярные потоки и фактические операции
// текущего месяца в единую сводку бюджета. AvailableBalance и SavingsRate
// считаются от плановых величин; нулевой плановый доход дает нулевую норму
// сбережений, а не NaN.
func BuildBudgetSummary(
	incomes []models.IncomeSource,
	expenses []models.RecurringExpense,
	monthTransactions []models.Transaction,
	categories map[uuid.UUID]models.TransactionCategory,
) BudgetSummary {
	plannedExpenses := newBudgetLedger()
	plannedIncome := newBudgetLedger()

	for _, expense := range expenses {
		plannedExpenses.addPlanned(expense.Category, MonthlyEquivalent(expense.Amount, expense.Frequency))
	}
	for _, income := range incomes {
		plannedIncome.addPlanned(income.Category, MonthlyEquivalent(income.Amount, income.Frequency))
	}

	actualExpenseTotal := decimal.Zero
	for _, tx := range monthTransactions {
		name := UncategorizedName
		if tx.CategoryID != nil {
			if category, ok := categories[*tx.CategoryID]; ok {
				name = category.Name
			}
		}

		switch tx.Type {
		case models.TransactionTypeExpense:
			plannedExpenses.addActual(name, expenseCategoryAliases, tx.Amount)
			actualExpenseTotal = actualExpenseTotal.Add(tx.Amount)
		case models.TransactionTypeIncome:
			plannedIncome.addActual(name, incomeCategoryAliases, tx.Amount)
		}
	}

	totalMonthlyIncome := plannedIncome.plannedTotal()
	totalMonthlyExpenses := plannedExpenses.plannedTotal()
	availableBalance := totalMonthlyIncome.Sub(totalMonthlyExpenses)

	return BudgetSummary{
		TotalMonthlyIncome:    totalMonthlyIncome,
		TotalMonthlyExpenses:  totalMonthlyExpenses,
		ActualMonthlyExpenses: actualExpenseTotal,
		AvailableBalance:      availableBalance,
		SavingsRate:           percentageOf(availableBalance, totalMonthlyIncome),
		ExpensesByCategory:    plannedExpenses.summaries(totalMonthlyExpenses),
		IncomeByCategory:      plannedIncome.summaries(totalMonthlyIncome),
	}
}

type budgetLedger struct {
	buckets map[string]*BudgetCategorySummary
	order   []string
}

func newBudgetLedger() *budgetLedger {
	return &budgetLedger{buckets: make(map[string]*BudgetCategorySummary)}
}

func (l *budgetLedger) bucket(key string) *BudgetCategorySummary {
	if existing, ok := l.buckets[key]; ok {
		return existing
	}

	created := &BudgetCategorySummary{Key: key, Planned: decimal.Zero, Actual: decimal.Zero}
	l.buckets[key] = created
	l.order = append(l.order, key)
	return created
}

func (l *budgetLedger) addPlanned(key string, amount decimal.Decimal) {
	b := l.bucket(key)
	b.Planned = b.Planned.Add(amount)
}

// addActual раскладывает фактическую сумму по плановому ключу: сначала таблица
// соответствий, затем точное совпадение имени с существующим бакетом, иначе
// новый бакет под собственным именем.
func (l *budgetLedger) addActual(name string, aliases map[string]string, amount decimal.Decimal) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	key, ok := aliases[normalized]
	if !ok {
		if _, exists := l.buckets[normalized]; exists {
			key = normalized
		} else {
			key = name
		}
	}

	b := l.bucket(key)
	b.Actual = b.Actual.Add(amount)
}

func (l *budgetLedger) plannedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, b := range l.buckets {
		total = total.Add(b.Planned)
	}
	return total
}

func (l *budgetLedger) summaries(base decimal.Decimal) []BudgetCategorySummary {
	result := make([]BudgetCategorySummary, 0, len(l.order))
	for _, key := range l.order {
		b := *l.buckets[key]
		b.Percentage = percentageOf(b.Planned, base)
		result = append(result, b)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Planned.Add(result[i].Actual).GreaterThan(result[j].Planned.Add(result[j].Actual))
	})

	return result
}
