package finance

import (
	"sort"

	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

// DebtTypeBreakdown хранит долг одного типа с долей от общего долга.
type DebtTypeBreakdown struct {
	Type       models.DebtType `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
	Count      int             `json:"count"`
}

// FinancialKPIs содержит плоский набор показателей для дашборда, композицию
// бюджетной сводки, активов и активных долгов.
type FinancialKPIs struct {
	TotalAssets          decimal.Decimal     `json:"total_assets"`
	LiquidAssets         decimal.Decimal     `json:"liquid_assets"`
	IlliquidAssets       decimal.Decimal     `json:"illiquid_assets"`
	LiquidPercentage     decimal.Decimal     `json:"liquid_percentage"`
	IlliquidPercentage   decimal.Decimal     `json:"illiquid_percentage"`
	TotalDebt            decimal.Decimal     `json:"total_debt"`
	DebtByType           []DebtTypeBreakdown `json:"debt_by_type"`
	MonthlyDebtPayments  decimal.Decimal     `json:"monthly_debt_payments"`
	TotalMonthlyIncome   decimal.Decimal     `json:"total_monthly_income"`
	TotalMonthlyExpenses decimal.Decimal     `json:"total_monthly_expenses"`
	SavingsRate          decimal.Decimal     `json:"savings_rate"`
	SolvencyRatio        decimal.Decimal     `json:"solvency_ratio"`
}

// BuildKPIs собирает показатели платежеспособности и распределения долга.
// Коэффициент платежеспособности: ликвидные активы к месячным обязательствам
// (плановые расходы плюс платежи по долгам), ноль при нулевом знаменателе.
func BuildKPIs(budget BudgetSummary, assets []models.Asset, debts []models.Debt) FinancialKPIs {
	liquid := decimal.Zero
	illiquid := decimal.Zero
	for _, asset := range assets {
		if asset.Type == models.AssetTypeLiquid {
			liquid = liquid.Add(asset.Value)
		} else {
			illiquid = illiquid.Add(asset.Value)
		}
	}
	totalAssets := liquid.Add(illiquid)

	totalDebt := decimal.Zero
	monthlyPayments := decimal.Zero
	byType := make(map[models.DebtType]*DebtTypeBreakdown)
	typeOrder := make([]models.DebtType, 0)
	for _, debt := range debts {
		totalDebt = totalDebt.Add(debt.RemainingAmount)
		monthlyPayments = monthlyPayments.Add(debt.MonthlyPayment)

		group, ok := byType[debt.Type]
		if !ok {
			group = &DebtTypeBreakdown{Type: debt.Type, Amount: decimal.Zero}
			byType[debt.Type] = group
			typeOrder = append(typeOrder, debt.Type)
		}
		group.Amount = group.Amount.Add(debt.RemainingAmount)
		group.Count++
	}

	debtByType := make([]DebtTypeBreakdown, 0, len(typeOrder))
	for _, debtType := range typeOrder {
		group := *byType[debtType]
		group.Percentage = percentageOf(group.Amount, totalDebt)
		debtByType = append(debtByType, group)
	}
	sort.SliceStable(debtByType, func(i, j int) bool {
		return debtByType[i].Amount.GreaterThan(debtByType[j].Amount)
	})

	monthlyObligations := budget.TotalMonthlyExpenses.Add(monthlyPayments)

	return FinancialKPIs{
		TotalAssets:          totalAssets,
		LiquidAssets:         liquid,
		IlliquidAssets:       illiquid,
		LiquidPercentage:     percentageOf(liquid, totalAssets),
		IlliquidPercentage:   percentageOf(illiquid, totalAssets),
		TotalDebt:            totalDebt,
		DebtByType:           debtByType,
		MonthlyDebtPayments:  monthlyPayments,
		TotalMonthlyIncome:   budget.TotalMonthlyIncome,
		TotalMonthlyExpenses: budget.TotalMonthlyExpenses,
		SavingsRate:          budget.SavingsRate,
		SolvencyRatio:        safeDiv(liquid, monthlyObligations),
	}
}
