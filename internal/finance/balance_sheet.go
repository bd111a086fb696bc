package finance

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

// BalanceSheetSource показывает, каким путем построен отчет: пересчетом
// или восстановлением из сохраненного снимка (без детализации по позициям).
type BalanceSheetSource string

const (
	BalanceSheetComputed BalanceSheetSource = "computed"
	BalanceSheetSnapshot BalanceSheetSource = "snapshot"
)

type AssetEntry struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

type DebtEntry struct {
	ID             uuid.UUID       `json:"id"`
	Creditor       string          `json:"creditor"`
	Type           models.DebtType `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Percentage     decimal.Decimal `json:"percentage"`
}

type BalanceSheetAssets struct {
	Liquid        []AssetEntry    `json:"liquid"`
	Illiquid      []AssetEntry    `json:"illiquid"`
	LiquidTotal   decimal.Decimal `json:"liquid_total"`
	IlliquidTotal decimal.Decimal `json:"illiquid_total"`
	Total         decimal.Decimal `json:"total"`
}

type BalanceSheetLiabilities struct {
	Current       []DebtEntry     `json:"current"`
	LongTerm      []DebtEntry     `json:"long_term"`
	CurrentTotal  decimal.Decimal `json:"current_total"`
	LongTermTotal decimal.Decimal `json:"long_term_total"`
	Total         decimal.Decimal `json:"total"`
}

type BalanceSheetRatios struct {
	DebtToAssets    decimal.Decimal `json:"debt_to_assets"`
	CurrentRatio    decimal.Decimal `json:"current_ratio"`
	LiquidityMonths decimal.Decimal `json:"liquidity_months"`
}

// BalanceSheet: NetWorth и Equity дублируют одно значение под двумя именами,
// дашборд и бухгалтерская лексика соответственно.
type BalanceSheet struct {
	Date        time.Time               `json:"date"`
	Source      BalanceSheetSource      `json:"source"`
	Assets      BalanceSheetAssets      `json:"assets"`
	Liabilities BalanceSheetLiabilities `json:"liabilities"`
	Equity      decimal.Decimal         `json:"equity"`
	NetWorth    decimal.Decimal         `json:"net_worth"`
	Ratios      BalanceSheetRatios      `json:"ratios"`
}

// IsCurrentDebt относит долг к краткосрочным: срок погашения задан и наступает
// не позднее года от отчетной даты, граница включительно. Долг без срока
// всегда долгосрочный.
func IsCurrentDebt(debt models.Debt, asOf time.Time) bool {
	if debt.EndDate == nil {
		return false
	}
	return !debt.EndDate.After(asOf.AddDate(1, 0, 0))
}

// BuildBalanceSheet строит балансовый отчет на дату из активов и долгов.
// avgMonthlyExpenses хранит средний расход за последние три месяца, базу
// коэффициента ликвидности.
func BuildBalanceSheet(asOf time.Time, assets []models.Asset, debts []models.Debt, avgMonthlyExpenses decimal.Decimal) BalanceSheet {
	var liquid, illiquid []models.Asset
	for _, asset := range assets {
		if asset.Type == models.AssetTypeLiquid {
			liquid = append(liquid, asset)
		} else {
			illiquid = append(illiquid, asset)
		}
	}

	var current, longTerm []models.Debt
	for _, debt := range debts {
		if IsCurrentDebt(debt, asOf) {
			current = append(current, debt)
		} else {
			longTerm = append(longTerm, debt)
		}
	}

	liquidTotal := sumAssetValues(liquid)
	illiquidTotal := sumAssetValues(illiquid)
	assetTotal := liquidTotal.Add(illiquidTotal)

	currentTotal := sumDebtBalances(current)
	longTermTotal := sumDebtBalances(longTerm)
	liabilityTotal := currentTotal.Add(longTermTotal)

	netWorth := assetTotal.Sub(liabilityTotal)

	return BalanceSheet{
		Date:   asOf,
		Source: BalanceSheetComputed,
		Assets: BalanceSheetAssets{
			Liquid:        assetEntries(liquid, liquidTotal),
			Illiquid:      assetEntries(illiquid, illiquidTotal),
			LiquidTotal:   liquidTotal,
			IlliquidTotal: illiquidTotal,
			Total:         assetTotal,
		},
		Liabilities: BalanceSheetLiabilities{
			Current:       debtEntries(current, currentTotal),
			LongTerm:      debtEntries(longTerm, longTermTotal),
			CurrentTotal:  currentTotal,
			LongTermTotal: longTermTotal,
			Total:         liabilityTotal,
		},
		Equity:   netWorth,
		NetWorth: netWorth,
		Ratios: BalanceSheetRatios{
			DebtToAssets:    safeDiv(liabilityTotal, assetTotal),
			CurrentRatio:    safeDiv(liquidTotal, currentTotal),
			LiquidityMonths: safeDiv(liquidTotal, avgMonthlyExpenses),
		},
	}
}

// BalanceSheetFromSnapshot восстанавливает отчет из сохраненного снимка.
// Детализация по позициям в снимке отсутствует, остаются только агрегаты.
func BalanceSheetFromSnapshot(snapshot models.FinancialSnapshot) BalanceSheet {
	return BalanceSheet{
		Date:   snapshot.Date,
		Source: BalanceSheetSnapshot,
		Assets: BalanceSheetAssets{
			Liquid:        []AssetEntry{},
			Illiquid:      []AssetEntry{},
			LiquidTotal:   snapshot.LiquidAssets,
			IlliquidTotal: snapshot.IlliquidAssets,
			Total:         snapshot.TotalAssets,
		},
		Liabilities: BalanceSheetLiabilities{
			Current:       []DebtEntry{},
			LongTerm:      []DebtEntry{},
			CurrentTotal:  snapshot.ShortTermLiabilities,
			LongTermTotal: snapshot.LongTermLiabilities,
			Total:         snapshot.TotalLiabilities,
		},
		Equity:   snapshot.Equity,
		NetWorth: snapshot.NetWorth,
		Ratios: BalanceSheetRatios{
			DebtToAssets: safeDiv(snapshot.TotalLiabilities, snapshot.TotalAssets),
			CurrentRatio: safeDiv(snapshot.LiquidAssets, snapshot.ShortTermLiabilities),
		},
	}
}

// SnapshotFromBalanceSheet собирает персистентный снимок из агрегатов отчета.
func SnapshotFromBalanceSheet(userID uuid.UUID, sheet BalanceSheet, cashBalance decimal.Decimal) models.FinancialSnapshot {
	return models.FinancialSnapshot{
		UserID:               userID,
		Date:                 sheet.Date,
		TotalAssets:          sheet.Assets.Total,
		LiquidAssets:         sheet.Assets.LiquidTotal,
		IlliquidAssets:       sheet.Assets.IlliquidTotal,
		TotalLiabilities:     sheet.Liabilities.Total,
		ShortTermLiabilities: sheet.Liabilities.CurrentTotal,
		LongTermLiabilities:  sheet.Liabilities.LongTermTotal,
		Equity:               sheet.Equity,
		CashBalance:          cashBalance,
		NetWorth:             sheet.NetWorth,
	}
}

func sumAssetValues(assets []models.Asset) decimal.Decimal {
	total := decimal.Zero
	for _, asset := range assets {
		total = total.Add(asset.Value)
	}
	return total
}

func sumDebtBalances(debts []models.Debt) decimal.Decimal {
	total := decimal.Zero
	for _, debt := range debts {
		total = total.Add(debt.RemainingAmount)
	}
	return total
}

func assetEntries(assets []models.Asset, groupTotal decimal.Decimal) []AssetEntry {
	entries := make([]AssetEntry, 0, len(assets))
	for _, asset := range assets {
		entries = append(entries, AssetEntry{
			ID:         asset.ID,
			Name:       asset.Name,
			Category:   asset.Category,
			Value:      asset.Value,
			Percentage: percentageOf(asset.Value, groupTotal),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value.GreaterThan(entries[j].Value)
	})

	return entries
}

func debtEntries(debts []models.Debt, groupTotal decimal.Decimal) []DebtEntry {
	entries := make([]DebtEntry, 0, len(debts))
	for _, debt := range debts {
		entries = append(entries, DebtEntry{
			ID:             debt.ID,
			Creditor:       debt.Creditor,
			Type:           debt.Type,
			Balance:        debt.RemainingAmount,
			MonthlyPayment: debt.MonthlyPayment,
			Percentage:     percentageOf(debt.RemainingAmount, groupTotal),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Balance.GreaterThan(entries[j].Balance)
	})

	return entries
}

// safeDiv делит с нулевым результатом при нулевом знаменателе.
func safeDiv(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator)
}
