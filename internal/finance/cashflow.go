package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/finance-tracker/backend/internal/models"
)

// FlowDetail описывает одно событие инвестиционного или финансового потока.
type FlowDetail struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

type OperatingFlow struct {
	Inflows           decimal.Decimal     `json:"inflows"`
	Outflows          decimal.Decimal     `json:"outflows"`
	Net               decimal.Decimal     `json:"net"`
	InflowCategories  []CategoryBreakdown `json:"inflow_categories"`
	OutflowCategories []CategoryBreakdown `json:"outflow_categories"`
}

type InvestingFlow struct {
	Purchases       decimal.Decimal `json:"purchases"`
	Sales           decimal.Decimal `json:"sales"`
	Net             decimal.Decimal `json:"net"`
	PurchaseDetails []FlowDetail    `json:"purchase_details"`
	SaleDetails     []FlowDetail    `json:"sale_details"`
}

type FinancingFlow struct {
	Borrowing        decimal.Decimal `json:"borrowing"`
	Repayment        decimal.Decimal `json:"repayment"`
	Net              decimal.Decimal `json:"net"`
	BorrowingDetails []FlowDetail    `json:"borrowing_details"`
	RepaymentDetails []FlowDetail    `json:"repayment_details"`
}

type CashFlowStatement struct {
	Period       Period          `json:"period"`
	Operations   OperatingFlow   `json:"operations"`
	Investing    InvestingFlow   `json:"investing"`
	Financing    FinancingFlow   `json:"financing"`
	NetCashFlow  decimal.Decimal `json:"net_cash_flow"`
	StartingCash decimal.Decimal `json:"starting_cash"`
	EndingCash   decimal.Decimal `json:"ending_cash"`
}

// BuildCashFlowStatement сводит три независимых потока периода.
// Операционный: операции без flow_type или с flow_type=operating.
// Инвестиционный: купленные в периоде активы как отток, деактивированные как
// продажа по последней известной стоимости, отдельного поля цены продажи нет.
// Финансовый: открытые долги как заимствование и погашенные как выплата,
// обе стороны по полной сумме обязательства.
func BuildCashFlowStatement(
	period Period,
	transactions []models.Transaction,
	categories map[uuid.UUID]models.TransactionCategory,
	purchasedAssets []models.Asset,
	soldAssets []models.Asset,
	borrowedDebts []models.Debt,
	repaidDebts []models.Debt,
	startingCash decimal.Decimal,
) CashFlowStatement {
	operations := buildOperatingFlow(transactions, categories)
	investing := buildInvestingFlow(purchasedAssets, soldAssets)
	financing := buildFinancingFlow(borrowedDebts, repaidDebts)

	netCashFlow := operations.Net.Add(investing.Net).Add(financing.Net)

	return CashFlowStatement{
		Period:       period,
		Operations:   operations,
		Investing:    investing,
		Financing:    financing,
		NetCashFlow:  netCashFlow,
		StartingCash: startingCash,
		EndingCash:   startingCash.Add(netCashFlow),
	}
}

func buildOperatingFlow(transactions []models.Transaction, categories map[uuid.UUID]models.TransactionCategory) OperatingFlow {
	var inflows, outflows []models.Transaction
	for _, tx := range transactions {
		if tx.FlowType != nil && *tx.FlowType != models.FlowTypeOperating {
			continue
		}

		switch tx.Type {
		case models.TransactionTypeIncome:
			inflows = append(inflows, tx)
		case models.TransactionTypeExpense:
			outflows = append(outflows, tx)
		}
	}

	inflowTotal := SumAmounts(inflows)
	outflowTotal := SumAmounts(outflows)

	return OperatingFlow{
		Inflows:           inflowTotal,
		Outflows:          outflowTotal,
		Net:               inflowTotal.Sub(outflowTotal),
		InflowCategories:  BreakdownByCategory(inflows, categories, inflowTotal),
		OutflowCategories: BreakdownByCategory(outflows, categories, outflowTotal),
	}
}

func buildInvestingFlow(purchased, sold []models.Asset) InvestingFlow {
	purchases := decimal.Zero
	purchaseDetails := make([]FlowDetail, 0, len(purchased))
	for _, asset := range purchased {
		purchases = purchases.Add(asset.Value)
		purchaseDetails = append(purchaseDetails, FlowDetail{
			Name:   asset.Name,
			Amount: asset.Value,
			Date:   asset.CreatedAt,
		})
	}

	sales := decimal.Zero
	saleDetails := make([]FlowDetail, 0, len(sold))
	for _, asset := range sold {
		sales = sales.Add(asset.Value)
		saleDetails = append(saleDetails, FlowDetail{
			Name:   asset.Name,
			Amount: asset.Value,
			Date:   asset.UpdatedAt,
		})
	}

	return InvestingFlow{
		Purchases:       purchases,
		Sales:           sales,
		Net:             sales.Sub(purchases),
		PurchaseDetails: purchaseDetails,
		SaleDetails:     saleDetails,
	}
}

func buildFinancingFlow(borrowed, repaid []models.Debt) FinancingFlow {
	borrowing := decimal.Zero
	borrowingDetails := make([]FlowDetail, 0, len(borrowed))
	for _, debt := range borrowed {
		borrowing = borrowing.Add(debt.TotalAmount)
		borrowingDetails = append(borrowingDetails, FlowDetail{
			Name:   debt.Creditor,
			Amount: debt.TotalAmount,
			Date:   debt.StartDate,
		})
	}

	repayment := decimal.Zero
	repaymentDetails := make([]FlowDetail, 0, len(repaid))
	for _, debt := range repaid {
		// Погашение учитывается полной суммой обязательства: закрыт весь долг.
		repayment = repayment.Add(debt.TotalAmount)
		detail := FlowDetail{Name: debt.Creditor, Amount: debt.TotalAmount}
		if debt.PaidDate != nil {
			detail.Date = *debt.PaidDate
		}
		repaymentDetails = append(repaymentDetails, detail)
	}

	return FinancingFlow{
		Borrowing:        borrowing,
		Repayment:        repayment,
		Net:              borrowing.Sub(repayment),
		BorrowingDetails: borrowingDetails,
		RepaymentDetails: repaymentDetails,
	}
}
