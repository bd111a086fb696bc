package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"example.com/finance-tracker/backend/internal/models"
	"example.com/finance-tracker/backend/internal/timezone"
)

// Источники данных движка. Реализуются репозиториями; все даты на этой
// границе: календарные дни в зоне пользователя из контекста запроса.

type TransactionSource interface {
	ListByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Transaction, error)
}

type CategorySource interface {
	MapByUser(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]models.TransactionCategory, error)
}

type AssetSource interface {
	ListActive(ctx context.Context, userID uuid.UUID) ([]models.Asset, error)
	ListActiveAsOf(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]models.Asset, error)
	ListAcquiredBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Asset, error)
	ListDeactivatedBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Asset, error)
}

type DebtSource interface {
	ListActive(ctx context.Context, userID uuid.UUID) ([]models.Debt, error)
	ListActiveAsOf(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]models.Debt, error)
	ListStartedBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Debt, error)
	ListPaidBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.Debt, error)
}

type AccountSource interface {
	SumActiveBalances(ctx context.Context, userID uuid.UUID, asOf time.Time) (decimal.Decimal, error)
}

type SnapshotSource interface {
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (models.FinancialSnapshot, bool, error)
	Upsert(ctx context.Context, snapshot models.FinancialSnapshot) (models.FinancialSnapshot, error)
}

type RecurringSource interface {
	ListActiveIncomeSources(ctx context.Context, userID uuid.UUID) ([]models.IncomeSource, error)
	ListActiveRecurringExpenses(ctx context.Context, userID uuid.UUID) ([]models.RecurringExpense, error)
}

// Service собирает финансовые отчеты поверх источников данных.
type Service struct {
	transactions TransactionSource
	categories   CategorySource
	assets       AssetSource
	debts        DebtSource
	accounts     AccountSource
	snapshots    SnapshotSource
	recurring    RecurringSource
	now          func() time.Time
}

// NewService создает движок отчетов.
func NewService(
	transactions TransactionSource,
	categories CategorySource,
	assets AssetSource,
	debts DebtSource,
	accounts AccountSource,
	snapshots SnapshotSource,
	recurring RecurringSource,
) *Service {
	return &Service{
		transactions: transactions,
		categories:   categories,
		assets:       assets,
		debts:        debts,
		accounts:     accounts,
		snapshots:    snapshots,
		recurring:    recurring,
		now:          time.Now,
	}
}

// IncomeStatement строит отчет о доходах и расходах за включительный период.
func (s *Service) IncomeStatement(ctx context.Context, userID uuid.UUID, start, end time.Time) (IncomeStatement, error) {
	transactions, err := s.transactions.ListByPeriod(ctx, userID, start, end)
	if err != nil {
		return IncomeStatement{}, err
	}

	categories, err := s.categories.MapByUser(ctx, userID)
	if err != nil {
		return IncomeStatement{}, err
	}

	return BuildIncomeStatement(Period{Start: start, End: end}, transactions, categories), nil
}

// BalanceSheet строит балансовый отчет на дату. Если на эту дату существует
// снимок, отчет восстанавливается из него без детализации; иначе пересчет.
func (s *Service) BalanceSheet(ctx context.Context, userID uuid.UUID, asOf time.Time) (BalanceSheet, error) {
	snapshot, found, err := s.snapshots.GetByDate(ctx, userID, asOf)
	if err != nil {
		return BalanceSheet{}, err
	}
	if found {
		return BalanceSheetFromSnapshot(snapshot), nil
	}

	return s.computeBalanceSheet(ctx, userID, asOf)
}

// CashFlowStatement строит отчет о движении денежных средств за период.
func (s *Service) CashFlowStatement(ctx context.Context, userID uuid.UUID, start, end time.Time) (CashFlowStatement, error) {
	transactions, err := s.transactions.ListByPeriod(ctx, userID, start, end)
	if err != nil {
		return CashFlowStatement{}, err
	}

	categories, err := s.categories.MapByUser(ctx, userID)
	if err != nil {
		return CashFlowStatement{}, err
	}

	purchased, err := s.assets.ListAcquiredBetween(ctx, userID, start, end)
	if err != nil {
		return CashFlowStatement{}, err
	}

	sold, err := s.assets.ListDeactivatedBetween(ctx, userID, start, end)
	if err != nil {
		return CashFlowStatement{}, err
	}

	borrowed, err := s.debts.ListStartedBetween(ctx, userID, start, end)
	if err != nil {
		return CashFlowStatement{}, err
	}

	repaid, err := s.debts.ListPaidBetween(ctx, userID, start, end)
	if err != nil {
		return CashFlowStatement{}, err
	}

	startingCash, err := s.accounts.SumActiveBalances(ctx, userID, start)
	if err != nil {
		return CashFlowStatement{}, err
	}

	period := Period{Start: start, End: end}
	return BuildCashFlowStatement(period, transactions, categories, purchased, sold, borrowed, repaid, startingCash), nil
}

// BudgetSummary сводит плановые регулярные потоки и операции текущего месяца.
func (s *Service) BudgetSummary(ctx context.Context, userID uuid.UUID) (BudgetSummary, error) {
	incomes, err := s.recurring.ListActiveIncomeSources(ctx, userID)
	if err != nil {
		return BudgetSummary{}, err
	}

	expenses, err := s.recurring.ListActiveRecurringExpenses(ctx, userID)
	if err != nil {
		return BudgetSummary{}, err
	}

	loc := timezone.FromContext(ctx)
	monthStart, monthEnd := timezone.MonthBounds(s.now().In(loc))

	transactions, err := s.transactions.ListByPeriod(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return BudgetSummary{}, err
	}

	categories, err := s.categories.MapByUser(ctx, userID)
	if err != nil {
		return BudgetSummary{}, err
	}

	return BuildBudgetSummary(incomes, expenses, transactions, categories), nil
}

// KPIs собирает дашборд-показатели из бюджетной сводки, активов и долгов.
func (s *Service) KPIs(ctx context.Context, userID uuid.UUID) (FinancialKPIs, error) {
	budget, err := s.BudgetSummary(ctx, userID)
	if err != nil {
		return FinancialKPIs{}, err
	}

	assets, err := s.assets.ListActive(ctx, userID)
	if err != nil {
		return FinancialKPIs{}, err
	}

	debts, err := s.debts.ListActive(ctx, userID)
	if err != nil {
		return FinancialKPIs{}, err
	}

	return BuildKPIs(budget, assets, debts), nil
}

// CreateSnapshot пересчитывает балансовый отчет на дату и сохраняет его
// агрегаты. Повторный вызов на ту же дату перезаписывает снимок.
func (s *Service) CreateSnapshot(ctx context.Context, userID uuid.UUID, date time.Time) (models.FinancialSnapshot, error) {
	sheet, err := s.computeBalanceSheet(ctx, userID, date)
	if err != nil {
		return models.FinancialSnapshot{}, err
	}

	cashBalance, err := s.accounts.SumActiveBalances(ctx, userID, date)
	if err != nil {
		return models.FinancialSnapshot{}, err
	}

	return s.snapshots.Upsert(ctx, SnapshotFromBalanceSheet(userID, sheet, cashBalance))
}

// Dashboard возвращает сводку всех отчетов за текущий месяц.
type Dashboard struct {
	IncomeStatement IncomeStatement   `json:"income_statement"`
	BalanceSheet    BalanceSheet      `json:"balance_sheet"`
	CashFlow        CashFlowStatement `json:"cash_flow"`
	Budget          BudgetSummary     `json:"budget"`
}

// Dashboard собирает четыре отчета параллельно: выборки только читают и
// пересекаются лишь по разделяемым на чтение данным.
func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (Dashboard, error) {
	loc := timezone.FromContext(ctx)
	today := s.now().In(loc)
	monthStart, monthEnd := timezone.MonthBounds(today)

	var dashboard Dashboard
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		statement, err := s.IncomeStatement(groupCtx, userID, monthStart, monthEnd)
		if err != nil {
			return err
		}
		dashboard.IncomeStatement = statement
		return nil
	})

	group.Go(func() error {
		sheet, err := s.BalanceSheet(groupCtx, userID, today)
		if err != nil {
			return err
		}
		dashboard.BalanceSheet = sheet
		return nil
	})

	group.Go(func() error {
		cashFlow, err := s.CashFlowStatement(groupCtx, userID, monthStart, monthEnd)
		if err != nil {
			return err
		}
		dashboard.CashFlow = cashFlow
		return nil
	})

	group.Go(func() error {
		budget, err := s.BudgetSummary(groupCtx, userID)
		if err != nil {
			return err
		}
		dashboard.Budget = budget
		return nil
	})

	if err := group.Wait(); err != nil {
		return Dashboard{}, err
	}

	return dashboard, nil
}

func (s *Service) computeBalanceSheet(ctx context.Context, userID uuid.UUID, asOf time.Time) (BalanceSheet, error) {
	assets, err := s.assets.ListActiveAsOf(ctx, userID, asOf)
	if err != nil {
		return BalanceSheet{}, err
	}

	debts, err := s.debts.ListActiveAsOf(ctx, userID, asOf)
	if err != nil {
		return BalanceSheet{}, err
	}

	avgExpenses, err := s.averageMonthlyExpenses(ctx, userID)
	if err != nil {
		return BalanceSheet{}, err
	}

	return BuildBalanceSheet(asOf, assets, debts, avgExpenses), nil
}

// averageMonthlyExpenses считает средний расход за последние три месяца от текущего
// момента, независимо от отчетной даты: база коэффициента ликвидности для
// сегодняшнего дашборда.
func (s *Service) averageMonthlyExpenses(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	loc := timezone.FromContext(ctx)
	end := s.now().In(loc)
	start := end.AddDate(0, -3, 0)

	transactions, err := s.transactions.ListByPeriod(ctx, userID, start, end)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, tx := range transactions {
		if tx.Type == models.TransactionTypeExpense {
			total = total.Add(tx.Amount)
		}
	}

	return total.Div(decimal.NewFromInt(3)), nil
}
