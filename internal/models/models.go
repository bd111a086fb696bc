package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

type FlowType string

type CategoryType string

type AssetType string

type DebtType string

type DebtStatus string

type Frequency string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"

	FlowTypeOperating FlowType = "operating"
	FlowTypeInvesting FlowType = "investing"
	FlowTypeFinancing FlowType = "financing"

	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeBoth    CategoryType = "both"

	AssetTypeLiquid   AssetType = "liquid"
	AssetTypeIlliquid AssetType = "illiquid"

	DebtTypeLoan       DebtType = "loan"
	DebtTypeMortgage   DebtType = "mortgage"
	DebtTypeCreditCard DebtType = "credit_card"
	DebtTypePersonal   DebtType = "personal"
	DebtTypeOther      DebtType = "other"

	DebtStatusActive DebtStatus = "active"
	DebtStatusPaid   DebtStatus = "paid"

	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyAnnual   Frequency = "annual"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	Timezone     string    `json:"timezone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Transaction описывает реализованную операцию. Поле Date всегда календарный день
// в зоне пользователя, время суток смысла не несет.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Description *string         `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	IsRecurring bool            `json:"is_recurring"`
	FlowType    *FlowType       `json:"flow_type,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type TransactionCategory struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Name      string       `json:"name"`
	Emoji     string       `json:"emoji"`
	Color     string       `json:"color"`
	Type      CategoryType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

// IncomeSource описывает запланированный регулярный доход, в отличие от реализованных Transaction.
type IncomeSource struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency Frequency       `json:"frequency"`
	Category  string          `json:"category"`
	IsActive  bool            `json:"is_active"`
	StartDate time.Time       `json:"start_date"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RecurringExpense описывает запланированный регулярный расход.
type RecurringExpense struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency Frequency       `json:"frequency"`
	Category  string          `json:"category"`
	IsActive  bool            `json:"is_active"`
	StartDate time.Time       `json:"start_date"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Asset деактивируется вместо удаления, чтобы исторические балансы оставались воспроизводимыми.
type Asset struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Name         string          `json:"name"`
	Value        decimal.Decimal `json:"value"`
	Type         AssetType       `json:"type"`
	Category     string          `json:"category"`
	IsActive     bool            `json:"is_active"`
	PurchaseDate *time.Time      `json:"purchase_date,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Debt struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Creditor        string          `json:"creditor"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	MonthlyPayment  decimal.Decimal `json:"monthly_payment"`
	AnnualRate      decimal.Decimal `json:"annual_rate"`
	Type            DebtType        `json:"type"`
	Status          DebtStatus      `json:"status"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	PaidDate        *time.Time      `json:"paid_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Account описывает балансовый счет, источник стартового остатка денег в отчете о движении.
type Account struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Name           string          `json:"name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FinancialSnapshot хранит сохраненный агрегат балансового отчета, один на (пользователь, дата).
type FinancialSnapshot struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"user_id"`
	Date                 time.Time       `json:"date"`
	TotalAssets          decimal.Decimal `json:"total_assets"`
	LiquidAssets         decimal.Decimal `json:"liquid_assets"`
	IlliquidAssets       decimal.Decimal `json:"illiquid_assets"`
	TotalLiabilities     decimal.Decimal `json:"total_liabilities"`
	ShortTermLiabilities decimal.Decimal `json:"short_term_liabilities"`
	LongTermLiabilities  decimal.Decimal `json:"long_term_liabilities"`
	Equity               decimal.Decimal `json:"equity"`
	CashBalance          decimal.Decimal `json:"cash_balance"`
	NetWorth             decimal.Decimal `json:"net_worth"`
	CreatedAt            time.Time       `json:"created_at"`
}

type Goal struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    *time.Time      `json:"target_date,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}
