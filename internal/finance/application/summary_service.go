package application

import (
	"context"
	"sort"
	"time"

	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
)

const defaultSummaryDays = 30
const uncategorizedName = "Uncategorized"

type Summary struct {
	RemainingAmount int64             `json:"remainingAmount"`
	RemainingChange float64           `json:"remainingChange"`
	IncomeAmount    int64             `json:"incomeAmount"`
	IncomeChange    float64           `json:"incomeChange"`
	ExpensesAmount  int64             `json:"expensesAmount"`
	ExpensesChange  float64           `json:"expensesChange"`
	Categories      []CategorySummary `json:"categories"`
	Days            []DaySummary      `json:"days"`
}

type CategorySummary struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type DaySummary struct {
	Date     string `json:"date"`
	Income   int64  `json:"income"`
	Expenses int64  `json:"expenses"`
}

type SummaryService struct {
	repo domain.TransactionRepository
}

func NewSummaryService(repo domain.TransactionRepository) *SummaryService {
	return &SummaryService{repo: repo}
}

// GetSummary aggregates the caller's transactions over the requested period
// and compares the totals against the preceding period of equal length. The
// period defaults to the last 30 days.
func (s *SummaryService) GetSummary(ctx context.Context, userID string, from, to time.Time, accountID string) (*Summary, error) {
	if to.IsZero() {
		now := time.Now().UTC()
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultSummaryDays)
	}

	periodDays := int(to.Sub(from).Hours()/24) + 1
	previousFrom := from.AddDate(0, 0, -periodDays)
	previousTo := to.AddDate(0, 0, -periodDays)

	current, err := s.repo.FindByUser(ctx, userID, domain.TransactionFilter{From: from, To: to, AccountID: accountID})
	if err != nil {
		return nil, err
	}
	previous, err := s.repo.FindByUser(ctx, userID, domain.TransactionFilter{From: previousFrom, To: previousTo, AccountID: accountID})
	if err != nil {
		return nil, err
	}

	currentIncome, currentExpenses := periodTotals(current)
	previousIncome, previousExpenses := periodTotals(previous)
	currentRemaining := currentIncome + currentExpenses
	previousRemaining := previousIncome + previousExpenses

	return &Summary{
		RemainingAmount: currentRemaining,
		RemainingChange: percentageChange(currentRemaining, previousRemaining),
		IncomeAmount:    currentIncome,
		IncomeChange:    percentageChange(currentIncome, previousIncome),
		ExpensesAmount:  currentExpenses,
		ExpensesChange:  percentageChange(currentExpenses, previousExpenses),
		Categories:      topCategories(current),
		Days:            dailySeries(current, from, to),
	}, nil
}

func periodTotals(transactions []domain.TransactionDetail) (income, expenses int64) {
	for _, transaction := range transactions {
		if transaction.Amount >= 0 {
			income += transaction.Amount
		} else {
			expenses += transaction.Amount
		}
	}
	return income, expenses
}

func percentageChange(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}

// topCategories buckets expenses by category name, keeps the three largest
// and folds the rest into "Other".
func topCategories(transactions []domain.TransactionDetail) []CategorySummary {
	totals := make(map[string]int64)
	for _, transaction := range transactions {
		if transaction.Amount >= 0 {
			continue
		}
		name := uncategorizedName
		if transaction.Category != nil {
			name = *transaction.Category
		}
		totals[name] += -transaction.Amount
	}

	categories := make([]CategorySummary, 0, len(totals))
	for name, value := range totals {
		categories = append(categories, CategorySummary{Name: name, Value: value})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Value != categories[j].Value {
			return categories[i].Value > categories[j].Value
		}
		return categories[i].Name < categories[j].Name
	})

	if len(categories) <= 3 {
		return categories
	}

	var otherSum int64
	for _, category := range categories[3:] {
		otherSum += category.Value
	}
	return append(categories[:3:3], CategorySummary{Name: "Other", Value: otherSum})
}

// dailySeries produces one entry per calendar day between from and to, with
// zeroes for days that had no activity.
func dailySeries(transactions []domain.TransactionDetail, from, to time.Time) []DaySummary {
	const day = "2006-01-02"

	byDay := make(map[string]*DaySummary)
	for _, transaction := range transactions {
		key := transaction.Date.Format(day)
		entry, ok := byDay[key]
		if !ok {
			entry = &DaySummary{Date: key}
			byDay[key] = entry
		}
		if transaction.Amount >= 0 {
			entry.Income += transaction.Amount
		} else {
			entry.Expenses += transaction.Amount
		}
	}

	days := []DaySummary{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(day)
		if entry, ok := byDay[key]; ok {
			days = append(days, *entry)
			continue
		}
		days = append(days, DaySummary{Date: key})
	}
	return days
}
