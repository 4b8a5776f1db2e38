package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/clients"
	"github.com/LordKnossus/crm-cobranca/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardCacheKey = "dashboard_summary"
	dashboardCacheTTL = 5 * time.Minute
)

type StatusSlice struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Value  decimal.Decimal `json:"value"`
}

type MonthSlice struct {
	Month string          `json:"month"` // "2006-01"
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

type CustomerSlice struct {
	CustomerID int64           `json:"customer_id"`
	Name       string          `json:"name"`
	Count      int             `json:"count"`
	Value      decimal.Decimal `json:"value"`
}

type DashboardSummary struct {
	TotalNotes   int             `json:"total_notes"`
	TotalValue   decimal.Decimal `json:"total_value"`
	ByStatus     []StatusSlice   `json:"by_status"`
	ByDueMonth   []MonthSlice    `json:"by_due_month"`
	TopCustomers []CustomerSlice `json:"top_customers"`
}

type DashboardService struct {
	store repository.Store
	redis *clients.RedisClient
}

func NewDashboardService(store repository.Store, redis *clients.RedisClient) *DashboardService {
	return &DashboardService{store: store, redis: redis}
}

// Summary aggregates every note into the dashboard figures. The result is
// cached in redis for a few minutes; the cache is best-effort and a miss or
// redis outage just recomputes.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, dashboardCacheKey); err == nil {
			var cached DashboardSummary
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.redis.Set(ctx, dashboardCacheKey, string(data), dashboardCacheTTL); err != nil {
				log.Printf("[DASHBOARD] cache write error: %v", err)
			}
		}
	}

	return summary, nil
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardSummary, error) {
	notes, err := s.store.ListNotes(ctx, repository.NotesFilter{})
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalNotes: len(notes),
		TotalValue: decimal.Zero,
	}

	byStatus := map[string]*StatusSlice{}
	byMonth := map[string]*MonthSlice{}
	byCustomer := map[int64]*CustomerSlice{}

	for _, n := range notes {
		summary.TotalValue = summary.TotalValue.Add(n.Amount)

		st := string(n.Status)
		if byStatus[st] == nil {
			byStatus[st] = &StatusSlice{Status: st, Value: decimal.Zero}
		}
		byStatus[st].Count++
		byStatus[st].Value = byStatus[st].Value.Add(n.Amount)

		month := n.DueDate.Format("2006-01")
		if byMonth[month] == nil {
			byMonth[month] = &MonthSlice{Month: month, Value: decimal.Zero}
		}
		byMonth[month].Count++
		byMonth[month].Value = byMonth[month].Value.Add(n.Amount)

		if byCustomer[n.CustomerID] == nil {
			byCustomer[n.CustomerID] = &CustomerSlice{CustomerID: n.CustomerID, Value: decimal.Zero}
		}
		byCustomer[n.CustomerID].Count++
		byCustomer[n.CustomerID].Value = byCustomer[n.CustomerID].Value.Add(n.Amount)
	}

	for _, v := range byStatus {
		summary.ByStatus = append(summary.ByStatus, *v)
	}
	sort.Slice(summary.ByStatus, func(i, j int) bool {
		return summary.ByStatus[i].Status < summary.ByStatus[j].Status
	})

	for _, v := range byMonth {
		summary.ByDueMonth = append(summary.ByDueMonth, *v)
	}
	sort.Slice(summary.ByDueMonth, func(i, j int) bool {
		return summary.ByDueMonth[i].Month < summary.ByDueMonth[j].Month
	})

	var customers []CustomerSlice
	for _, v := range byCustomer {
		customers = append(customers, *v)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].Value.GreaterThan(customers[j].Value)
	})
	if len(customers) > 5 {
		customers = customers[:5]
	}
	for i := range customers {
		if c, err := s.store.CustomerByID(ctx, customers[i].CustomerID); err == nil {
			customers[i].Name = c.Name
		}
	}
	summary.TopCustomers = customers

	return summary, nil
}
