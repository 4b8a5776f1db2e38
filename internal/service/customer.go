package service

import (
	"context"
	"fmt"
	"time"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
	"github.com/LordKnossus/crm-cobranca/internal/finance"
	"github.com/LordKnossus/crm-cobranca/internal/repository"
)

// CustomerView is a customer with the debt aggregates derived from its notes.
type CustomerView struct {
	Customer domain.Customer
	Debt     finance.CustomerDebt
}

type CreateCustomerInput struct {
	Name     string
	Document string
	Address  domain.Address
	Remarks  *string
}

type UpdateCustomerInput struct {
	Name    string
	Address domain.Address
	Remarks *string
}

type CustomerService struct {
	store repository.Store
	now   func() time.Time
}

func NewCustomerService(store repository.Store) *CustomerService {
	return &CustomerService{store: store, now: time.Now}
}

// Create registers a customer. The document arrives already checksum-validated
// by the caller; the service only requires it to be present.
func (s *CustomerService) Create(ctx context.Context, in CreateCustomerInput) (*domain.Customer, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	if in.Document == "" {
		return nil, fmt.Errorf("customer document is required")
	}

	c := &domain.Customer{
		Name:     in.Name,
		Document: in.Document,
		Address:  in.Address,
		Remarks:  in.Remarks,
	}
	if err := s.store.InsertCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Search(ctx context.Context, f repository.CustomersFilter) ([]domain.Customer, error) {
	return s.store.ListCustomers(ctx, f)
}

// GetWithDebt returns the customer plus totalOwed/currentTotal/overdueTotal
// and per-note labels, all evaluated at the current instant.
func (s *CustomerService) GetWithDebt(ctx context.Context, id int64) (*CustomerView, error) {
	customer, err := s.store.CustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	notes, err := s.store.ListNotesByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CustomerView{
		Customer: *customer,
		Debt:     finance.AggregateDebt(notes, s.now()),
	}, nil
}

func (s *CustomerService) Update(ctx context.Context, id int64, in UpdateCustomerInput) (*domain.Customer, error) {
	customer, err := s.store.CustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = in.Name
	customer.Address = in.Address
	customer.Remarks = in.Remarks

	if err := s.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete removes a customer, refused while any of its notes still carries a
// pending balance.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	notes, err := s.store.ListNotesByCustomer(ctx, id)
	if err != nil {
		return err
	}

	debt := finance.AggregateDebt(notes, s.now())
	if debt.TotalOwed.IsPositive() {
		return &domain.InvalidStateError{
			Entity: "customer",
			ID:     fmt.Sprintf("%d", id),
			State:  "indebted",
		}
	}

	return s.store.DeleteCustomer(ctx, id)
}
