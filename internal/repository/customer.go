package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
)

type CustomersFilter struct {
	Name     *string
	Document *string
	Address  *string
}

type CustomerRepository struct {
	db Querier
}

func NewCustomerRepository(db Querier) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `
	c.id,
	c.name,
	c.document,
	c.street,
	c.number,
	c.neighborhood,
	c.city,
	c.state,
	c.postal_code,
	c.complement,
	c.remarks,
	c.created_at
`

func scanCustomer(row interface{ Scan(dest ...any) error }) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Document,
		&c.Address.Street,
		&c.Address.Number,
		&c.Address.Neighborhood,
		&c.Address.City,
		&c.Address.State,
		&c.Address.PostalCode,
		&c.Address.Complement,
		&c.Remarks,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) ByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers c WHERE c.id = $1`

	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "customer", ID: fmt.Sprintf("%d", id)}
		}
		return nil, storageErr("select customer", err)
	}
	return c, nil
}

// List searches by name/document/address fragment, case-insensitive.
func (r *CustomerRepository) List(ctx context.Context, f CustomersFilter) ([]domain.Customer, error) {
	base := `SELECT ` + customerColumns + ` FROM customers c`

	where := []string{"1=1"}
	args := []any{}
	i := 1

	if f.Name != nil && *f.Name != "" {
		where = append(where, fmt.Sprintf("c.name ILIKE $%d", i))
		args = append(args, "%"+*f.Name+"%")
		i++
	}
	if f.Document != nil && *f.Document != "" {
		where = append(where, fmt.Sprintf("c.document = $%d", i))
		args = append(args, *f.Document)
		i++
	}
	if f.Address != nil && *f.Address != "" {
		where = append(where, fmt.Sprintf(
			"(c.street ILIKE $%d OR c.neighborhood ILIKE $%d OR c.city ILIKE $%d)", i, i, i))
		args = append(args, "%"+*f.Address+"%")
		i++
	}

	query := base + " WHERE " + strings.Join(where, " AND ") + " ORDER BY c.name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list customers", err)
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, storageErr("scan customer", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list customers", err)
	}
	return result, nil
}

func (r *CustomerRepository) Insert(ctx context.Context, c *domain.Customer) error {
	query := `
		INSERT INTO customers (name, document, street, number, neighborhood, city, state, postal_code, complement, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		c.Name,
		c.Document,
		c.Address.Street,
		c.Address.Number,
		c.Address.Neighborhood,
		c.Address.City,
		c.Address.State,
		c.Address.PostalCode,
		c.Address.Complement,
		c.Remarks,
	).Scan(&c.ID)
	if err != nil {
		return storageErr("insert customer", err)
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, street = $2, number = $3, neighborhood = $4, city = $5,
		    state = $6, postal_code = $7, complement = $8, remarks = $9
		WHERE id = $10
	`

	res, err := r.db.ExecContext(ctx, query,
		c.Name,
		c.Address.Street,
		c.Address.Number,
		c.Address.Neighborhood,
		c.Address.City,
		c.Address.State,
		c.Address.PostalCode,
		c.Address.Complement,
		c.Remarks,
		c.ID,
	)
	if err != nil {
		return storageErr("update customer", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &domain.NotFoundError{Entity: "customer", ID: fmt.Sprintf("%d", c.ID)}
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete customer", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &domain.NotFoundError{Entity: "customer", ID: fmt.Sprintf("%d", id)}
	}
	return nil
}
