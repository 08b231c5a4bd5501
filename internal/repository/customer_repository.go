package repository

import (
	"context"
	"fmt"

	"league-core/internal/model"
	apperrors "league-core/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, id int) (*model.Customer, error)

	// Transaction methods
	ExistsInTx(ctx context.Context, tx pgx.Tx, id int) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, customer *model.Customer) (*model.Customer, error)
}

type CustomerRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &CustomerRepositoryImpl{
		pool: pool,
	}
}

func (r *CustomerRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Customer, error) {
	query := `
		SELECT id, first_name, last_name, phone, email, organization,
		       preferred_sport, status, payment_method
		FROM customer
		WHERE id = $1
	`

	var customer model.Customer
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Phone,
		&customer.Email,
		&customer.Organization,
		&customer.PreferredSport,
		&customer.Status,
		&customer.PaymentMethod,
	)
	if err != nil {
		return nil, mapError(err, apperrors.ErrCustomerNotFound)
	}

	return &customer, nil
}

func (r *CustomerRepositoryImpl) ExistsInTx(ctx context.Context, tx pgx.Tx, id int) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customer WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, mapError(err, nil)
	}
	return exists, nil
}

func (r *CustomerRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, customer *model.Customer) (*model.Customer, error) {
	query := `
		INSERT INTO customer (
			first_name, last_name, phone, email, organization,
			preferred_sport, status, payment_method
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		customer.FirstName, customer.LastName, customer.Phone, customer.Email,
		customer.Organization, customer.PreferredSport, customer.Status, customer.PaymentMethod,
	).Scan(&customer.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", mapError(err, nil))
	}

	return customer, nil
}
