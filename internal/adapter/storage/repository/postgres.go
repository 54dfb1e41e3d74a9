package repository

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/taskmarket/escrowpay/internal/adapter/storage"
	"github.com/taskmarket/escrowpay/internal/core/domain"
	"github.com/taskmarket/escrowpay/internal/core/port"
)

// maxUpdateRetries bounds the optimistic-concurrency loop in UpdateOrder.
const maxUpdateRetries = 3

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

var orderColumns = []string{"id", "buyer_id", "provider_id", "job_id", "agreed_price",
	"currency", "status", "escrow_funded", "metadata", "version", "created_at", "updated_at"}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	metadata, err := marshalMetadata(order.Metadata)
	if err != nil {
		return nil, err
	}

	statement := r.db.QueryBuilder.Insert("orders").
		Columns("buyer_id", "provider_id", "job_id", "agreed_price",
			"currency", "status", "escrow_funded", "metadata").
		Values(order.BuyerID, order.ProviderID, order.JobID, order.AgreedPrice,
			order.Currency, order.Status, order.EscrowFunded, metadata).
		Suffix("RETURNING id, version, created_at, updated_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&order.ID, &order.Version, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": orderID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	return r.scanOrder(r.db.QueryRow(ctx, sql, args...))
}

// UpdateOrder implements the read-modify-write cycle for order records. The
// write is conditioned on the version column; when a concurrent writer bumped
// it first, the cycle restarts on a fresh read. This closes the milestone
// plan clobbering window between racing webhook deliveries.
func (r *Repository) UpdateOrder(ctx context.Context,
	orderID string, fn port.UpdateOrderFn) (*domain.Order, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		order, err := r.ReadOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}

		if err := fn(order); err != nil {
			return nil, err
		}

		metadata, err := marshalMetadata(order.Metadata)
		if err != nil {
			return nil, err
		}

		statement := r.db.QueryBuilder.Update("orders").
			Set("status", order.Status).
			Set("escrow_funded", order.EscrowFunded).
			Set("metadata", metadata).
			Set("version", order.Version+1).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": orderID, "version": order.Version})

		sql, args, err := statement.ToSql()
		if err != nil {
			return nil, err
		}

		tag, err := r.db.Exec(ctx, sql, args...)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() > 0 {
			order.Version++
			return order, nil
		}
		// lost the race, re-read and retry
	}

	return nil, domain.ErrUpdateConflict
}

func (r *Repository) scanOrder(row pgx.Row) (*domain.Order, error) {
	order := domain.Order{}
	var metadataRaw []byte

	err := row.Scan(
		&order.ID,
		&order.BuyerID,
		&order.ProviderID,
		&order.JobID,
		&order.AgreedPrice,
		&order.Currency,
		&order.Status,
		&order.EscrowFunded,
		&metadataRaw,
		&order.Version,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	if len(metadataRaw) > 0 {
		metadata := domain.OrderMetadata{}
		if err := json.Unmarshal(metadataRaw, &metadata); err != nil {
			return nil, err
		}
		order.Metadata = &metadata
	}

	return &order, nil
}

func marshalMetadata(metadata *domain.OrderMetadata) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	return json.Marshal(metadata)
}

var paymentColumns = []string{"id", "order_id", "amount", "commission",
	"status", "gateway", "gateway_ref", "created_at", "updated_at"}

func (r *Repository) CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	statement := r.db.QueryBuilder.Insert("payments").
		Columns("order_id", "amount", "commission", "status", "gateway", "gateway_ref").
		Values(payment.OrderID, payment.Amount, payment.Commission,
			payment.Status, payment.Gateway, payment.GatewayRef).
		Suffix("RETURNING id, created_at, updated_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return payment, nil
}

func (r *Repository) ReadPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return r.readPaymentWhere(ctx, sq.Eq{"id": paymentID})
}

func (r *Repository) ReadPaymentByGatewayRef(ctx context.Context, gatewayRef string) (*domain.Payment, error) {
	return r.readPaymentWhere(ctx, sq.Eq{"gateway_ref": gatewayRef})
}

func (r *Repository) readPaymentWhere(ctx context.Context, pred any) (*domain.Payment, error) {
	statement := r.db.QueryBuilder.
		Select(paymentColumns...).
		From("payments").
		Where(pred)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	payment := domain.Payment{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.Amount,
		&payment.Commission,
		&payment.Status,
		&payment.Gateway,
		&payment.GatewayRef,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &payment, nil
}

func (r *Repository) UpdatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	statement := r.db.QueryBuilder.Update("payments").
		Set("status", payment.Status).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": payment.ID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrDataNotFound
	}
	return payment, nil
}

func (r *Repository) ListPaymentsByOrder(ctx context.Context, orderID string) ([]*domain.Payment, error) {
	return r.listPaymentsWhere(ctx, sq.Eq{"order_id": orderID})
}

func (r *Repository) ListPaymentsByOrderAndStatus(ctx context.Context,
	orderID string, status domain.PaymentStatus) ([]*domain.Payment, error) {
	return r.listPaymentsWhere(ctx, sq.Eq{"order_id": orderID, "status": status})
}

func (r *Repository) listPaymentsWhere(ctx context.Context, pred any) ([]*domain.Payment, error) {
	statement := r.db.QueryBuilder.
		Select(paymentColumns...).
		From("payments").
		Where(pred).
		OrderBy("created_at DESC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Payment, 0)
	for rows.Next() {
		payment := domain.Payment{}
		err := rows.Scan(
			&payment.ID,
			&payment.OrderID,
			&payment.Amount,
			&payment.Commission,
			&payment.Status,
			&payment.Gateway,
			&payment.GatewayRef,
			&payment.CreatedAt,
			&payment.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &payment)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}
