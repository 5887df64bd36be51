package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/surplus/internal/db"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
	"github.com/samber/lo"
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return r.getOrder(ctx, orderID, false)
}

func (r *orderRepository) GetOrderForUpdate(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return r.getOrder(ctx, orderID, true)
}

func (r *orderRepository) getOrder(ctx context.Context, orderID uuid.UUID, forUpdate bool) (domain.Order, error) {
	var o domain.Order

	order, err := r.withTxOrder(ctx, func(q *db.Queries) (domain.Order, error) {
		get, name := q.GetOrder, "q.GetOrder"
		if forUpdate {
			get, name = q.GetOrderForUpdate, "q.GetOrderForUpdate"
		}

		dbOrder, err := get(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("%s: %w", name, domain.ErrOrderNotFound)
			}
			return o, fmt.Errorf("%s: %w", name, err)
		}

		dbOrderLines, err := q.GetOrderLines(ctx, []uuid.UUID{orderID})
		if err != nil {
			return o, fmt.Errorf("q.GetOrderLines: %w", err)
		}

		domainOrder, err := mapDBOrderToDomain(dbOrder, dbOrderLines)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		return domainOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

// InsertOrder writes the order and all of its lines in one transaction, an order is never partially created.
func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if len(order.Lines) == 0 {
		return o, errors.New("no lines in order")
	}
	if order.ClientID == "" {
		return o, errors.New("clientID is empty")
	}
	for _, line := range order.Lines {
		if err := domain.ValidateQuantity(line.Quantity); err != nil {
			return o, fmt.Errorf("line[%s]: %w", line.ProductID, err)
		}
	}

	inserted, err := r.withTxOrder(ctx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.InsertOrder(ctx, db.InsertOrderParams{
			ClientID: order.ClientID,
			Sellers:  order.Sellers,
		})
		if err != nil {
			return o, fmt.Errorf("q.InsertOrder: %w", err)
		}

		dbOrderLines := make([]db.OrderLine, 0, len(order.Lines))

		// TODO: switch to CopyFrom once orders get large
		for idx, line := range order.Lines {
			arg := db.InsertOrderLineParams{
				OrderID:   dbOrder.ID,
				Position:  int32(idx),
				ProductID: line.ProductID,
				SellerID:  line.SellerID,
				Quantity:  int32(line.Quantity),
			}
			if err := q.InsertOrderLine(ctx, arg); err != nil {
				return o, fmt.Errorf("q.InsertOrderLine: %w", err)
			}

			dbOrderLines = append(dbOrderLines, db.OrderLine(arg))
		}

		return mapDBOrderToDomain(dbOrder, dbOrderLines)
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return inserted, nil
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	states := lo.Map(filter.States, func(s domain.OrderState, _ int) string {
		return string(s)
	})

	var createdAfter, createdBefore *time.Time

	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	return db.SearchOrdersParams{
		Ids:           nilSliceIfEmpty(filter.IDs),
		ClientIds:     nilSliceIfEmpty(filter.ClientIDs),
		SellerIds:     nilSliceIfEmpty(filter.SellerIDs),
		States:        nilSliceIfEmpty(states),
		CreatedAfter:  createdAfter,
		CreatedBefore: createdBefore,
	}
}

// SearchOrders returns orders newest first.
func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	orders, err := withTx(ctx, r.dbtx, func(q *db.Queries) ([]domain.Order, error) {
		dbOrders, err := q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
		if err != nil {
			return nil, fmt.Errorf("q.SearchOrders: %w", err)
		}

		if len(dbOrders) == 0 {
			return nil, nil
		}

		orderIDs := lo.Map(dbOrders, func(o db.Order, _ int) uuid.UUID {
			return o.ID
		})

		dbOrderLines, err := q.GetOrderLines(ctx, orderIDs)
		if err != nil {
			return nil, fmt.Errorf("q.GetOrderLines: %w", err)
		}

		linesByOrder := lo.GroupBy(dbOrderLines, func(l db.OrderLine) uuid.UUID {
			return l.OrderID
		})

		result := make([]domain.Order, 0, len(dbOrders))
		for _, dbOrder := range dbOrders {
			order, err := mapDBOrderToDomain(dbOrder, linesByOrder[dbOrder.ID])
			if err != nil {
				return nil, fmt.Errorf("mapDBOrderToDomain: %w", err)
			}
			result = append(result, order)
		}

		return result, nil
	})
	if err != nil {
		return nil, fmt.Errorf("withTx: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) UpdateOrderState(ctx context.Context, orderID uuid.UUID, from, to domain.OrderState) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}
	if from == "" || to == "" {
		return fmt.Errorf("state is empty")
	}

	cmdTag, err := r.q.UpdateOrderState(ctx, db.UpdateOrderStateParams{
		ToState:   string(to),
		ID:        orderID,
		FromState: string(from),
	})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderState: %w", err)
	}

	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	// either the order is gone or someone else moved it first
	current, err := r.q.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("q.UpdateOrderState: %w", domain.ErrOrderNotFound)
		}
		return fmt.Errorf("q.GetOrder: %w", err)
	}

	return fmt.Errorf("q.UpdateOrderState: %w", &domain.TransitionError{
		OrderID: orderID,
		From:    domain.OrderState(current.State),
		To:      to,
	})
}

func (r *orderRepository) withTxOrder(ctx context.Context, fn func(q *db.Queries) (domain.Order, error)) (domain.Order, error) {
	return withTx(ctx, r.dbtx, fn)
}

func mapDBOrderLinesToDomain(rows []db.OrderLine) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(rows))

	for _, row := range rows {
		lines = append(lines, domain.OrderLine{
			ProductID: row.ProductID,
			SellerID:  row.SellerID,
			Quantity:  int(row.Quantity),
		})
	}

	return lines
}

func mapDBOrderToDomain(dbOrder db.Order, dbOrderLines []db.OrderLine) (domain.Order, error) {
	var o domain.Order

	state, err := domain.ToOrderState(dbOrder.State)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderState[%s]: %w", dbOrder.State, err)
	}

	return domain.Order{
		ID:        dbOrder.ID,
		ClientID:  dbOrder.ClientID,
		Sellers:   dbOrder.Sellers,
		State:     state,
		Lines:     mapDBOrderLinesToDomain(dbOrderLines),
		CreatedAt: dbOrder.CreatedAt,
		UpdatedAt: dbOrder.UpdatedAt,
	}, nil
}
