package repository

import (
	"context"
	"database/sql"
	"errors"

	"aquashop/models"

	"go.uber.org/zap"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.Order) (err error)
	GetOrderById(ctx context.Context, orderId string) (order models.Order, err error)
	ListOrders(ctx context.Context, status models.OrderStatus) (orders []models.Order, err error)
	SetOrderStatus(ctx context.Context, orderId string, status models.OrderStatus) (err error)
}

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepository(conn *sql.DB) (OrderRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &OrderRepo{
		db: conn,
	}, nil
}

const orderColumns = "id, customer_name, customer_phone, customer_address, subtotal, delivery_charge, total, status, created_at"

func (o *OrderRepo) CreateOrder(ctx context.Context, order models.Order) (err error) {
	tx, e := o.db.BeginTx(ctx, nil)
	if e != nil {
		zap.L().Error("CreateOrder[1]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, e = tx.ExecContext(ctx, "INSERT INTO orders ("+orderColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		order.Id, order.CustomerName, order.CustomerPhone, order.CustomerAddress,
		order.Subtotal, order.DeliveryCharge, order.Total, string(order.Status), order.CreatedAt.UTC())
	if e != nil {
		zap.L().Error("CreateOrder[2]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	for i, it := range order.Items {
		_, e = tx.ExecContext(ctx, `INSERT INTO order_items (order_id, position, fish_id, name, price_unit, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			order.Id, i, it.FishId, it.Name, string(it.PriceUnit), it.Quantity, it.UnitPrice, it.LineTotal)
		if e != nil {
			zap.L().Error("CreateOrder[3]", zap.Error(e))
			err = models.ErrServerError
			return
		}
	}
	if e = tx.Commit(); e != nil {
		zap.L().Error("CreateOrder[4]", zap.Error(e))
		err = models.ErrServerError
	}
	return
}

func scanOrder(row rowScanner) (order models.Order, err error) {
	var status string
	err = row.Scan(&order.Id, &order.CustomerName, &order.CustomerPhone, &order.CustomerAddress,
		&order.Subtotal, &order.DeliveryCharge, &order.Total, &status, &order.CreatedAt)
	order.Status = models.OrderStatus(status)
	return
}

func (o *OrderRepo) GetOrderById(ctx context.Context, orderId string) (order models.Order, err error) {
	row := o.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", orderId)
	order, err = scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			err = models.ErrNotFoundError
		} else {
			zap.L().Error("GetOrderById", zap.Error(err))
			err = models.ErrServerError
		}
		return
	}
	order.Items, err = o.getOrderItems(ctx, orderId)
	return
}

func (o *OrderRepo) getOrderItems(ctx context.Context, orderId string) (items []models.OrderItem, err error) {
	rows, e := o.db.QueryContext(ctx, `SELECT fish_id, name, price_unit, quantity, unit_price, line_total
		FROM order_items WHERE order_id = $1 ORDER BY position`, orderId)
	if e != nil {
		zap.L().Error("GetOrderItems[1]", zap.Error(e))
		err = models.ErrServerError
		return
	}
	defer rows.Close()
	items = []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		var unit string
		err = rows.Scan(&it.FishId, &it.Name, &unit, &it.Quantity, &it.UnitPrice, &it.LineTotal)
		if err != nil {
			zap.L().Error("GetOrderItems[2]", zap.Error(err))
			err = models.ErrServerError
			return
		}
		it.PriceUnit = models.PriceUnit(unit)
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		zap.L().Error("GetOrderItems[3]", zap.Error(err))
		err = models.ErrServerError
	}
	return
}

// ListOrders returns orders newest first, optionally filtered by status.
func (o *OrderRepo) ListOrders(ctx context.Context, status models.OrderStatus) (orders []models.Order, err error) {
	var rows *sql.Rows
	if status == "" {
		rows, err = o.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC, id")
	} else {
		rows, err = o.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE status = $1 ORDER BY created_at DESC, id", string(status))
	}
	if err != nil {
		zap.L().Error("ListOrders[1]", zap.Error(err))
		err = models.ErrServerError
		return
	}
	orders = []models.Order{}
	for rows.Next() {
		var order models.Order
		order, err = scanOrder(rows)
		if err != nil {
			rows.Close()
			zap.L().Error("ListOrders[2]", zap.Error(err))
			err = models.ErrServerError
			return
		}
		orders = append(orders, order)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		zap.L().Error("ListOrders[3]", zap.Error(err))
		err = models.ErrServerError
		return
	}
	// items are read after the cursor is closed: sqlite runs on a single connection
	for i := range orders {
		orders[i].Items, err = o.getOrderItems(ctx, orders[i].Id)
		if err != nil {
			return
		}
	}
	return
}

func (o *OrderRepo) SetOrderStatus(ctx context.Context, orderId string, status models.OrderStatus) (err error) {
	res, e := o.db.ExecContext(ctx, "UPDATE orders SET status = $1 WHERE id = $2", string(status), orderId)
	if e != nil {
		zap.L().Error("SetOrderStatus", zap.Error(e))
		err = models.ErrServerError
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		err = models.ErrNotFoundError
	}
	return
}
