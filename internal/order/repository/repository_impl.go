package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order, items []*domain.OrderItem) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO orders (id, org_id, ticket_id, quote_id, customer_id, supplier_id, status, currency, total_amount, expected_delivery_at, delivered_at, acknowledged_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.OrgID,
		order.TicketID,
		order.QuoteID,
		order.CustomerID,
		order.SupplierID,
		order.Status,
		order.Currency,
		order.TotalAmount,
		order.ExpectedDeliveryAt,
		order.DeliveredAt,
		order.AcknowledgedAt,
		order.CreatedAt,
		order.UpdatedAt,
	).Error
	if err != nil {
		return err
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		err := db.WithContext(ctx).Exec(
			`INSERT INTO order_items (id, order_id, quote_item_id, description, quantity, unit_price, markup, line_total, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.OrderID,
			item.QuoteItemID,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.Markup,
			item.LineTotal,
			item.CreatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Take(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) FindByTicket(ctx context.Context, db *gorm.DB, orgID, ticketID snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Where("org_id = ? AND ticket_id = ?", orgID, ticketID).
		Take(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListOrderFilter) ([]*domain.Order, error) {
	var orders []*domain.Order
	stmt := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("org_id = ?", orgID)
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.SupplierID != 0 {
		stmt = stmt.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	err := stmt.Order("created_at desc, id desc").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]*domain.OrderItem, error) {
	var items []*domain.OrderItem
	err := db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, from, to domain.Status) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE org_id = ? AND id = ? AND status = ?`,
		to,
		orgID,
		id,
		from,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) Acknowledge(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE orders SET acknowledged_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE org_id = ? AND id = ? AND acknowledged_at IS NULL`,
		orgID,
		id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) SetDeliveryDates(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`UPDATE orders SET expected_delivery_at = ?, delivered_at = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		order.ExpectedDeliveryAt,
		order.DeliveredAt,
		order.UpdatedAt,
		order.OrgID,
		order.ID,
	).Error
}
