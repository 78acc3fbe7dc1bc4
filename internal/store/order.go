package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"gift_catalog/internal/model"
)

// CreateOrder persists an order together with its certificate references
func (s *Store) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.Omit(clause.Associations).Create(order).Error; err != nil {
			return translate(err, "create order")
		}

		links := make([]model.OrderCertificate, 0, len(order.Items))
		for i, item := range order.Items {
			links = append(links, model.OrderCertificate{
				OrderID:       order.ID,
				Position:      i,
				CertificateID: item.CertificateID,
			})
		}
		if err := tx.db.Create(&links).Error; err != nil {
			return translate(err, "create order certificates")
		}
		order.Certificates = links
		return nil
	})
}

// FindOrderByID loads an order
func (s *Store) FindOrderByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := s.conn(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("find order %d", id))
	}
	return &order, nil
}

// ListOrdersByUser returns one window of a user's orders, newest first
func (s *Store) ListOrdersByUser(ctx context.Context, userID int64, offset, limit int) ([]model.Order, int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&model.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count orders")
	}

	orders := make([]model.Order, 0, limit)
	if err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, translate(err, "list orders")
	}
	return orders, total, nil
}
