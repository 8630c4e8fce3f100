package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/storefront/internal/model"
)

type CustomerRepository interface {
	Upsert(ctx context.Context, customer *model.Customer) error
	GetByUserID(ctx context.Context, userID uint) (*model.Customer, error)
	List(ctx context.Context, offset, limit int) ([]*model.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepository{db: db} }

// Upsert 以 user_id 为准写入档案，重复提交覆盖旧值
func (r *customerRepository) Upsert(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "address", "phone", "email", "updated_at"}),
	}).Create(customer).Error
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID uint) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, offset, limit int) ([]*model.Customer, error) {
	var res []*model.Customer
	err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}
