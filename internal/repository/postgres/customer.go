package postgres

import (
	"context"
	"fmt"

	"gym_checkin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository struct {
	DB *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

// UpsertCustomer вставляет клиента или перезаписывает имя, телефон и тип абонемента.
// Версий нет: при гонке двух чекинов одного человека побеждает последняя запись.
func (r *CustomerRepository) UpsertCustomer(ctx context.Context, id, name, phone, membershipType string) (*model.Customer, error) {
	var stored model.Customer
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer := model.Customer{
			ID:             id,
			Name:           name,
			PhoneNumber:    phone,
			MembershipType: membershipType,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "phone_number", "membership_type", "updated_at"}),
		}).Create(&customer).Error
		if err != nil {
			return err
		}
		return tx.First(&stored, "id = ?", id).Error
	})
	if err != nil {
		return nil, fmt.Errorf("upsert customer %s: %w", id, err)
	}
	return &stored, nil
}

func (r *CustomerRepository) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.DB.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
