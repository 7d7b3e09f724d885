package repository

import (
	"context"

	"posbackend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupplierRepository defines data access for supplier role profiles.
// Count feeds supplier code minting and must run inside the creation
// transaction (repositories join it via GetDB).
type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context, page, limit int) ([]model.Supplier, int64, error)
	Update(ctx context.Context, supplier *model.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Create(supplier).Error
}

func (r *supplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).Preload("User").First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).Preload("User").First(&supplier, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) List(ctx context.Context, page, limit int) ([]model.Supplier, int64, error) {
	var suppliers []model.Supplier
	var total int64

	if err := GetDB(ctx, r.db).Model(&model.Supplier{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Preload("User").Offset(offset).Limit(limit).Find(&suppliers).Error; err != nil {
		return nil, 0, err
	}

	return suppliers, total, nil
}

func (r *supplierRepository) Update(ctx context.Context, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Save(supplier).Error
}

func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Supplier{}).Error
}

func (r *supplierRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Supplier{}).Count(&total).Error
	return total, err
}

// CustomerRepository defines data access for customer role profiles.
type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, page, limit int) ([]model.Customer, int64, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	return GetDB(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := GetDB(ctx, r.db).Preload("User").Preload("Supplier").Preload("Supplier.User").First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := GetDB(ctx, r.db).Preload("User").First(&customer, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, page, limit int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	if err := GetDB(ctx, r.db).Model(&model.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Preload("User").Preload("Supplier").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	return GetDB(ctx, r.db).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Customer{}).Error
}

// BillerRepository defines data access for biller role profiles.
type BillerRepository interface {
	Create(ctx context.Context, biller *model.Biller) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Biller, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Biller, error)
	List(ctx context.Context, page, limit int) ([]model.Biller, int64, error)
	Update(ctx context.Context, biller *model.Biller) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type billerRepository struct {
	db *gorm.DB
}

func NewBillerRepository(db *gorm.DB) BillerRepository {
	return &billerRepository{db: db}
}

func (r *billerRepository) Create(ctx context.Context, biller *model.Biller) error {
	return GetDB(ctx, r.db).Create(biller).Error
}

func (r *billerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Biller, error) {
	var biller model.Biller
	if err := GetDB(ctx, r.db).Preload("User").Preload("Warehouse").First(&biller, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &biller, nil
}

func (r *billerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Biller, error) {
	var biller model.Biller
	if err := GetDB(ctx, r.db).Preload("User").First(&biller, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &biller, nil
}

func (r *billerRepository) List(ctx context.Context, page, limit int) ([]model.Biller, int64, error) {
	var billers []model.Biller
	var total int64

	if err := GetDB(ctx, r.db).Model(&model.Biller{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := GetDB(ctx, r.db).Preload("User").Preload("Warehouse").Offset(offset).Limit(limit).Find(&billers).Error; err != nil {
		return nil, 0, err
	}

	return billers, total, nil
}

func (r *billerRepository) Update(ctx context.Context, biller *model.Biller) error {
	return GetDB(ctx, r.db).Save(biller).Error
}

func (r *billerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Biller{}).Error
}

func (r *billerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Biller{}).Count(&total).Error
	return total, err
}
