package service

import (
	"context"
	"fmt"

	"posbackend/internal/apperror"
	"posbackend/internal/authz"
	"posbackend/internal/model"
	"posbackend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type AddressPayload struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Street  string `json:"street"`
	ZipCode int    `json:"zip_code"`
}

type CreateSupplierRequest struct {
	User    AccountPayload `json:"user" binding:"required"`
	Company string         `json:"company" binding:"required,max=100"`
	AddressPayload
}

type CreateCustomerRequest struct {
	User          AccountPayload `json:"user" binding:"required"`
	SupplierID    string         `json:"supplier_id" binding:"required,uuid"`
	CustomerGroup string         `json:"customer_group" binding:"required,oneof=general walkin wholesale"`
	AddressPayload
}

type CreateBillerRequest struct {
	User        AccountPayload `json:"user" binding:"required"`
	NID         string         `json:"nid" binding:"required,max=13"`
	WarehouseID *string        `json:"warehouse_id" binding:"omitempty,uuid"`
	AddressPayload
}

type UpdateSupplierRequest struct {
	Company *string `json:"company"`
	Country *string `json:"country"`
	City    *string `json:"city"`
	Street  *string `json:"street"`
	ZipCode *int    `json:"zip_code"`
}

type UpdateCustomerRequest struct {
	SupplierID    *string `json:"supplier_id"`
	CustomerGroup *string `json:"customer_group"`
	RewardPoint   *int    `json:"reward_point"`
}

type UpdateBillerRequest struct {
	NID         *string `json:"nid"`
	WarehouseID *string `json:"warehouse_id"` // empty string detaches the warehouse
}

type SupplierResponse struct {
	ID           uuid.UUID    `json:"id"`
	User         UserResponse `json:"user"`
	Company      string       `json:"company"`
	SupplierCode string       `json:"supplier_code"`
	Country      string       `json:"country"`
	City         string       `json:"city"`
	Street       string       `json:"street,omitempty"`
	ZipCode      int          `json:"zip_code,omitempty"`
}

type CustomerResponse struct {
	ID            uuid.UUID    `json:"id"`
	User          UserResponse `json:"user"`
	SupplierID    uuid.UUID    `json:"supplier_id"`
	CustomerGroup string       `json:"customer_group"`
	RewardPoint   int          `json:"reward_point"`
}

type BillerResponse struct {
	ID          uuid.UUID    `json:"id"`
	User        UserResponse `json:"user"`
	NID         string       `json:"nid"`
	WarehouseID *uuid.UUID   `json:"warehouse_id,omitempty"`
	BillerCode  string       `json:"biller_code"`
}

// ProfileService creates and manages the role profiles. Creation is atomic:
// the account row and its profile commit in one transaction or not at all.
type ProfileService interface {
	CreateSupplier(ctx context.Context, actor authz.Principal, req CreateSupplierRequest) (*SupplierResponse, error)
	CreateCustomer(ctx context.Context, actor authz.Principal, req CreateCustomerRequest) (*CustomerResponse, error)
	CreateBiller(ctx context.Context, actor authz.Principal, req CreateBillerRequest) (*BillerResponse, error)

	GetSupplier(ctx context.Context, id string) (*SupplierResponse, error)
	GetCustomer(ctx context.Context, id string) (*CustomerResponse, error)
	GetBiller(ctx context.Context, id string) (*BillerResponse, error)

	ListSuppliers(ctx context.Context, page, limit int) ([]SupplierResponse, int64, error)
	ListCustomers(ctx context.Context, page, limit int) ([]CustomerResponse, int64, error)
	ListBillers(ctx context.Context, page, limit int) ([]BillerResponse, int64, error)

	UpdateSupplier(ctx context.Context, actor authz.Principal, id string, req UpdateSupplierRequest) (*SupplierResponse, error)
	UpdateCustomer(ctx context.Context, actor authz.Principal, id string, req UpdateCustomerRequest) (*CustomerResponse, error)
	UpdateBiller(ctx context.Context, actor authz.Principal, id string, req UpdateBillerRequest) (*BillerResponse, error)

	DeleteSupplier(ctx context.Context, actor authz.Principal, id string) error
	DeleteCustomer(ctx context.Context, actor authz.Principal, id string) error
	DeleteBiller(ctx context.Context, actor authz.Principal, id string) error

	OwnerOf(ctx context.Context, kind, id string) (uuid.UUID, error)
}

type profileService struct {
	userRepo      repository.UserRepository
	supplierRepo  repository.SupplierRepository
	customerRepo  repository.CustomerRepository
	billerRepo    repository.BillerRepository
	warehouseRepo repository.WarehouseRepository
	txManager     repository.TransactionManager
	audit         AuditService

	supplierPrefix string
	billerPrefix   string
}

func NewProfileService(
	userRepo repository.UserRepository,
	supplierRepo repository.SupplierRepository,
	customerRepo repository.CustomerRepository,
	billerRepo repository.BillerRepository,
	warehouseRepo repository.WarehouseRepository,
	txManager repository.TransactionManager,
	audit AuditService,
	supplierPrefix, billerPrefix string,
) ProfileService {
	return &profileService{
		userRepo:       userRepo,
		supplierRepo:   supplierRepo,
		customerRepo:   customerRepo,
		billerRepo:     billerRepo,
		warehouseRepo:  warehouseRepo,
		txManager:      txManager,
		audit:          audit,
		supplierPrefix: supplierPrefix,
		billerPrefix:   billerPrefix,
	}
}

// checkRole rejects payloads whose declared role disagrees with the profile
// type being created. The endpoint decides the role, never the client.
func checkRole(p *AccountPayload, want string) error {
	if p.Role != "" && p.Role != want {
		return fmt.Errorf("%w: role %q does not match %s profile", apperror.ErrConflict, p.Role, want)
	}
	p.Role = want
	return nil
}

func toAddress(p AddressPayload) model.Address {
	return model.Address{Country: p.Country, City: p.City, Street: p.Street, ZipCode: p.ZipCode}
}

func stamp(actor authz.Principal) model.AuditStamp {
	id := actor.UserID
	return model.AuditStamp{CreatedByID: &id, ModifiedByID: &id}
}

// --- Suppliers ---

func (s *profileService) CreateSupplier(ctx context.Context, actor authz.Principal, req CreateSupplierRequest) (*SupplierResponse, error) {
	if err := checkRole(&req.User, model.RoleSupplier); err != nil {
		return nil, err
	}
	if err := validateNewAccount(ctx, s.userRepo, req.User); err != nil {
		return nil, err
	}

	user, err := buildUser(req.User)
	if err != nil {
		return nil, err
	}

	var supplier *model.Supplier
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		// Best-effort sequential tag; concurrent creates may mint duplicates
		count, err := s.supplierRepo.Count(txCtx)
		if err != nil {
			return err
		}
		supplier = &model.Supplier{
			UserID:       user.ID,
			Company:      req.Company,
			SupplierCode: fmt.Sprintf("%s%d", s.supplierPrefix, count+1),
			Address:      toAddress(req.AddressPayload),
			AuditStamp:   stamp(actor),
		}
		return s.supplierRepo.Create(txCtx, supplier)
	})
	if err != nil {
		return nil, err
	}

	supplier.User = *user
	s.audit.Record(ctx, &actor.UserID, model.ActionCreateSupplier, supplier.ID.String(), user.Username, map[string]string{"supplier_code": supplier.SupplierCode})

	return mapToSupplierResponse(supplier), nil
}

func (s *profileService) GetSupplier(ctx context.Context, id string) (*SupplierResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewValidation("id", "invalid supplier ID")
	}
	supplier, err := s.supplierRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: supplier", apperror.ErrNotFound)
	}
	return mapToSupplierResponse(supplier), nil
}

func (s *profileService) ListSuppliers(ctx context.Context, page, limit int) ([]SupplierResponse, int64, error) {
	suppliers, total, err := s.supplierRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		res = append(res, *mapToSupplierResponse(&suppliers[i]))
	}
	return res, total, nil
}

func (s *profileService) UpdateSupplier(ctx context.Context, actor authz.Principal, id string, req UpdateSupplierRequest) (*SupplierResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewValidation("id", "invalid supplier ID")
	}
	supplier, err := s.supplierRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: supplier", apperror.ErrNotFound)
	}

	if req.Company != nil {
		supplier.Company = *req.Company
	}
	if req.Country != nil {
		supplier.Country = *req.Country
	}
	if req.City != nil {
		supplier.City = *req.City
	}
	if req.Street != nil {
		supplier.Street = *req.Street
	}
	if req.ZipCode != nil {
		supplier.ZipCode = *req.ZipCode
	}
	actorID := actor.UserID
	supplier.ModifiedByID = &actorID

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &actorID, model.ActionUpdateProfile, supplier.ID.String(), supplier.User.Username, req)
	return mapToSupplierResponse(supplier), nil
}

func (s *profileService) DeleteSupplier(ctx context.Context, actor authz.Principal, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewValidation("id", "invalid supplier ID")
	}
	supplier, err := s.supplierRepo.GetByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("%w: supplier", apperror.ErrNotFound)
	}
	if err := s.supplierRepo.Delete(ctx, uid); err != nil {
		return err
	}
	s.audit.Record(ctx, &actor.UserID, model.ActionDeleteProfile, id, supplier.User.Username, nil)
	return nil
}

// --- Customers ---

func (s *profileService) CreateCustomer(ctx context.Context, actor authz.Principal, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := checkRole(&req.User, model.RoleCustomer); err != nil {
		return nil, err
	}
	if err := validateNewAccount(ctx, s.userRepo, req.User); err != nil {
		return nil, err
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apperror.NewValidation("supplier_id", "invalid supplier ID")
	}
	if _, err := s.supplierRepo.GetByID(ctx, supplierID); err != nil {
		return nil, apperror.NewValidation("supplier_id", "supplier does not exist")
	}

	user, err := buildUser(req.User)
	if err != nil {
		return nil, err
	}

	var customer *model.Customer
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		customer = &model.Customer{
			UserID:        user.ID,
			SupplierID:    supplierID,
			CustomerGroup: req.CustomerGroup,
			RewardPoint:   0,
			Address:       toAddress(req.AddressPayload),
			AuditStamp:    stamp(actor),
		}
		return s.customerRepo.Create(txCtx, customer)
	})
	if err != nil {
		return nil, err
	}

	customer.User = *user
	s.audit.Record(ctx, &actor.UserID, model.ActionCreateCustomer, customer.ID.String(), user.Username, map[string]string{"customer_group": req.CustomerGroup})

	return mapToCustomerResponse(customer), nil
}

func (s *profileService) GetCustomer(ctx context.Context, id string) (*CustomerResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewValidation("id", "invalid customer ID")
	}
	customer, err := s.customerRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: customer", apperror.ErrNotFound)
	}
	return mapToCustomerResponse(customer), nil
}

func (s *profileService) ListCustomers(ctx context.Context, page, limit int) ([]CustomerResponse, int64, error) {
	customers, total, err := s.customerRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		res = append(res, *mapToCustomerResponse(&customers[i]))
	}
	return res, total, nil
}

func (s *profileService) UpdateCustomer(ctx context.Context, actor authz.Principal, id string, req UpdateCustomerRequest) (*CustomerResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewValidation("id", "invalid customer ID")
	}
	customer, err := s.customerRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: customer", apperror.ErrNotFound)
	}

	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, apperror.NewValidation("supplier_id", "invalid supplier ID")
		}
		if _, err := s.supplierRepo.GetByID(ctx, sid); err != nil {
			return nil, apperror.NewValidation("supplier_id", "supplier does not exist")
		}
		customer.SupplierID = sid
	}
	if req.CustomerGroup != nil {
		switch *req.CustomerGroup {
		case model.CustomerGroupGeneral, model.CustomerGroupWalkIn, model.CustomerGroupWholesale:
			customer.CustomerGroup = *req.CustomerGroup
		default:
			return nil, apperror.NewValidation("customer_group", "must be one of: general, walkin, wholesale")
		}
	}
	if req.RewardPoint != nil {
		if *req.RewardPoint < 0 {
			return nil, apperror.NewValidation("reward_point", "must not be negative")
		}
		customer.RewardPoint = *req.RewardPoint
	}
	actorID := actor.UserID
	customer.ModifiedByID = &actorID

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &actorID, model.ActionUpdateProfile, customer.ID.String(), customer.User.Username, req)
	return mapToCustomerResponse(customer), nil
}

func (s *profileService) DeleteCustomer(ctx context.Context, actor authz.Principal, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewValidation("id", "invalid customer ID")
	}
	customer, err := s.customerRepo.GetByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("%w: customer", apperror.ErrNotFound)
	}
	if err := s.customerRepo.Delete(ctx, uid); err != nil {
		return err
	}
	s.audit.Record(ctx, &actor.UserID, model.ActionDeleteProfile, id, customer.User.Username, nil)
	return nil
}

// --- Billers ---

func (s *profileService) CreateBiller(ctx context.Context, actor authz.Principal, req CreateBillerRequest) (*BillerResponse, error) {
	if err := checkRole(&req.User, model.RoleBiller); err != nil {
		return nil, err
	}
	if err := validateNewAccount(ctx, s.userRepo, req.User); err != nil {
		return nil, err
	}

	var warehouseID *uuid.UUID
	if req.WarehouseID != nil && *req.WarehouseID != "" {
		wid, err := uuid.Parse(*req.WarehouseID)
		if err != nil {
			return nil, apperror.NewValidation("warehouse_id", "invalid warehouse ID")
		}
		if _, err := s.warehouseRepo.GetByID(ctx, wid); err != nil {
			return nil, apperror.NewValidation("warehouse_id", "warehouse does not exist")
		}
		warehouseID = &wid
	}

	user, err := buildUser(req.User)
	if err != nil {
		return nil, err
	}

	var biller *model.Biller
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		count, err := s.billerRepo.Count(txCtx)
		if err != nil {
			return err
		}
		biller = &model.Biller{
			UserID:      user.ID,
			NID:         req.NID,
			WarehouseID: warehouseID,
			BillerCode:  fmt.Sprintf("%s%d", s.billerPrefix, count+1),
			Address:     toAddress(req.AddressPayload),
			AuditStamp:  stamp(actor),
		}
		return s.billerRepo.Create(txCtx, biller)
	})
	if err != nil {
		return nil, err
	}

	biller.User = *user
	s.audit.Record(ctx, &actor.UserID, model.ActionCreateBiller, biller.ID.String(), user.Username, map[string]string{"biller_code": biller.BillerCode})

	return mapToBillerResponse(biller), nil
}

func (s *profileService) GetBiller(ctx context.Context, id string) (*BillerResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewValidation("id", "invalid biller ID")
	}
	biller, err := s.billerRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: biller", apperror.ErrNotFound)
	}
	return mapToBillerResponse(biller), nil
}

func (s *profileService) ListBillers(ctx context.Context, page, limit int) ([]BillerResponse, int64, error) {
	billers, total, err := s.billerRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]BillerResponse, 0, len(billers))
	for i := range billers {
		res = append(res, *mapToBillerResponse(&billers[i]))
	}
	return res, total, nil
}

func (s *profileService) UpdateBiller(ctx context.Context, actor authz.Principal, id string, req UpdateBillerRequest) (*BillerResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewValidation("id", "invalid biller ID")
	}
	biller, err := s.billerRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: biller", apperror.ErrNotFound)
	}

	if req.NID != nil {
		biller.NID = *req.NID
	}
	if req.WarehouseID != nil {
		if *req.WarehouseID == "" {
			biller.WarehouseID = nil
		} else {
			wid, err := uuid.Parse(*req.WarehouseID)
			if err != nil {
				return nil, apperror.NewValidation("warehouse_id", "invalid warehouse ID")
			}
			if _, err := s.warehouseRepo.GetByID(ctx, wid); err != nil {
				return nil, apperror.NewValidation("warehouse_id", "warehouse does not exist")
			}
			biller.WarehouseID = &wid
		}
	}
	actorID := actor.UserID
	biller.ModifiedByID = &actorID

	if err := s.billerRepo.Update(ctx, biller); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &actorID, model.ActionUpdateProfile, biller.ID.String(), biller.User.Username, req)
	return mapToBillerResponse(biller), nil
}

func (s *profileService) DeleteBiller(ctx context.Context, actor authz.Principal, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewValidation("id", "invalid biller ID")
	}
	biller, err := s.billerRepo.GetByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("%w: biller", apperror.ErrNotFound)
	}
	if err := s.billerRepo.Delete(ctx, uid); err != nil {
		return err
	}
	s.audit.Record(ctx, &actor.UserID, model.ActionDeleteProfile, id, biller.User.Username, nil)
	return nil
}

// OwnerOf resolves the owning account of a profile, for the ownership check
// of the authorization gate.
func (s *profileService) OwnerOf(ctx context.Context, kind, id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperror.NewValidation("id", "invalid ID")
	}
	switch kind {
	case "supplier":
		p, err := s.supplierRepo.GetByID(ctx, uid)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: supplier", apperror.ErrNotFound)
		}
		return p.UserID, nil
	case "customer":
		p, err := s.customerRepo.GetByID(ctx, uid)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: customer", apperror.ErrNotFound)
		}
		return p.UserID, nil
	case "biller":
		p, err := s.billerRepo.GetByID(ctx, uid)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: biller", apperror.ErrNotFound)
		}
		return p.UserID, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: unknown profile kind %q", apperror.ErrNotFound, kind)
	}
}

// --- Response mappers ---

func mapToSupplierResponse(s *model.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:           s.ID,
		User:         *mapToUserResponse(&s.User),
		Company:      s.Company,
		SupplierCode: s.SupplierCode,
		Country:      s.Country,
		City:         s.City,
		Street:       s.Street,
		ZipCode:      s.ZipCode,
	}
}

func mapToCustomerResponse(c *model.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:            c.ID,
		User:          *mapToUserResponse(&c.User),
		SupplierID:    c.SupplierID,
		CustomerGroup: c.CustomerGroup,
		RewardPoint:   c.RewardPoint,
	}
}

func mapToBillerResponse(b *model.Biller) *BillerResponse {
	return &BillerResponse{
		ID:          b.ID,
		User:        *mapToUserResponse(&b.User),
		NID:         b.NID,
		WarehouseID: b.WarehouseID,
		BillerCode:  b.BillerCode,
	}
}
