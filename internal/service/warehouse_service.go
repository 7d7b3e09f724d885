package service

import (
	"context"
	"fmt"
	"net/mail"

	"posbackend/internal/apperror"
	"posbackend/internal/authz"
	"posbackend/internal/model"
	"posbackend/internal/repository"

	"github.com/google/uuid"
)

type CreateWarehouseRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	AddressPayload
}

type UpdateWarehouseRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Country *string `json:"country"`
	City    *string `json:"city"`
	Street  *string `json:"street"`
	ZipCode *int    `json:"zip_code"`
}

type WarehouseResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	Email   string    `json:"email"`
	Country string    `json:"country"`
	City    string    `json:"city"`
	Street  string    `json:"street,omitempty"`
	ZipCode int       `json:"zip_code,omitempty"`
}

type WarehouseService interface {
	CreateWarehouse(ctx context.Context, actor authz.Principal, req CreateWarehouseRequest) (*WarehouseResponse, error)
	GetWarehouse(ctx context.Context, id string) (*WarehouseResponse, error)
	ListWarehouses(ctx context.Context, page, limit int) ([]WarehouseResponse, int64, error)
	UpdateWarehouse(ctx context.Context, actor authz.Principal, id string, req UpdateWarehouseRequest) (*WarehouseResponse, error)
	DeleteWarehouse(ctx context.Context, actor authz.Principal, id string) error
}

type warehouseService struct {
	repo  repository.WarehouseRepository
	audit AuditService
}

func NewWarehouseService(repo repository.WarehouseRepository, audit AuditService) WarehouseService {
	return &warehouseService{repo: repo, audit: audit}
}

func (s *warehouseService) CreateWarehouse(ctx context.Context, actor authz.Principal, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	fields := map[string]string{}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "invalid email format"
	}
	if !phoneRegex.MatchString(req.Phone) {
		fields["phone"] = "must be numeric with 7 to 15 digits"
	}
	if _, ok := fields["email"]; !ok {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			fields["email"] = "already in use"
		}
	}
	if _, ok := fields["phone"]; !ok {
		if _, err := s.repo.GetByPhone(ctx, req.Phone); err == nil {
			fields["phone"] = "already in use"
		}
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationFields(fields)
	}

	warehouse := &model.Warehouse{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    toAddress(req.AddressPayload),
		AuditStamp: stamp(actor),
	}
	if err := s.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &actor.UserID, model.ActionCreateWarehouse, warehouse.ID.String(), warehouse.Name, nil)
	return mapToWarehouseResponse(warehouse), nil
}

func (s *warehouseService) GetWarehouse(ctx context.Context, id string) (*WarehouseResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewValidation("id", "invalid warehouse ID")
	}
	warehouse, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: warehouse", apperror.ErrNotFound)
	}
	return mapToWarehouseResponse(warehouse), nil
}

func (s *warehouseService) ListWarehouses(ctx context.Context, page, limit int) ([]WarehouseResponse, int64, error) {
	warehouses, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		res = append(res, *mapToWarehouseResponse(&warehouses[i]))
	}
	return res, total, nil
}

func (s *warehouseService) UpdateWarehouse(ctx context.Context, actor authz.Principal, id string, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NewValidation("id", "invalid warehouse ID")
	}
	warehouse, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: warehouse", apperror.ErrNotFound)
	}

	if req.Name != nil {
		warehouse.Name = *req.Name
	}
	if req.Phone != nil && *req.Phone != warehouse.Phone {
		if !phoneRegex.MatchString(*req.Phone) {
			return nil, apperror.NewValidation("phone", "must be numeric with 7 to 15 digits")
		}
		if _, err := s.repo.GetByPhone(ctx, *req.Phone); err == nil {
			return nil, apperror.NewValidation("phone", "already in use")
		}
		warehouse.Phone = *req.Phone
	}
	if req.Email != nil && *req.Email != warehouse.Email {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return nil, apperror.NewValidation("email", "invalid email format")
		}
		if _, err := s.repo.GetByEmail(ctx, *req.Email); err == nil {
			return nil, apperror.NewValidation("email", "already in use")
		}
		warehouse.Email = *req.Email
	}
	if req.Country != nil {
		warehouse.Country = *req.Country
	}
	if req.City != nil {
		warehouse.City = *req.City
	}
	if req.Street != nil {
		warehouse.Street = *req.Street
	}
	if req.ZipCode != nil {
		warehouse.ZipCode = *req.ZipCode
	}
	actorID := actor.UserID
	warehouse.ModifiedByID = &actorID

	if err := s.repo.Update(ctx, warehouse); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &actorID, model.ActionUpdateWarehouse, id, warehouse.Name, req)
	return mapToWarehouseResponse(warehouse), nil
}

// DeleteWarehouse removes the warehouse; billers attached to it are detached,
// never deleted.
func (s *warehouseService) DeleteWarehouse(ctx context.Context, actor authz.Principal, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewValidation("id", "invalid warehouse ID")
	}
	warehouse, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("%w: warehouse", apperror.ErrNotFound)
	}
	if err := s.repo.Delete(ctx, uid); err != nil {
		return err
	}
	s.audit.Record(ctx, &actor.UserID, model.ActionDeleteWarehouse, id, warehouse.Name, nil)
	return nil
}

func mapToWarehouseResponse(w *model.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:      w.ID,
		Name:    w.Name,
		Phone:   w.Phone,
		Email:   w.Email,
		Country: w.Country,
		City:    w.City,
		Street:  w.Street,
		ZipCode: w.ZipCode,
	}
}
