package service

import (
	"context"
	"errors"
	"testing"

	"posbackend/internal/apperror"
	"posbackend/internal/authz"
	"posbackend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	users      *fakeUserRepo
	suppliers  *fakeSupplierRepo
	customers  *fakeCustomerRepo
	billers    *fakeBillerRepo
	warehouses *fakeWarehouseRepo
	audit      *fakeAudit
	svc        ProfileService
	admin      authz.Principal
}

func newProfileFixture() *profileFixture {
	f := &profileFixture{
		users:      newFakeUserRepo(),
		suppliers:  newFakeSupplierRepo(),
		customers:  newFakeCustomerRepo(),
		billers:    newFakeBillerRepo(),
		warehouses: newFakeWarehouseRepo(),
		audit:      &fakeAudit{},
		admin:      authz.Principal{UserID: uuid.New(), Role: model.RoleAdmin},
	}
	tx := &fakeTxManager{users: f.users, suppliers: f.suppliers, customers: f.customers}
	f.svc = NewProfileService(f.users, f.suppliers, f.customers, f.billers, f.warehouses, tx, f.audit, "SUP-", "BIL-")
	return f
}

func supplierPayload(n string) AccountPayload {
	return AccountPayload{
		FullName:        "Supplier " + n,
		Username:        "supplier" + n,
		Email:           "supplier" + n + "@example.com",
		Phone:           "98410000" + n,
		Gender:          model.GenderMale,
		Password:        "secret1234",
		ConfirmPassword: "secret1234",
	}
}

func TestCreateSupplierAtomic(t *testing.T) {
	f := newProfileFixture()

	res, err := f.svc.CreateSupplier(context.Background(), f.admin, CreateSupplierRequest{
		User:    supplierPayload("01"),
		Company: "Acme Traders",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUP-1", res.SupplierCode)
	assert.Equal(t, model.RoleSupplier, res.User.Role)

	// Account row committed alongside the profile
	_, err = f.users.GetByEmail(context.Background(), "supplier01@example.com")
	assert.NoError(t, err)
}

func TestCreateSupplierRollbackOnProfileFailure(t *testing.T) {
	f := newProfileFixture()
	f.suppliers.createErr = errors.New("constraint violation")

	_, err := f.svc.CreateSupplier(context.Background(), f.admin, CreateSupplierRequest{
		User:    supplierPayload("01"),
		Company: "Acme Traders",
	})
	require.Error(t, err)

	// The user row must not survive a failed profile insert
	_, err = f.users.GetByEmail(context.Background(), "supplier01@example.com")
	assert.Error(t, err, "account row must roll back with the profile")
	_, total, _ := f.users.List(context.Background(), 1, 10)
	assert.Zero(t, total)
}

func TestSupplierCodesAreSequential(t *testing.T) {
	f := newProfileFixture()

	first, err := f.svc.CreateSupplier(context.Background(), f.admin, CreateSupplierRequest{
		User:    supplierPayload("01"),
		Company: "Acme Traders",
	})
	require.NoError(t, err)
	second, err := f.svc.CreateSupplier(context.Background(), f.admin, CreateSupplierRequest{
		User:    supplierPayload("02"),
		Company: "Bulk Goods",
	})
	require.NoError(t, err)

	assert.Equal(t, "SUP-1", first.SupplierCode)
	assert.Equal(t, "SUP-2", second.SupplierCode)
}

func TestCreateSupplierRejectsMismatchedRole(t *testing.T) {
	f := newProfileFixture()

	payload := supplierPayload("01")
	payload.Role = model.RoleCustomer
	_, err := f.svc.CreateSupplier(context.Background(), f.admin, CreateSupplierRequest{
		User:    payload,
		Company: "Acme Traders",
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateCustomerStartsWithZeroRewardPoints(t *testing.T) {
	f := newProfileFixture()

	supplier, err := f.svc.CreateSupplier(context.Background(), f.admin, CreateSupplierRequest{
		User:    supplierPayload("01"),
		Company: "Acme Traders",
	})
	require.NoError(t, err)

	customer, err := f.svc.CreateCustomer(context.Background(), f.admin, CreateCustomerRequest{
		User: AccountPayload{
			FullName:        "Carol Customer",
			Username:        "carolcustomer",
			Email:           "carol@example.com",
			Phone:           "9841000099",
			Password:        "secret1234",
			ConfirmPassword: "secret1234",
		},
		SupplierID:    supplier.ID.String(),
		CustomerGroup: model.CustomerGroupGeneral,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, customer.RewardPoint)
	assert.Equal(t, model.RoleCustomer, customer.User.Role)
	assert.Equal(t, supplier.ID, customer.SupplierID)
}

func TestCreateCustomerUnknownSupplier(t *testing.T) {
	f := newProfileFixture()

	_, err := f.svc.CreateCustomer(context.Background(), f.admin, CreateCustomerRequest{
		User: AccountPayload{
			FullName:        "Carol Customer",
			Username:        "carolcustomer",
			Email:           "carol@example.com",
			Phone:           "9841000099",
			Password:        "secret1234",
			ConfirmPassword: "secret1234",
		},
		SupplierID:    uuid.NewString(),
		CustomerGroup: model.CustomerGroupGeneral,
	})
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, apperror.FieldsOf(err), "supplier_id")
}

func TestCreateBillerWithWarehouse(t *testing.T) {
	f := newProfileFixture()

	wh := &model.Warehouse{Name: "Main Depot", Email: "depot@example.com", Phone: "9841000050"}
	require.NoError(t, f.warehouses.Create(context.Background(), wh))
	whID := wh.ID.String()

	biller, err := f.svc.CreateBiller(context.Background(), f.admin, CreateBillerRequest{
		User: AccountPayload{
			FullName:        "Bob Biller",
			Username:        "bobbiller",
			Email:           "bob@example.com",
			Phone:           "9841000098",
			Password:        "secret1234",
			ConfirmPassword: "secret1234",
		},
		NID:         "1234567890123",
		WarehouseID: &whID,
	})
	require.NoError(t, err)
	assert.Equal(t, "BIL-1", biller.BillerCode)
	require.NotNil(t, biller.WarehouseID)
	assert.Equal(t, wh.ID, *biller.WarehouseID)
}

func TestUpdateCustomerRejectsNegativeRewardPoints(t *testing.T) {
	f := newProfileFixture()

	supplier, err := f.svc.CreateSupplier(context.Background(), f.admin, CreateSupplierRequest{
		User:    supplierPayload("01"),
		Company: "Acme Traders",
	})
	require.NoError(t, err)

	customer, err := f.svc.CreateCustomer(context.Background(), f.admin, CreateCustomerRequest{
		User: AccountPayload{
			FullName:        "Carol Customer",
			Username:        "carolcustomer",
			Email:           "carol@example.com",
			Phone:           "9841000099",
			Password:        "secret1234",
			ConfirmPassword: "secret1234",
		},
		SupplierID:    supplier.ID.String(),
		CustomerGroup: model.CustomerGroupGeneral,
	})
	require.NoError(t, err)

	negative := -5
	_, err = f.svc.UpdateCustomer(context.Background(), f.admin, customer.ID.String(), UpdateCustomerRequest{RewardPoint: &negative})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestOwnerOf(t *testing.T) {
	f := newProfileFixture()

	supplier, err := f.svc.CreateSupplier(context.Background(), f.admin, CreateSupplierRequest{
		User:    supplierPayload("01"),
		Company: "Acme Traders",
	})
	require.NoError(t, err)

	owner, err := f.svc.OwnerOf(context.Background(), "supplier", supplier.ID.String())
	require.NoError(t, err)
	assert.Equal(t, supplier.User.ID, owner)

	_, err = f.svc.OwnerOf(context.Background(), "supplier", uuid.NewString())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.OwnerOf(context.Background(), "unknown", supplier.ID.String())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteSupplier(t *testing.T) {
	f := newProfileFixture()

	supplier, err := f.svc.CreateSupplier(context.Background(), f.admin, CreateSupplierRequest{
		User:    supplierPayload("01"),
		Company: "Acme Traders",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSupplier(context.Background(), f.admin, supplier.ID.String()))
	_, err = f.svc.GetSupplier(context.Background(), supplier.ID.String())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
