package service

import (
	"context"
	"sync"

	"posbackend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. Each store is a map guarded by a mutex; the
// fake transaction manager snapshots every store before running fn and
// restores the snapshots when fn fails, mimicking a rollback.

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*model.User // keyed by ID string
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.users[user.ID.String()] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) findBy(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.Phone == phone })
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]model.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID.String()] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) snapshot() map[string]*model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]*model.User, len(r.users))
	for k, v := range r.users {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

func (r *fakeUserRepo) restore(snap map[string]*model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = snap
}

type fakeSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]*model.Supplier
	createErr error
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: map[uuid.UUID]*model.Supplier{}}
}

func (r *fakeSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.suppliers[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSupplierRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.suppliers {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSupplierRepo) List(_ context.Context, _, _ int) ([]model.Supplier, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.suppliers, id)
	return nil
}

func (r *fakeSupplierRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.suppliers)), nil
}

func (r *fakeSupplierRepo) snapshot() map[uuid.UUID]*model.Supplier {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]*model.Supplier, len(r.suppliers))
	for k, v := range r.suppliers {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

func (r *fakeSupplierRepo) restore(snap map[uuid.UUID]*model.Supplier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers = snap
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*model.Customer
	createErr error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[uuid.UUID]*model.Customer{}}
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) List(_ context.Context, _, _ int) ([]model.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) snapshot() map[uuid.UUID]*model.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]*model.Customer, len(r.customers))
	for k, v := range r.customers {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

func (r *fakeCustomerRepo) restore(snap map[uuid.UUID]*model.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = snap
}

type fakeBillerRepo struct {
	mu        sync.Mutex
	billers   map[uuid.UUID]*model.Biller
	createErr error
}

func newFakeBillerRepo() *fakeBillerRepo {
	return &fakeBillerRepo{billers: map[uuid.UUID]*model.Biller{}}
}

func (r *fakeBillerRepo) Create(_ context.Context, b *model.Biller) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	r.billers[b.ID] = &cp
	return nil
}

func (r *fakeBillerRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Biller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.billers[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBillerRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Biller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.billers {
		if b.UserID == userID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBillerRepo) List(_ context.Context, _, _ int) ([]model.Biller, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Biller, 0, len(r.billers))
	for _, b := range r.billers {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBillerRepo) Update(_ context.Context, b *model.Biller) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.billers[b.ID] = &cp
	return nil
}

func (r *fakeBillerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.billers, id)
	return nil
}

func (r *fakeBillerRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.billers)), nil
}

type fakeWarehouseRepo struct {
	mu         sync.Mutex
	warehouses map[uuid.UUID]*model.Warehouse
}

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{warehouses: map[uuid.UUID]*model.Warehouse{}}
}

func (r *fakeWarehouseRepo) Create(_ context.Context, w *model.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	cp := *w
	r.warehouses[w.ID] = &cp
	return nil
}

func (r *fakeWarehouseRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.warehouses[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeWarehouseRepo) GetByEmail(_ context.Context, email string) (*model.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.warehouses {
		if w.Email == email {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeWarehouseRepo) GetByPhone(_ context.Context, phone string) (*model.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.warehouses {
		if w.Phone == phone {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeWarehouseRepo) List(_ context.Context, _, _ int) ([]model.Warehouse, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Warehouse, 0, len(r.warehouses))
	for _, w := range r.warehouses {
		out = append(out, *w)
	}
	return out, int64(len(out)), nil
}

func (r *fakeWarehouseRepo) Update(_ context.Context, w *model.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.warehouses[w.ID] = &cp
	return nil
}

func (r *fakeWarehouseRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.warehouses, id)
	return nil
}

type fakeChallengeRepo struct {
	mu         sync.Mutex
	challenges map[uuid.UUID]*model.PasswordResetChallenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: map[uuid.UUID]*model.PasswordResetChallenge{}}
}

func (r *fakeChallengeRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.PasswordResetChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.challenges[userID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChallengeRepo) Replace(_ context.Context, c *model.PasswordResetChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.challenges[c.UserID] = &cp
	return nil
}

func (r *fakeChallengeRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.challenges, userID)
	return nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*model.RefreshToken{}}
}

func (r *fakeTokenRepo) Create(_ context.Context, t *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.tokens[t.Token] = &cp
	return nil
}

func (r *fakeTokenRepo) GetByToken(_ context.Context, token string) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTokenRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *fakeTokenRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.UserID.String() == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

// fakeTxManager snapshots the in-memory stores before fn and restores them
// when fn errors, so the rollback semantics of the real transaction manager
// are observable in tests.
type fakeTxManager struct {
	users     *fakeUserRepo
	suppliers *fakeSupplierRepo
	customers *fakeCustomerRepo
}

func (t *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	var userSnap map[string]*model.User
	var supplierSnap map[uuid.UUID]*model.Supplier
	var customerSnap map[uuid.UUID]*model.Customer
	if t.users != nil {
		userSnap = t.users.snapshot()
	}
	if t.suppliers != nil {
		supplierSnap = t.suppliers.snapshot()
	}
	if t.customers != nil {
		customerSnap = t.customers.snapshot()
	}

	if err := fn(ctx); err != nil {
		if t.users != nil {
			t.users.restore(userSnap)
		}
		if t.suppliers != nil {
			t.suppliers.restore(supplierSnap)
		}
		if t.customers != nil {
			t.customers.restore(customerSnap)
		}
		return err
	}
	return nil
}

// fakeAudit captures recorded actions for assertions.
type fakeAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *fakeAudit) Record(_ context.Context, _ *uuid.UUID, action, _, _ string, _ any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

func (a *fakeAudit) GetAuditLogs(_ context.Context, _, _ int) ([]AuditLogResponse, int64, error) {
	return nil, 0, nil
}

// fakeNotifier captures the delivered code, optionally failing.
type fakeNotifier struct {
	mu       sync.Mutex
	sentTo   string
	sentCode string
	sendErr  error
}

func (n *fakeNotifier) SendRecoveryCode(to, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sentTo = to
	n.sentCode = code
	return nil
}
