package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

var (
	_ repository.BranchRepository   = (*BranchRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.LicenseRepository  = (*LicenseRepo)(nil)
)

// ── Sucursales ───────────────────────────────────────────────────────────────

// BranchRepo sucursales en memoria.
type BranchRepo struct{ view }

func (r *BranchRepo) Create(_ context.Context, b *entity.Branch) error {
	defer r.lock()()
	if _, ok := r.s.st.branches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *b
	r.s.st.branches[b.ID] = &c
	return nil
}

func (r *BranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	defer r.rlock()()
	b, ok := r.s.st.branches[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r *BranchRepo) List(_ context.Context) ([]*entity.Branch, error) {
	defer r.rlock()()
	list := make([]*entity.Branch, 0, len(r.s.st.branches))
	for _, b := range r.s.st.branches {
		c := *b
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *BranchRepo) Update(_ context.Context, b *entity.Branch) error {
	defer r.lock()()
	if _, ok := r.s.st.branches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *b
	r.s.st.branches[b.ID] = &c
	return nil
}

func (r *BranchRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.branches, id)
	return nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

// UserRepo usuarios en memoria. El email es único sin distinguir mayúsculas.
type UserRepo struct{ view }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.lock()()
	for _, existing := range r.s.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	c := *u
	r.s.st.users[u.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.rlock()()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.rlock()()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.User, error) {
	defer r.rlock()()
	list := make([]*entity.User, 0)
	for _, u := range r.s.st.users {
		if branchID == "" || u.BranchID == branchID {
			c := *u
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	defer r.lock()()
	if _, ok := r.s.st.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.s.st.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	c := *u
	r.s.st.users[u.ID] = &c
	return nil
}

// ── Clientes ─────────────────────────────────────────────────────────────────

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ view }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	defer r.lock()()
	if _, ok := r.s.st.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	r.s.st.customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	defer r.rlock()()
	c, ok := r.s.st.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.Customer, error) {
	defer r.rlock()()
	list := make([]*entity.Customer, 0)
	for _, c := range r.s.st.customers {
		if branchID == "" || c.BranchID == branchID {
			cp := *c
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	defer r.lock()()
	if _, ok := r.s.st.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.st.customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.customers, id)
	return nil
}

// ── Licencia ─────────────────────────────────────────────────────────────────

// LicenseRepo licencia única de la instalación.
type LicenseRepo struct{ view }

func (r *LicenseRepo) Current(_ context.Context) (*entity.License, error) {
	defer r.rlock()()
	if r.s.st.license == nil {
		return nil, nil
	}
	l := *r.s.st.license
	return &l, nil
}

func (r *LicenseRepo) Save(_ context.Context, l *entity.License) error {
	defer r.lock()()
	c := *l
	r.s.st.license = &c
	return nil
}
