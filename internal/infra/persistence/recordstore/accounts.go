package recordstore

import (
	"context"
	"slices"

	"elogbook/internal/domain/entity"
	"elogbook/internal/domain/repository"
)

type accountRepository struct {
	s *Store
}

func (r *accountRepository) List(_ context.Context) ([]*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return cloneAll(r.s.accounts), nil
}

func (r *accountRepository) FindByID(_ context.Context, id int) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := r.s.accountIndex(id)
	if idx < 0 {
		return nil, repository.ErrAccountNotFound
	}
	account := r.s.accounts[idx]

	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.usernameHeld(account.Username, 0) {
		return nil, repository.ErrUsernameTaken
	}

	prev := r.s.snapshot()

	stored := *account
	stored.ID = r.s.nextAccountID
	r.s.nextAccountID++
	r.s.accounts = append(r.s.accounts, stored)

	if err := r.s.commit(ctx, prev); err != nil {
		return nil, err
	}

	return &stored, nil
}

func (r *accountRepository) Update(ctx context.Context, id int, patch *entity.AccountPatch) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := r.s.accountIndex(id)
	if idx < 0 {
		return nil, repository.ErrAccountNotFound
	}
	if patch.Username != nil && r.s.usernameHeld(*patch.Username, id) {
		return nil, repository.ErrUsernameTaken
	}

	prev := r.s.snapshot()
	patch.ApplyTo(&r.s.accounts[idx])

	if err := r.s.commit(ctx, prev); err != nil {
		return nil, err
	}
	updated := r.s.accounts[idx]

	return &updated, nil
}

func (r *accountRepository) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev := r.s.snapshot()
	r.s.accounts = slices.DeleteFunc(r.s.accounts, func(a entity.Account) bool { return a.ID == id })

	return r.s.commit(ctx, prev)
}

func (r *accountRepository) ListStaff(_ context.Context) ([]*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return filter(r.s.accounts, func(a *entity.Account) bool { return a.Role == entity.RoleStaff }), nil
}

func (s *Store) accountIndex(id int) int {
	return slices.IndexFunc(s.accounts, func(a entity.Account) bool { return a.ID == id })
}

// usernameHeld reports whether an account other than selfID uses username.
func (s *Store) usernameHeld(username string, selfID int) bool {
	return slices.ContainsFunc(s.accounts, func(a entity.Account) bool {
		return a.Username == username && a.ID != selfID
	})
}
