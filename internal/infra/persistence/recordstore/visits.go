package recordstore

import (
	"context"
	"slices"
	"time"

	"elogbook/internal/domain/entity"
	"elogbook/internal/domain/repository"
	"elogbook/internal/util"
)

type visitRepository struct {
	s *Store
}

func (r *visitRepository) List(_ context.Context) ([]*entity.VisitEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return cloneAll(r.s.visits), nil
}

func (r *visitRepository) FindByID(_ context.Context, id int) (*entity.VisitEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := r.s.visitIndex(id)
	if idx < 0 {
		return nil, repository.ErrVisitNotFound
	}
	visit := r.s.visits[idx]

	return &visit, nil
}

func (r *visitRepository) Create(ctx context.Context, visit *entity.VisitEntry) (*entity.VisitEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev := r.s.snapshot()

	stored := *visit
	stored.ID = r.s.nextVisitID
	r.s.nextVisitID++
	r.s.visits = append(r.s.visits, stored)

	if err := r.s.commit(ctx, prev); err != nil {
		return nil, err
	}

	return &stored, nil
}

func (r *visitRepository) Update(ctx context.Context, id int, patch *entity.VisitPatch) (*entity.VisitEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := r.s.visitIndex(id)
	if idx < 0 {
		return nil, repository.ErrVisitNotFound
	}

	prev := r.s.snapshot()
	patch.ApplyTo(&r.s.visits[idx])

	if err := r.s.commit(ctx, prev); err != nil {
		return nil, err
	}
	updated := r.s.visits[idx]

	return &updated, nil
}

func (r *visitRepository) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev := r.s.snapshot()
	r.s.visits = slices.DeleteFunc(r.s.visits, func(v entity.VisitEntry) bool { return v.ID == id })

	return r.s.commit(ctx, prev)
}

func (r *visitRepository) ListByDate(_ context.Context, date string) ([]*entity.VisitEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return filter(r.s.visits, func(v *entity.VisitEntry) bool { return v.Date == date }), nil
}

func (r *visitRepository) ListToday(ctx context.Context) ([]*entity.VisitEntry, error) {
	return r.ListByDate(ctx, r.s.today())
}

func (r *visitRepository) ListByDateRange(_ context.Context, from, to string) ([]*entity.VisitEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return filter(r.s.visits, func(v *entity.VisitEntry) bool { return v.Date >= from && v.Date <= to }), nil
}

func (r *visitRepository) ListByStaff(_ context.Context, staffID int) ([]*entity.VisitEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return filter(r.s.visits, func(v *entity.VisitEntry) bool { return v.LoggedBy == staffID }), nil
}

func (r *visitRepository) ListTodayByStaff(_ context.Context, staffID int) ([]*entity.VisitEntry, error) {
	today := r.s.today()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return filter(r.s.visits, func(v *entity.VisitEntry) bool { return v.Date == today && v.LoggedBy == staffID }), nil
}

func (r *visitRepository) CountThisMonth(_ context.Context) (int, error) {
	now := r.s.now().In(r.s.loc)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, v := range r.s.visits {
		d, err := time.Parse(util.DateLayout, v.Date)
		if err != nil {
			continue
		}
		if d.Year() == now.Year() && d.Month() == now.Month() {
			count++
		}
	}

	return count, nil
}

func (s *Store) visitIndex(id int) int {
	return slices.IndexFunc(s.visits, func(v entity.VisitEntry) bool { return v.ID == id })
}
