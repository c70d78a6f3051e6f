package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/facturas-api/internal/domain"
	"github.com/jhoicas/facturas-api/internal/domain/entity"
	"github.com/jhoicas/facturas-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type userRow struct {
	seq  int64
	user entity.User
}

// UserRepo usuarios en memoria.
type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.users {
		if strings.EqualFold(row.user.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	stored := *user
	stored.Password = ""
	r.s.users[user.ID] = userRow{seq: r.s.nextSeq(), user: stored}
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	u := row.user
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.users {
		if strings.EqualFold(row.user.Email, email) {
			u := row.user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context, page repository.Page) ([]*entity.User, int, error) {
	r.s.mu.RLock()
	rows := make([]userRow, 0, len(r.s.users))
	for _, row := range r.s.users {
		rows = append(rows, row)
	}
	r.s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]*entity.User, 0, len(rows))
	for _, row := range paginate(rows, page) {
		u := row.user
		out = append(out, &u)
	}
	return out, len(rows), nil
}
