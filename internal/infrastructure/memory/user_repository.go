package memory

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// UserRepository usuarios.
type UserRepository struct{ v view }

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	return r.v.write(func(d *data) error {
		for _, existing := range d.users {
			if existing.Email == u.Email && existing.CompanyID == u.CompanyID {
				return domain.ErrEmailAlreadyExists
			}
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.v.read(func(d *data) {
		if u, ok := d.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email }), nil
}

func (r *UserRepository) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email && u.CompanyID == companyID }), nil
}

func (r *UserRepository) find(match func(entity.User) bool) *entity.User {
	var out *entity.User
	r.v.read(func(d *data) {
		for _, u := range d.users {
			if match(u) {
				u := u
				out = &u
				return
			}
		}
	})
	return out
}
