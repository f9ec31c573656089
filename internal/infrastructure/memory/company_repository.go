package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// CompanyRepository empresas y módulos contratados.
type CompanyRepository struct{ v view }

var _ repository.CompanyRepository = (*CompanyRepository)(nil)

func (r *CompanyRepository) Create(_ context.Context, c *entity.Company) error {
	return r.v.write(func(d *data) error {
		for _, existing := range d.companies {
			if existing.NIT == c.NIT {
				return domain.ErrDuplicate
			}
		}
		d.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepository) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	r.v.read(func(d *data) {
		if c, ok := d.companies[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *CompanyRepository) GetByNIT(_ context.Context, nit string) (*entity.Company, error) {
	var out *entity.Company
	r.v.read(func(d *data) {
		for _, c := range d.companies {
			if c.NIT == nit {
				c := c
				out = &c
				return
			}
		}
	})
	return out, nil
}

// ActivateModule crea o reactiva la fila (empresa, módulo).
func (r *CompanyRepository) ActivateModule(_ context.Context, m *entity.CompanyModule) error {
	return r.v.write(func(d *data) error {
		for i := range d.modules {
			if d.modules[i].CompanyID == m.CompanyID && d.modules[i].ModuleName == m.ModuleName {
				d.modules[i].IsActive = true
				d.modules[i].ExpiresAt = m.ExpiresAt
				d.modules[i].UpdatedAt = m.UpdatedAt
				return nil
			}
		}
		d.modules = append(d.modules, *m)
		return nil
	})
}

func (r *CompanyRepository) HasActiveModule(_ context.Context, companyID, moduleName string) (bool, error) {
	now := time.Now()
	active := false
	r.v.read(func(d *data) {
		for _, m := range d.modules {
			if m.CompanyID == companyID && m.ModuleName == moduleName && m.IsActive &&
				(m.ExpiresAt == nil || m.ExpiresAt.After(now)) {
				active = true
				return
			}
		}
	})
	return active, nil
}
