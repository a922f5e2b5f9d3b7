package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/museumaceh/baservice/internal/domain"
	"github.com/museumaceh/baservice/internal/infrastructure/database"
	"github.com/museumaceh/baservice/internal/infrastructure/database/models"
)

var staffSpec = querySpec{
	filterColumns: map[string]string{
		"title": "title",
	},
	sortColumns: map[string]string{
		"name":      "name",
		"idNumber":  "id_number",
		"createdAt": "c_date",
	},
	searchColumn: "name",
	defaultSort:  "name",
	defaultAsc:   true,
}

type StaffRepository struct {
	store *database.Store
}

func NewStaffRepository(store *database.Store) *StaffRepository {
	return &StaffRepository{store: store}
}

func (r *StaffRepository) List(ctx context.Context, opts ListOptions) ([]domain.Staff, PageMeta, error) {
	q, err := staffSpec.build(&models.Staff{}, opts)
	if err != nil {
		return nil, PageMeta{}, err
	}

	var rows []models.Staff
	total, err := r.store.Find(ctx, &rows, q)
	if err != nil {
		return nil, PageMeta{}, err
	}

	result := make([]domain.Staff, 0, len(rows))
	for _, m := range rows {
		result = append(result, staffToDomain(m))
	}
	return result, NewPageMeta(total, opts.Page, opts.Limit), nil
}

func (r *StaffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	var m models.Staff
	if err := r.store.FindByID(ctx, &m, id); err != nil {
		return nil, err
	}
	s := staffToDomain(m)
	return &s, nil
}

func (r *StaffRepository) Create(ctx context.Context, in domain.StaffInput) (*domain.Staff, error) {
	m := models.Staff{
		ID:       uuid.NewString(),
		Name:     in.Name,
		IDNumber: in.IDNumber,
		Title:    in.Title,
		Address:  in.Address,
	}
	if err := r.store.Insert(ctx, &m); err != nil {
		return nil, err
	}
	s := staffToDomain(m)
	return &s, nil
}

func (r *StaffRepository) Update(ctx context.Context, id string, upd domain.StaffUpdate) (*domain.Staff, error) {
	patch := map[string]any{}
	if upd.Name != nil {
		patch["name"] = *upd.Name
	}
	if upd.IDNumber != nil {
		patch["id_number"] = *upd.IDNumber
	}
	if upd.Title != nil {
		patch["title"] = *upd.Title
	}
	if upd.Address != nil {
		patch["address"] = *upd.Address
	}
	if len(patch) > 0 {
		if err := r.store.UpdateByID(ctx, &models.Staff{}, id, patch); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	return r.store.DeleteByID(ctx, &models.Staff{}, id)
}

// IDNumberTaken reports whether another staff member already uses the ID
// number. Advisory only; the unique index is authoritative.
func (r *StaffRepository) IDNumberTaken(ctx context.Context, idNumber string, excludeID string) (bool, error) {
	return r.store.Exists(ctx, &models.Staff{}, "id_number", idNumber, excludeID)
}

func (r *StaffRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx, &models.Staff{}, nil)
}

func staffToDomain(m models.Staff) domain.Staff {
	return domain.Staff{
		ID:        m.ID,
		Name:      m.Name,
		IDNumber:  m.IDNumber,
		Title:     m.Title,
		Address:   m.Address,
		CreatedAt: m.CDate,
	}
}
