package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/museumaceh/baservice/internal/domain"
	"github.com/museumaceh/baservice/internal/infrastructure/database"
	"github.com/museumaceh/baservice/internal/infrastructure/database/models"
)

var collectionSpec = querySpec{
	filterColumns: map[string]string{
		"category":  "category",
		"condition": "condition",
		"location":  "location",
	},
	sortColumns: map[string]string{
		"inventoryNumber": "inventory_number",
		"name":            "name",
		"condition":       "condition",
		"createdAt":       "c_date",
	},
	searchColumn: "name",
	defaultSort:  "inventory_number",
	defaultAsc:   true,
}

type CollectionRepository struct {
	store *database.Store
}

func NewCollectionRepository(store *database.Store) *CollectionRepository {
	return &CollectionRepository{store: store}
}

func (r *CollectionRepository) List(ctx context.Context, opts ListOptions) ([]domain.Collection, PageMeta, error) {
	q, err := collectionSpec.build(&models.Collection{}, opts)
	if err != nil {
		return nil, PageMeta{}, err
	}

	var rows []models.Collection
	total, err := r.store.Find(ctx, &rows, q)
	if err != nil {
		return nil, PageMeta{}, err
	}

	result := make([]domain.Collection, 0, len(rows))
	for _, m := range rows {
		result = append(result, collectionToDomain(m))
	}
	return result, NewPageMeta(total, opts.Page, opts.Limit), nil
}

func (r *CollectionRepository) GetByID(ctx context.Context, id string) (*domain.Collection, error) {
	var m models.Collection
	if err := r.store.FindByID(ctx, &m, id); err != nil {
		return nil, err
	}
	c := collectionToDomain(m)
	return &c, nil
}

func (r *CollectionRepository) Create(ctx context.Context, in domain.CollectionInput) (*domain.Collection, error) {
	m := models.Collection{
		ID:              uuid.NewString(),
		InventoryNumber: in.InventoryNumber,
		Name:            in.Name,
		Category:        in.Category,
		Condition:       in.Condition,
		Location:        in.Location,
	}
	if err := r.store.Insert(ctx, &m); err != nil {
		return nil, err
	}
	c := collectionToDomain(m)
	return &c, nil
}

func (r *CollectionRepository) Update(ctx context.Context, id string, upd domain.CollectionUpdate) (*domain.Collection, error) {
	patch := map[string]any{}
	if upd.InventoryNumber != nil {
		patch["inventory_number"] = *upd.InventoryNumber
	}
	if upd.Name != nil {
		patch["name"] = *upd.Name
	}
	if upd.Category != nil {
		patch["category"] = *upd.Category
	}
	if upd.Condition != nil {
		patch["condition"] = *upd.Condition
	}
	if upd.Location != nil {
		patch["location"] = *upd.Location
	}
	if len(patch) > 0 {
		if err := r.store.UpdateByID(ctx, &models.Collection{}, id, patch); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	return r.store.DeleteByID(ctx, &models.Collection{}, id)
}

// UpdateState writes the transaction-time condition to the master record, and
// the destination location when one was supplied. A nil destination leaves
// the current location untouched.
func (r *CollectionRepository) UpdateState(ctx context.Context, id string, condition string, destLocation *string) error {
	patch := map[string]any{"condition": condition}
	if destLocation != nil {
		patch["location"] = *destLocation
	}
	return r.store.UpdateByID(ctx, &models.Collection{}, id, patch)
}

// InventoryNumberTaken reports whether another collection already uses the
// inventory number. Advisory only; the unique index is authoritative.
func (r *CollectionRepository) InventoryNumberTaken(ctx context.Context, inventoryNumber string, excludeID string) (bool, error) {
	return r.store.Exists(ctx, &models.Collection{}, "inventory_number", inventoryNumber, excludeID)
}

func (r *CollectionRepository) CountByCondition(ctx context.Context, condition string) (int64, error) {
	where := map[string]any{}
	if condition != "" {
		where["condition"] = condition
	}
	return r.store.Count(ctx, &models.Collection{}, where)
}

func collectionToDomain(m models.Collection) domain.Collection {
	return domain.Collection{
		ID:              m.ID,
		InventoryNumber: m.InventoryNumber,
		Name:            m.Name,
		Category:        m.Category,
		Condition:       m.Condition,
		Location:        m.Location,
		CreatedAt:       m.CDate,
		UpdatedAt:       m.MDate,
	}
}
