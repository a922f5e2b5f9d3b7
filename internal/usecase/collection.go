package usecase

import (
	"context"
	"errors"

	"github.com/museumaceh/baservice/internal/domain"
	"github.com/museumaceh/baservice/internal/infrastructure/repository"
)

// CollectionRepository defines persistence for master collection records.
type CollectionRepository interface {
	List(ctx context.Context, opts repository.ListOptions) ([]domain.Collection, repository.PageMeta, error)
	GetByID(ctx context.Context, id string) (*domain.Collection, error)
	Create(ctx context.Context, in domain.CollectionInput) (*domain.Collection, error)
	Update(ctx context.Context, id string, upd domain.CollectionUpdate) (*domain.Collection, error)
	Delete(ctx context.Context, id string) error
	InventoryNumberTaken(ctx context.Context, inventoryNumber string, excludeID string) (bool, error)
}

type CollectionUsecase struct {
	repo CollectionRepository
}

func NewCollectionUsecase(repo CollectionRepository) *CollectionUsecase {
	return &CollectionUsecase{repo: repo}
}

func (uc *CollectionUsecase) List(ctx context.Context, opts repository.ListOptions) ([]domain.Collection, repository.PageMeta, error) {
	return uc.repo.List(ctx, opts)
}

func (uc *CollectionUsecase) Get(ctx context.Context, id string) (*domain.Collection, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *CollectionUsecase) Create(ctx context.Context, in domain.CollectionInput) (*domain.Collection, error) {
	if in.InventoryNumber == "" || in.Name == "" {
		return nil, domain.ValidationError{Message: "inventoryNumber and name are required"}
	}
	if in.Condition == "" {
		in.Condition = domain.ConditionGood
	}
	if !domain.IsValidCondition(in.Condition) {
		return nil, domain.ValidationError{Message: "invalid condition '" + in.Condition + "'"}
	}

	taken, err := uc.repo.InventoryNumberTaken(ctx, in.InventoryNumber, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ConflictError{Field: "inventory number", Value: in.InventoryNumber}
	}

	created, err := uc.repo.Create(ctx, in)
	if errors.Is(err, domain.ErrConflict) {
		// Lost the check-then-insert race; the unique index is authoritative.
		return nil, domain.ConflictError{Field: "inventory number", Value: in.InventoryNumber}
	}
	return created, err
}

func (uc *CollectionUsecase) Update(ctx context.Context, id string, upd domain.CollectionUpdate) (*domain.Collection, error) {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if upd.Condition != nil && !domain.IsValidCondition(*upd.Condition) {
		return nil, domain.ValidationError{Message: "invalid condition '" + *upd.Condition + "'"}
	}
	if upd.InventoryNumber != nil {
		taken, err := uc.repo.InventoryNumberTaken(ctx, *upd.InventoryNumber, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ConflictError{Field: "inventory number", Value: *upd.InventoryNumber}
		}
	}
	return uc.repo.Update(ctx, id, upd)
}

func (uc *CollectionUsecase) Delete(ctx context.Context, id string) (*domain.Collection, error) {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return existing, nil
}
