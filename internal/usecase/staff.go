package usecase

import (
	"context"
	"errors"

	"github.com/museumaceh/baservice/internal/domain"
	"github.com/museumaceh/baservice/internal/infrastructure/repository"
)

// StaffRepository defines persistence for staff records.
type StaffRepository interface {
	List(ctx context.Context, opts repository.ListOptions) ([]domain.Staff, repository.PageMeta, error)
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	Create(ctx context.Context, in domain.StaffInput) (*domain.Staff, error)
	Update(ctx context.Context, id string, upd domain.StaffUpdate) (*domain.Staff, error)
	Delete(ctx context.Context, id string) error
	IDNumberTaken(ctx context.Context, idNumber string, excludeID string) (bool, error)
}

type StaffUsecase struct {
	repo StaffRepository
}

func NewStaffUsecase(repo StaffRepository) *StaffUsecase {
	return &StaffUsecase{repo: repo}
}

func (uc *StaffUsecase) List(ctx context.Context, opts repository.ListOptions) ([]domain.Staff, repository.PageMeta, error) {
	return uc.repo.List(ctx, opts)
}

func (uc *StaffUsecase) Get(ctx context.Context, id string) (*domain.Staff, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *StaffUsecase) Create(ctx context.Context, in domain.StaffInput) (*domain.Staff, error) {
	if in.Name == "" || in.IDNumber == "" || in.Title == "" {
		return nil, domain.ValidationError{Message: "name, idNumber and title are required"}
	}

	taken, err := uc.repo.IDNumberTaken(ctx, in.IDNumber, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ConflictError{Field: "ID number", Value: in.IDNumber}
	}

	created, err := uc.repo.Create(ctx, in)
	if errors.Is(err, domain.ErrConflict) {
		return nil, domain.ConflictError{Field: "ID number", Value: in.IDNumber}
	}
	return created, err
}

func (uc *StaffUsecase) Update(ctx context.Context, id string, upd domain.StaffUpdate) (*domain.Staff, error) {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if upd.IDNumber != nil {
		taken, err := uc.repo.IDNumberTaken(ctx, *upd.IDNumber, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ConflictError{Field: "ID number", Value: *upd.IDNumber}
		}
	}
	return uc.repo.Update(ctx, id, upd)
}

func (uc *StaffUsecase) Delete(ctx context.Context, id string) (*domain.Staff, error) {
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return existing, nil
}
