package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/museumaceh/baservice/internal/domain"
	"github.com/museumaceh/baservice/internal/infrastructure/repository"
)

type mockStaffRepo struct {
	byID  map[string]domain.Staff
	taken map[string]string // ID number -> record id
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{byID: map[string]domain.Staff{}, taken: map[string]string{}}
}

func (m *mockStaffRepo) List(ctx context.Context, opts repository.ListOptions) ([]domain.Staff, repository.PageMeta, error) {
	return nil, repository.PageMeta{}, nil
}

func (m *mockStaffRepo) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "staff"}
	}
	return &s, nil
}

func (m *mockStaffRepo) Create(ctx context.Context, in domain.StaffInput) (*domain.Staff, error) {
	return &domain.Staff{ID: "stf-1", Name: in.Name, IDNumber: in.IDNumber, Title: in.Title}, nil
}

func (m *mockStaffRepo) Update(ctx context.Context, id string, upd domain.StaffUpdate) (*domain.Staff, error) {
	s := m.byID[id]
	return &s, nil
}

func (m *mockStaffRepo) Delete(ctx context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *mockStaffRepo) IDNumberTaken(ctx context.Context, idNumber string, excludeID string) (bool, error) {
	id, ok := m.taken[idNumber]
	if !ok {
		return false, nil
	}
	return id != excludeID, nil
}

func TestStaffCreateRequiresFields(t *testing.T) {
	uc := NewStaffUsecase(newMockStaffRepo())

	cases := []domain.StaffInput{
		{IDNumber: "197001011990031001", Title: "Kurator"},
		{Name: "Tgk. Hasan", Title: "Kurator"},
		{Name: "Tgk. Hasan", IDNumber: "197001011990031001"},
	}
	for _, in := range cases {
		if _, err := uc.Create(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("input %+v: expected ValidationError, got %v", in, err)
		}
	}
}

func TestStaffCreateDuplicateIDNumber(t *testing.T) {
	repo := newMockStaffRepo()
	repo.taken["197001011990031001"] = "other"
	uc := NewStaffUsecase(repo)

	_, err := uc.Create(context.Background(), domain.StaffInput{
		Name:     "Tgk. Hasan",
		IDNumber: "197001011990031001",
		Title:    "Kurator",
	})
	var conflict domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Value != "197001011990031001" {
		t.Fatalf("expected the conflicting value to be reported, got %+v", conflict)
	}
}

func TestStaffUpdateExcludesSelfFromUniquenessCheck(t *testing.T) {
	repo := newMockStaffRepo()
	repo.byID["stf-1"] = domain.Staff{ID: "stf-1", IDNumber: "197001011990031001"}
	repo.taken["197001011990031001"] = "stf-1"
	uc := NewStaffUsecase(repo)

	nip := "197001011990031001"
	_, err := uc.Update(context.Background(), "stf-1", domain.StaffUpdate{IDNumber: &nip})
	if err != nil {
		t.Fatalf("re-submitting its own ID number must not conflict: %v", err)
	}
}

func TestStaffDeleteMissing(t *testing.T) {
	uc := NewStaffUsecase(newMockStaffRepo())

	_, err := uc.Delete(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
