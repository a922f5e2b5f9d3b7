package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/museumaceh/baservice/internal/domain"
	"github.com/museumaceh/baservice/internal/infrastructure/database"
	"github.com/museumaceh/baservice/internal/infrastructure/database/models"
)

type TransferRepository struct {
	store *database.Store
}

func NewTransferRepository(store *database.Store) *TransferRepository {
	return &TransferRepository{store: store}
}

// CreateHeader inserts the berita acara header row only. Line items are a
// separate statement; the caller owns the ordering and the compensation.
func (r *TransferRepository) CreateHeader(ctx context.Context, in domain.TransferInput) (*domain.Transfer, error) {
	m := models.Transfer{
		ID:             uuid.NewString(),
		DocumentNumber: in.DocumentNumber,
		Type:           in.Type,
		TransferDate:   in.TransferDate,
		Party1ID:       in.Party1ID,
		Party2ID:       in.Party2ID,
		Witness1ID:     in.Witness1ID,
		Witness2ID:     in.Witness2ID,
		CreatedBy:      in.CreatedBy,
	}
	if err := r.store.Insert(ctx, &m); err != nil {
		return nil, err
	}
	t := transferToDomain(m)
	return &t, nil
}

// CreateItems inserts all line items for a header as one multi-row statement.
func (r *TransferRepository) CreateItems(ctx context.Context, transferID string, items []domain.TransferItemInput) error {
	rows := make([]models.TransferItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.TransferItem{
			ID:           uuid.NewString(),
			TransferID:   transferID,
			CollectionID: item.CollectionID,
			Condition:    item.Condition,
			DestLocation: item.DestLocation,
			Notes:        item.Notes,
		})
	}
	return r.store.InsertMany(ctx, &rows)
}

// DeleteHeader removes the header row. The items foreign key declares
// ON DELETE CASCADE, so any line items written for the header go with it.
func (r *TransferRepository) DeleteHeader(ctx context.Context, id string) error {
	return r.store.DeleteByID(ctx, &models.Transfer{}, id)
}

// List returns all transfers with the two party names joined, newest first.
func (r *TransferRepository) List(ctx context.Context) ([]domain.TransferSummary, error) {
	var rows []models.Transfer
	_, err := r.store.Find(ctx, &rows, database.Query{
		Model:       &models.Transfer{},
		OrderColumn: "c_date",
		Ascending:   false,
		Preloads:    []string{"Party1", "Party2"},
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.TransferSummary, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.TransferSummary{
			ID:             m.ID,
			DocumentNumber: m.DocumentNumber,
			Type:           m.Type,
			TransferDate:   m.TransferDate,
			Party1:         staffPtrToDomain(m.Party1),
			Party2:         staffPtrToDomain(m.Party2),
			CreatedAt:      m.CDate,
		})
	}
	return result, nil
}

// FullDetail loads one transfer with parties, witnesses, and every line item
// joined with its collection record, in a single composed read. Missing join
// targets stay nil; only a missing header fails the read.
func (r *TransferRepository) FullDetail(ctx context.Context, id string) (*domain.TransferDetail, error) {
	var m models.Transfer
	err := r.store.FindByID(ctx, &m, id,
		"Party1", "Party2", "Witness1", "Witness2", "Items", "Items.Collection")
	if err != nil {
		return nil, err
	}

	detail := domain.TransferDetail{
		Transfer: transferToDomain(m),
		Party1:   staffPtrToDomain(m.Party1),
		Party2:   staffPtrToDomain(m.Party2),
		Witness1: staffPtrToDomain(m.Witness1),
		Witness2: staffPtrToDomain(m.Witness2),
		Items:    make([]domain.TransferItemDetail, 0, len(m.Items)),
	}
	for _, item := range m.Items {
		d := domain.TransferItemDetail{
			ID:           item.ID,
			Condition:    item.Condition,
			DestLocation: item.DestLocation,
			Notes:        item.Notes,
		}
		if item.Collection != nil {
			c := collectionToDomain(*item.Collection)
			d.Collection = &c
		}
		detail.Items = append(detail.Items, d)
	}
	return &detail, nil
}

func (r *TransferRepository) CountByType(ctx context.Context, transferType string) (int64, error) {
	where := map[string]any{}
	if transferType != "" {
		where["type"] = transferType
	}
	return r.store.Count(ctx, &models.Transfer{}, where)
}

func transferToDomain(m models.Transfer) domain.Transfer {
	return domain.Transfer{
		ID:             m.ID,
		DocumentNumber: m.DocumentNumber,
		Type:           m.Type,
		TransferDate:   m.TransferDate,
		Party1ID:       m.Party1ID,
		Party2ID:       m.Party2ID,
		Witness1ID:     m.Witness1ID,
		Witness2ID:     m.Witness2ID,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CDate,
	}
}

func staffPtrToDomain(m *models.Staff) *domain.Staff {
	if m == nil {
		return nil
	}
	s := staffToDomain(*m)
	return &s
}
