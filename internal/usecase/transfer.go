package usecase

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/museumaceh/baservice/internal/domain"
)

var tracer = otel.Tracer("usecase")

// TransferRepository defines storage operations for berita acara records.
type TransferRepository interface {
	CreateHeader(ctx context.Context, in domain.TransferInput) (*domain.Transfer, error)
	CreateItems(ctx context.Context, transferID string, items []domain.TransferItemInput) error
	DeleteHeader(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.TransferSummary, error)
	FullDetail(ctx context.Context, id string) (*domain.TransferDetail, error)
}

// CollectionStateWriter mutates the current condition/location pair on a
// master collection record.
type CollectionStateWriter interface {
	UpdateState(ctx context.Context, collectionID string, condition string, destLocation *string) error
}

// TransferUsecase coordinates the three-step transfer write sequence. The
// backing store gives per-statement atomicity only, so the sequence is
// header insert, items insert, master-record mutation, with a single
// compensating action: deleting the header. The header is the only row whose
// existence means "this transfer happened"; once it is gone the transfer is
// invisible to every read path, even if some master-record mutations from a
// partially-completed run linger.
type TransferUsecase struct {
	repo        TransferRepository
	collections CollectionStateWriter
}

func NewTransferUsecase(repo TransferRepository, collections CollectionStateWriter) *TransferUsecase {
	return &TransferUsecase{
		repo:        repo,
		collections: collections,
	}
}

// Create runs the transfer saga. It either returns the committed header, or
// an error after which the header is absent from all reads. A
// TransactionFailedError carrying a secondary compensation failure is the one
// case where the header may remain.
func (uc *TransferUsecase) Create(ctx context.Context, input domain.TransferInput) (*domain.Transfer, error) {
	ctx, span := tracer.Start(ctx, "Transfer.Usecase.Create")
	defer span.End()

	// Step 1: everything checkable without touching the store.
	if err := validateTransferInput(input); err != nil {
		span.RecordError(err)
		return nil, err
	}

	// Step 2: header insert. Nothing to compensate on failure.
	header, err := uc.repo.CreateHeader(ctx, input)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to create transfer header")
	}

	// Step 3: one multi-row insert for the line items.
	if err := uc.repo.CreateItems(ctx, header.ID, input.Items); err != nil {
		span.RecordError(err)
		return nil, uc.compensate(ctx, header.ID, errors.Wrap(err, "failed to insert transfer items"))
	}

	// Step 4: mutate each referenced master record. Items reference disjoint
	// collections, so the mutations commute and can run concurrently. The
	// group deliberately does not cancel siblings on first error: every
	// mutation must settle before compensation may touch the header.
	var g errgroup.Group
	for _, item := range input.Items {
		g.Go(func() error {
			err := uc.collections.UpdateState(ctx, item.CollectionID, item.Condition, item.DestLocation)
			if err != nil {
				return errors.Wrapf(err, "failed to update collection %s", item.CollectionID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, uc.compensate(ctx, header.ID, err)
	}

	return header, nil
}

// compensate deletes the header created earlier in the same call and wraps
// the original cause. Mutations already applied to other master records are
// not reverted; with the header gone the transfer is invisible anyway.
// Compensation is detached from the caller's cancellation: a caller that
// gives up mid-saga must not strand a half-written header.
func (uc *TransferUsecase) compensate(ctx context.Context, headerID string, cause error) error {
	dctx := context.WithoutCancel(ctx)
	if err := uc.repo.DeleteHeader(dctx, headerID); err != nil {
		return domain.TransactionFailedError{Cause: cause, CompensationErr: err}
	}
	return domain.TransactionFailedError{Cause: cause}
}

func (uc *TransferUsecase) List(ctx context.Context) ([]domain.TransferSummary, error) {
	return uc.repo.List(ctx)
}

func (uc *TransferUsecase) Detail(ctx context.Context, id string) (*domain.TransferDetail, error) {
	ctx, span := tracer.Start(ctx, "Transfer.Usecase.Detail")
	defer span.End()

	return uc.repo.FullDetail(ctx, id)
}

func validateTransferInput(input domain.TransferInput) error {
	if input.DocumentNumber == "" {
		return domain.ValidationError{Message: "documentNumber is required"}
	}
	if input.TransferDate.IsZero() {
		return domain.ValidationError{Message: "transferDate is required"}
	}
	if input.Party1ID == "" || input.Party2ID == "" {
		return domain.ValidationError{Message: "party1Id and party2Id are required"}
	}
	if !domain.IsValidTransferType(input.Type) {
		return domain.ValidationError{Message: fmt.Sprintf("invalid transfer type '%s'", input.Type)}
	}
	if len(input.Items) == 0 {
		return domain.ValidationError{Message: "a transfer needs at least one collection item"}
	}

	seen := make(map[string]bool, len(input.Items))
	for i, item := range input.Items {
		if item.CollectionID == "" {
			return domain.ValidationError{Message: fmt.Sprintf("item %d is missing collectionId", i+1)}
		}
		if !domain.IsValidCondition(item.Condition) {
			return domain.ValidationError{Message: fmt.Sprintf("item %d has invalid condition '%s'", i+1, item.Condition)}
		}
		if seen[item.CollectionID] {
			return domain.ValidationError{Message: fmt.Sprintf("collection %s appears more than once", item.CollectionID)}
		}
		seen[item.CollectionID] = true
	}
	return nil
}
