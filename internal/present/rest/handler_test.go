package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/museumaceh/baservice/internal/config"
	"github.com/museumaceh/baservice/internal/domain"
	"github.com/museumaceh/baservice/internal/infrastructure/repository"
	appmw "github.com/museumaceh/baservice/internal/present/rest/middleware"
	"github.com/museumaceh/baservice/internal/service"
	"github.com/museumaceh/baservice/internal/usecase"
)

type fakeTransferRepo struct {
	items map[string][]domain.TransferItemInput
}

func (f *fakeTransferRepo) CreateHeader(ctx context.Context, in domain.TransferInput) (*domain.Transfer, error) {
	return &domain.Transfer{
		ID:             "ba-1",
		DocumentNumber: in.DocumentNumber,
		Type:           in.Type,
		TransferDate:   in.TransferDate,
		Party1ID:       in.Party1ID,
		Party2ID:       in.Party2ID,
		CreatedBy:      in.CreatedBy,
	}, nil
}

func (f *fakeTransferRepo) CreateItems(ctx context.Context, transferID string, items []domain.TransferItemInput) error {
	if f.items == nil {
		f.items = map[string][]domain.TransferItemInput{}
	}
	f.items[transferID] = items
	return nil
}

func (f *fakeTransferRepo) DeleteHeader(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeTransferRepo) List(ctx context.Context) ([]domain.TransferSummary, error) {
	return []domain.TransferSummary{}, nil
}

func (f *fakeTransferRepo) FullDetail(ctx context.Context, id string) (*domain.TransferDetail, error) {
	if _, ok := f.items[id]; !ok {
		return nil, domain.NotFoundError{Resource: "transfer"}
	}
	return &domain.TransferDetail{
		Transfer: domain.Transfer{ID: id, DocumentNumber: "BA/001/II/2026", Type: domain.TransferHandover},
	}, nil
}

func (f *fakeTransferRepo) CountByType(ctx context.Context, transferType string) (int64, error) {
	return 0, nil
}

type fakeStateWriter struct{}

func (f *fakeStateWriter) UpdateState(ctx context.Context, collectionID string, condition string, destLocation *string) error {
	return nil
}

type fakeCollectionRepo struct{}

func (f *fakeCollectionRepo) List(ctx context.Context, opts repository.ListOptions) ([]domain.Collection, repository.PageMeta, error) {
	return []domain.Collection{}, repository.NewPageMeta(0, opts.Page, opts.Limit), nil
}

func (f *fakeCollectionRepo) GetByID(ctx context.Context, id string) (*domain.Collection, error) {
	return nil, domain.NotFoundError{Resource: "collection"}
}

func (f *fakeCollectionRepo) Create(ctx context.Context, in domain.CollectionInput) (*domain.Collection, error) {
	return &domain.Collection{ID: "col-1", InventoryNumber: in.InventoryNumber, Name: in.Name, Condition: in.Condition}, nil
}

func (f *fakeCollectionRepo) Update(ctx context.Context, id string, upd domain.CollectionUpdate) (*domain.Collection, error) {
	return nil, domain.NotFoundError{Resource: "collection"}
}

func (f *fakeCollectionRepo) Delete(ctx context.Context, id string) error {
	return domain.NotFoundError{Resource: "collection"}
}

func (f *fakeCollectionRepo) InventoryNumberTaken(ctx context.Context, inventoryNumber string, excludeID string) (bool, error) {
	return false, nil
}

func (f *fakeCollectionRepo) CountByCondition(ctx context.Context, condition string) (int64, error) {
	return 0, nil
}

type fakeStaffRepo struct {
	created []domain.StaffInput
}

func (f *fakeStaffRepo) List(ctx context.Context, opts repository.ListOptions) ([]domain.Staff, repository.PageMeta, error) {
	return []domain.Staff{}, repository.NewPageMeta(0, opts.Page, opts.Limit), nil
}

func (f *fakeStaffRepo) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	return nil, domain.NotFoundError{Resource: "staff"}
}

func (f *fakeStaffRepo) Create(ctx context.Context, in domain.StaffInput) (*domain.Staff, error) {
	f.created = append(f.created, in)
	return &domain.Staff{ID: "stf-1", Name: in.Name, IDNumber: in.IDNumber, Title: in.Title}, nil
}

func (f *fakeStaffRepo) Update(ctx context.Context, id string, upd domain.StaffUpdate) (*domain.Staff, error) {
	return nil, domain.NotFoundError{Resource: "staff"}
}

func (f *fakeStaffRepo) Delete(ctx context.Context, id string) error {
	return domain.NotFoundError{Resource: "staff"}
}

func (f *fakeStaffRepo) IDNumberTaken(ctx context.Context, idNumber string, excludeID string) (bool, error) {
	return false, nil
}

func (f *fakeStaffRepo) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct {
	byID       map[string]domain.User
	byUsername map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]domain.User{}, byUsername: map[string]domain.User{}}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "user"}
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, domain.NotFoundError{Resource: "user"}
	}
	return &u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, name, username, hashedPassword, role string) (*domain.User, error) {
	u := domain.User{ID: "usr-" + username, Name: name, Username: username, Password: hashedPassword, Role: role}
	f.byID[u.ID] = u
	f.byUsername[username] = u
	return &u, nil
}

func (f *fakeUserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	_, ok := f.byUsername[username]
	return ok, nil
}

type testServer struct {
	e         *echo.Echo
	auth      *service.AuthService
	transfers *fakeTransferRepo
	staff     *fakeStaffRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Config{}
	cfg.Museum.Name = "Museum Aceh"
	cfg.Auth = config.Auth{JwtSecret: "test-secret", TokenExpiry: time.Hour}

	authSvc := service.NewAuthService(cfg.Auth, newFakeUserRepo())

	transferRepo := &fakeTransferRepo{}
	collectionRepo := &fakeCollectionRepo{}
	staffRepo := &fakeStaffRepo{}

	transfers := usecase.NewTransferUsecase(transferRepo, &fakeStateWriter{})
	collections := usecase.NewCollectionUsecase(collectionRepo)
	staff := usecase.NewStaffUsecase(staffRepo)

	// Publish failures are logged, not surfaced, so an unreachable redis is
	// fine here.
	signal := service.NewSignalService(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
	documents := service.NewDocumentService(cfg.Museum)
	dashboard := service.NewDashboardService(collectionRepo, transferRepo, staffRepo, nil)

	e := echo.New()
	handler := NewHandler(cfg, authSvc, transfers, collections, staff, signal, documents, dashboard)
	handler.RegisterRoutes(e, appmw.NewAuthMiddleware(authSvc))

	return &testServer{e: e, auth: authSvc, transfers: transferRepo, staff: staffRepo}
}

func (ts *testServer) token(t *testing.T, role string) string {
	t.Helper()
	_, token, err := ts.auth.Register(context.Background(), service.RegisterInput{
		Name:     "Petugas " + role,
		Username: "user-" + role,
		Password: "rahasia123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("failed to provision %s account: %v", role, err)
	}
	return token
}

func (ts *testServer) request(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func TestRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(http.MethodGet, "/api/collections", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	rec = ts.request(http.MethodGet, "/api/collections", "not-a-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a garbage token, got %d", rec.Code)
	}
}

func TestWriteRoutesRequireRole(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, domain.RoleUser)

	body := `{"name":"Tgk. Hasan","idNumber":"197001011990031001","title":"Kurator"}`
	rec := ts.request(http.MethodPost, "/api/staff", token, body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for role %q, got %d", domain.RoleUser, rec.Code)
	}
	if len(ts.staff.created) != 0 {
		t.Fatal("forbidden request must not reach the store")
	}
}

func TestStaffCreate(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, domain.RoleOfficer)

	body := `{"name":"Tgk. Hasan","idNumber":"197001011990031001","title":"Kurator"}`
	rec := ts.request(http.MethodPost, "/api/staff", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(ts.staff.created) != 1 || ts.staff.created[0].Name != "Tgk. Hasan" {
		t.Fatalf("staff record not created: %+v", ts.staff.created)
	}
}

func TestTransferCreate(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, domain.RoleAdmin)

	body := `{
	  "documentNumber": "BA/001/II/2026",
	  "type": "Serah Terima",
	  "transferDate": "2026-02-13",
	  "party1Id": "stf-1",
	  "party2Id": "stf-2",
	  "items": [{"collectionId": "col-1", "condition": "Baik"}]
	}`
	rec := ts.request(http.MethodPost, "/api/transfers", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Transfer
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.DocumentNumber != "BA/001/II/2026" {
		t.Fatalf("unexpected response: %+v", created)
	}
	if created.CreatedBy == nil || *created.CreatedBy == "" {
		t.Fatal("createdBy must be taken from the authenticated identity")
	}
	if len(ts.transfers.items["ba-1"]) != 1 {
		t.Fatalf("transfer items not persisted: %+v", ts.transfers.items)
	}
}

func TestTransferCreateRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, domain.RoleAdmin)

	cases := []struct {
		name string
		body string
	}{
		{"bad date", `{"documentNumber":"BA/1","type":"Peminjaman","transferDate":"13-02-2026","party1Id":"a","party2Id":"b","items":[{"collectionId":"c","condition":"Baik"}]}`},
		{"unknown type", `{"documentNumber":"BA/1","type":"Penjualan","transferDate":"2026-02-13","party1Id":"a","party2Id":"b","items":[{"collectionId":"c","condition":"Baik"}]}`},
		{"no items", `{"documentNumber":"BA/1","type":"Peminjaman","transferDate":"2026-02-13","party1Id":"a","party2Id":"b","items":[]}`},
	}
	for _, c := range cases {
		rec := ts.request(http.MethodPost, "/api/transfers", token, c.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %s", c.name, rec.Code, rec.Body.String())
		}
	}
}

func TestTransferDetailNotFound(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, domain.RoleUser)

	rec := ts.request(http.MethodGet, "/api/transfers/nope", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
