package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/museumaceh/baservice/internal/config"
	"github.com/museumaceh/baservice/internal/domain"
	"github.com/museumaceh/baservice/internal/infrastructure/repository"
	appmw "github.com/museumaceh/baservice/internal/present/rest/middleware"
	"github.com/museumaceh/baservice/internal/present/rest/presenter"
	"github.com/museumaceh/baservice/internal/service"
	"github.com/museumaceh/baservice/internal/usecase"
)

type Handler struct {
	config      config.Config
	auth        *service.AuthService
	transfers   *usecase.TransferUsecase
	collections *usecase.CollectionUsecase
	staff       *usecase.StaffUsecase
	signal      *service.SignalService
	documents   *service.DocumentService
	dashboard   *service.DashboardService
}

func NewHandler(
	config config.Config,
	auth *service.AuthService,
	transfers *usecase.TransferUsecase,
	collections *usecase.CollectionUsecase,
	staff *usecase.StaffUsecase,
	signal *service.SignalService,
	documents *service.DocumentService,
	dashboard *service.DashboardService,
) *Handler {
	return &Handler{
		config:      config,
		auth:        auth,
		transfers:   transfers,
		collections: collections,
		staff:       staff,
		signal:      signal,
		documents:   documents,
		dashboard:   dashboard,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, auth *appmw.AuthMiddleware) {
	e.Use(auth.IdentifyIdentity)

	e.GET("/", h.handleInfo)
	e.POST("/api/auth/register", h.handleRegister)
	e.POST("/api/auth/login", h.handleLogin)

	api := e.Group("/api", auth.RequireAuth)
	write := auth.RequireRoles(domain.RoleAdmin, domain.RoleOfficer)
	adminOnly := auth.RequireRoles(domain.RoleAdmin)

	api.GET("/auth/me", h.handleMe)

	api.GET("/staff", h.handleStaffList)
	api.GET("/staff/:id", h.handleStaffGet)
	api.POST("/staff", h.handleStaffCreate, write)
	api.PUT("/staff/:id", h.handleStaffUpdate, write)
	api.DELETE("/staff/:id", h.handleStaffDelete, adminOnly)

	api.GET("/collections", h.handleCollectionList)
	api.GET("/collections/:id", h.handleCollectionGet)
	api.POST("/collections", h.handleCollectionCreate, write)
	api.PUT("/collections/:id", h.handleCollectionUpdate, write)
	api.DELETE("/collections/:id", h.handleCollectionDelete, adminOnly)

	api.GET("/transfers", h.handleTransferList)
	api.POST("/transfers", h.handleTransferCreate, write)
	api.GET("/transfers/:id", h.handleTransferDetail)
	api.GET("/transfers/:id/document", h.handleTransferDocument)

	api.GET("/dashboard", h.handleDashboard)

	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleInfo(c echo.Context) error {
	return presenter.OK(c, echo.Map{
		"name":    h.config.Museum.Name,
		"service": "inventory & berita acara API",
	})
}

// --- auth ---

func (h *Handler) handleRegister(c echo.Context) error {
	ctx := c.Request().Context()

	var input service.RegisterInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}

	user, token, err := h.auth.Register(ctx, input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, echo.Map{"user": user, "token": token})
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	user, token, err := h.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return presenter.Unauthorized(c, err.Error())
		}
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"user": user, "token": token})
}

func (h *Handler) handleMe(c echo.Context) error {
	ctx := c.Request().Context()

	identity, _ := appmw.IdentityFrom(c)
	user, err := h.auth.Me(ctx, identity.UserID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, user)
}

// --- staff ---

func (h *Handler) handleStaffList(c echo.Context) error {
	ctx := c.Request().Context()

	opts := listOptions(c, 50, "title")
	rows, meta, err := h.staff.List(ctx, opts)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, listResponse{Data: rows, Meta: meta})
}

func (h *Handler) handleStaffGet(c echo.Context) error {
	ctx := c.Request().Context()

	s, err := h.staff.Get(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, s)
}

func (h *Handler) handleStaffCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var input domain.StaffInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}
	created, err := h.staff.Create(ctx, input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, created)
}

func (h *Handler) handleStaffUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	var upd domain.StaffUpdate
	if err := c.Bind(&upd); err != nil {
		return presenter.BadRequest(c, err)
	}
	updated, err := h.staff.Update(ctx, c.Param("id"), upd)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, updated)
}

func (h *Handler) handleStaffDelete(c echo.Context) error {
	ctx := c.Request().Context()

	deleted, err := h.staff.Delete(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"deleted": deleted.Name})
}

// --- collections ---

func (h *Handler) handleCollectionList(c echo.Context) error {
	ctx := c.Request().Context()

	opts := listOptions(c, 20, "category", "condition", "location")
	rows, meta, err := h.collections.List(ctx, opts)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, listResponse{Data: rows, Meta: meta})
}

func (h *Handler) handleCollectionGet(c echo.Context) error {
	ctx := c.Request().Context()

	col, err := h.collections.Get(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, col)
}

func (h *Handler) handleCollectionCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var input domain.CollectionInput
	if err := c.Bind(&input); err != nil {
		return presenter.BadRequest(c, err)
	}
	created, err := h.collections.Create(ctx, input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, created)
}

func (h *Handler) handleCollectionUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	var upd domain.CollectionUpdate
	if err := c.Bind(&upd); err != nil {
		return presenter.BadRequest(c, err)
	}
	updated, err := h.collections.Update(ctx, c.Param("id"), upd)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, updated)
}

func (h *Handler) handleCollectionDelete(c echo.Context) error {
	ctx := c.Request().Context()

	deleted, err := h.collections.Delete(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"deleted": deleted.Name})
}

// --- transfers ---

type transferRequest struct {
	DocumentNumber string                     `json:"documentNumber"`
	Type           string                     `json:"type"`
	TransferDate   string                     `json:"transferDate"`
	Party1ID       string                     `json:"party1Id"`
	Party2ID       string                     `json:"party2Id"`
	Witness1ID     *string                    `json:"witness1Id"`
	Witness2ID     *string                    `json:"witness2Id"`
	Items          []domain.TransferItemInput `json:"items"`
}

func (h *Handler) handleTransferList(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := h.transfers.List(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, rows)
}

func (h *Handler) handleTransferCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	transferDate, err := parseDate(req.TransferDate)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid transferDate, expected YYYY-MM-DD")
	}

	input := domain.TransferInput{
		DocumentNumber: req.DocumentNumber,
		Type:           req.Type,
		TransferDate:   transferDate,
		Party1ID:       req.Party1ID,
		Party2ID:       req.Party2ID,
		Witness1ID:     req.Witness1ID,
		Witness2ID:     req.Witness2ID,
		Items:          req.Items,
	}
	if identity, ok := appmw.IdentityFrom(c); ok {
		input.CreatedBy = &identity.UserID
	}

	header, err := h.transfers.Create(ctx, input)
	if err != nil {
		return presenter.Error(c, err)
	}

	if err := h.signal.Publish(ctx, domain.Event{
		Type:      "transfer.created",
		Timestamp: time.Now().UTC(),
		Payload:   header,
	}); err != nil {
		slog.ErrorContext(
			ctx, "Failed to publish transfer event",
			slog.String("error", err.Error()),
			slog.String("module", "rest"),
		)
	}

	return presenter.Created(c, header)
}

func (h *Handler) handleTransferDetail(c echo.Context) error {
	ctx := c.Request().Context()

	detail, err := h.transfers.Detail(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, detail)
}

func (h *Handler) handleTransferDocument(c echo.Context) error {
	ctx := c.Request().Context()

	detail, err := h.transfers.Detail(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}

	html, err := h.documents.Render(ctx, detail)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return c.HTML(http.StatusOK, html)
}

// --- dashboard ---

func (h *Handler) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.dashboard.Stats(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, stats)
}

// --- realtime ---

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	output := make(chan domain.Event)
	go h.signal.Realtime(ctx, output)

	quit := make(chan struct{})

	go func() {
		for {
			var req struct {
				Type string `json:"type"`
			}
			err := ws.ReadJSON(&req)
			if err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}

// --- helpers ---

type listResponse struct {
	Data any                 `json:"data"`
	Meta repository.PageMeta `json:"meta"`
}

// listOptions reads the shared list query parameters plus the entity's
// recognized filter keys. Absent page/limit default to 1 and defaultLimit.
func listOptions(c echo.Context, defaultLimit int, filterKeys ...string) repository.ListOptions {
	opts := repository.ListOptions{
		Filters:   map[string]string{},
		Search:    c.QueryParam("q"),
		SortBy:    c.QueryParam("sort_by"),
		Ascending: c.QueryParam("sort_order") != "desc",
		Page:      1,
		Limit:     defaultLimit,
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		opts.Limit = limit
	}
	for _, key := range filterKeys {
		if v := c.QueryParam(key); v != "" {
			opts.Filters[key] = v
		}
	}
	return opts
}

// parseDate accepts the document date form (YYYY-MM-DD) and RFC3339.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
