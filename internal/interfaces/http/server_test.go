package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exhibitions/internal/application/usecases/auth"
	"exhibitions/internal/application/usecases/bookings"
	exusecase "exhibitions/internal/application/usecases/exhibitions"
	lusecase "exhibitions/internal/application/usecases/lookups"
	"exhibitions/internal/application/usecases/purchase"
	bdomain "exhibitions/internal/domain/bookings"
	exdomain "exhibitions/internal/domain/exhibitions"
	ldomain "exhibitions/internal/domain/lookups"
	udomain "exhibitions/internal/domain/users"
	httpserver "exhibitions/internal/interfaces/http"
	"exhibitions/internal/repository"
)

// in-memory doubles shared by the handler tests

type memTrManager struct{}

func (memTrManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (memTrManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memExhibitionsRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*exdomain.Exhibition
}

func newMemExhibitionsRepo() *memExhibitionsRepo {
	return &memExhibitionsRepo{byID: map[uuid.UUID]*exdomain.Exhibition{}}
}

func (r *memExhibitionsRepo) FindByID(_ context.Context, id uuid.UUID) (*exdomain.Exhibition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, exdomain.ErrNotFound
}

func (r *memExhibitionsRepo) FindByTitleInWindow(_ context.Context, title string, start, end time.Time) (*exdomain.Exhibition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if e.Title == title && !e.Date.Before(start) && !e.Date.After(end) {
			copied := *e
			return &copied, nil
		}
	}
	return nil, exdomain.ErrNotFound
}

func (r *memExhibitionsRepo) FindFirstByTitle(_ context.Context, title string) (*exdomain.Exhibition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if e.Title == title {
			copied := *e
			return &copied, nil
		}
	}
	return nil, exdomain.ErrNotFound
}

func (r *memExhibitionsRepo) DecrementRemaining(_ context.Context, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return exdomain.ErrNotFound
	}
	if e.RemainingTickets == nil || *e.RemainingTickets < qty {
		return bdomain.ErrNotEnoughTickets
	}
	*e.RemainingTickets -= qty
	return nil
}

func (r *memExhibitionsRepo) List(_ context.Context, _ repository.ExhibitionFilters) ([]exdomain.Exhibition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]exdomain.Exhibition, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, *e)
	}
	return out, nil
}

func (r *memExhibitionsRepo) Create(_ context.Context, ex *exdomain.Exhibition) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	stored := *ex
	stored.Id = id
	r.byID[id] = &stored
	return id, nil
}

func (r *memExhibitionsRepo) Update(_ context.Context, ex *exdomain.Exhibition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[ex.Id]; !ok {
		return exdomain.ErrNotFound
	}
	stored := *ex
	r.byID[ex.Id] = &stored
	return nil
}

func (r *memExhibitionsRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

type memTicketsRepo struct {
	mu       sync.Mutex
	inserted []bdomain.Ticket
}

func (r *memTicketsRepo) Insert(_ context.Context, t *bdomain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserted = append(r.inserted, *t)
	return nil
}

func (r *memTicketsRepo) UpdateQR(_ context.Context, id uuid.UUID, url, payload string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.inserted {
		if r.inserted[i].Id == id {
			r.inserted[i].QRCodeURL = url
			r.inserted[i].QRPayload = payload
			return nil
		}
	}
	return repository.ErrTicketNotFound
}

func (r *memTicketsRepo) ListByOrganizer(_ context.Context, _ uuid.UUID) ([]repository.OrganizerTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.OrganizerTicket, 0, len(r.inserted))
	for _, t := range r.inserted {
		out = append(out, repository.OrganizerTicket{Ticket: t})
	}
	return out, nil
}

type memCodeGenerator struct{}

func (memCodeGenerator) Generate(ticketId uuid.UUID, _ string) (string, error) {
	return "http://localhost:8080/public/qrcodes/" + ticketId.String() + ".png", nil
}

type memNotifier struct{}

func (memNotifier) Send(_ context.Context, _, _ string) (json.RawMessage, error) {
	return json.RawMessage(`{"status":"sent"}`), nil
}

type memPublisher struct{}

func (memPublisher) PublishBookingMade(_ context.Context, _ bdomain.BookingMade) error {
	return nil
}

type memUsersRepo struct {
	mu      sync.Mutex
	byEmail map[string]*udomain.User
	byID    map[uuid.UUID]*udomain.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byEmail: map[string]*udomain.User{}, byID: map[uuid.UUID]*udomain.User{}}
}

func (r *memUsersRepo) Create(_ context.Context, u *udomain.User) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	stored := *u
	stored.Id = id
	r.byEmail[u.Email] = &stored
	r.byID[id] = &stored
	return id, nil
}

func (r *memUsersRepo) GetByID(_ context.Context, id uuid.UUID) (*udomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, udomain.ErrNotFound
}

func (r *memUsersRepo) GetByEmail(_ context.Context, email string) (*udomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, udomain.ErrNotFound
}

func (r *memUsersRepo) GetByPhone(_ context.Context, _ string) (*udomain.User, error) {
	return nil, udomain.ErrNotFound
}

type memLookupsRepo struct {
	mu         sync.Mutex
	locations  map[uuid.UUID]*ldomain.Location
	eventTypes map[uuid.UUID]*ldomain.EventType
}

func newMemLookupsRepo() *memLookupsRepo {
	return &memLookupsRepo{
		locations:  map[uuid.UUID]*ldomain.Location{},
		eventTypes: map[uuid.UUID]*ldomain.EventType{},
	}
}

func (r *memLookupsRepo) ListLocations(_ context.Context, f repository.LookupFilters) ([]ldomain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []ldomain.Location{}
	for _, l := range r.locations {
		if f.Active != nil && l.Active != *f.Active {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *memLookupsRepo) ListEventTypes(_ context.Context, f repository.LookupFilters) ([]ldomain.EventType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []ldomain.EventType{}
	for _, et := range r.eventTypes {
		if f.Active != nil && et.Active != *f.Active {
			continue
		}
		out = append(out, *et)
	}
	return out, nil
}

func (r *memLookupsRepo) GetLocation(_ context.Context, id uuid.UUID) (*ldomain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.locations[id]; ok {
		return l, nil
	}
	return nil, ldomain.ErrNotFound
}

func (r *memLookupsRepo) GetEventType(_ context.Context, id uuid.UUID) (*ldomain.EventType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if et, ok := r.eventTypes[id]; ok {
		return et, nil
	}
	return nil, ldomain.ErrNotFound
}

func (r *memLookupsRepo) CreateLocation(_ context.Context, name, slug string, active bool) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.locations[id] = &ldomain.Location{Id: id, Name: name, Slug: slug, Active: active}
	return id, nil
}

func (r *memLookupsRepo) CreateEventType(_ context.Context, name, slug string, active bool) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.eventTypes[id] = &ldomain.EventType{Id: id, Name: name, Slug: slug, Active: active}
	return id, nil
}

func (r *memLookupsRepo) UpdateLocation(_ context.Context, id uuid.UUID, name, slug string, active *bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locations[id]
	if !ok {
		return ldomain.ErrNotFound
	}
	if name != "" {
		l.Name, l.Slug = name, slug
	}
	if active != nil {
		l.Active = *active
	}
	return nil
}

func (r *memLookupsRepo) UpdateEventType(_ context.Context, id uuid.UUID, name, slug string, active *bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	et, ok := r.eventTypes[id]
	if !ok {
		return ldomain.ErrNotFound
	}
	if name != "" {
		et.Name, et.Slug = name, slug
	}
	if active != nil {
		et.Active = *active
	}
	return nil
}

func (r *memLookupsRepo) DeactivateLocation(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locations[id]
	if !ok {
		return ldomain.ErrNotFound
	}
	l.Active = false
	return nil
}

func (r *memLookupsRepo) DeactivateEventType(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	et, ok := r.eventTypes[id]
	if !ok {
		return ldomain.ErrNotFound
	}
	et.Active = false
	return nil
}

type memOpsRepo struct{}

func (memOpsRepo) GetByID(_ context.Context, _ uuid.UUID) (*bdomain.BookingMade, error) {
	return nil, nil
}

func (memOpsRepo) GetAll(_ context.Context) ([]bdomain.BookingMade, error) {
	return nil, nil
}

type testServer struct {
	e           *echo.Echo
	exhibitions *memExhibitionsRepo
	tickets     *memTicketsRepo
	lookups     *memLookupsRepo
	authSvc     *auth.AuthUsecase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithMetrics(t, true)
}

func newTestServerWithMetrics(t *testing.T, enableMetrics bool) *testServer {
	t.Helper()

	exhibitionsRepo := newMemExhibitionsRepo()
	ticketsRepo := &memTicketsRepo{}
	lookupsRepo := newMemLookupsRepo()
	usersRepo := newMemUsersRepo()

	purchaseSvc := purchase.NewCreatePurchaseUsecase(
		exhibitionsRepo,
		ticketsRepo,
		memCodeGenerator{},
		memNotifier{},
		time.Second,
		memTrManager{},
		memPublisher{},
	)
	authSvc := auth.NewAuthUsecase(usersRepo, "test-secret", time.Hour)

	e := echo.New()
	httpserver.NewServer(
		e,
		":0",
		zerolog.Nop(),
		purchaseSvc,
		exusecase.NewManageExhibitionsUsecase(exhibitionsRepo, lookupsRepo),
		lusecase.NewManageLookupsUsecase(lookupsRepo),
		authSvc,
		bookings.NewListBookingsUsecase(ticketsRepo, memOpsRepo{}),
		t.TempDir(),
		enableMetrics,
		func() bool { return true },
	)

	return &testServer{
		e:           e,
		exhibitions: exhibitionsRepo,
		tickets:     ticketsRepo,
		lookups:     lookupsRepo,
		authSvc:     authSvc,
	}
}

func (ts *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) register(t *testing.T) (string, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	_, err := ts.authSvc.Register(ctx, "Organizer", "org@example.com", "", "s3cret")
	require.NoError(t, err)
	token, user, err := ts.authSvc.Login(ctx, "org@example.com", "s3cret")
	require.NoError(t, err)
	return token, user.Id
}

func intPtr(v int) *int { return &v }

func seedExhibition(ts *testServer, remaining *int) uuid.UUID {
	id := uuid.New()
	price := decimal.NullDecimal{Decimal: decimal.NewFromInt(250), Valid: true}
	ts.exhibitions.byID[id] = &exdomain.Exhibition{
		Id:               id,
		Title:            "Modern Art Fair",
		Date:             time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC),
		Price:            price,
		RemainingTickets: remaining,
		Status:           exdomain.StatusPublished,
	}
	return id
}

func TestCreatePurchaseHandler(t *testing.T) {
	t.Run("creates booking and returns summary", func(t *testing.T) {
		ts := newTestServer(t)
		id := seedExhibition(ts, intPtr(10))

		rec := ts.do(http.MethodPost, "/purchase", `{
			"eventId": "`+id.String()+`",
			"name": "Asha",
			"mobileNumber": "+91 98765 43210",
			"tickets": 2
		}`, "")

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var summary bdomain.Summary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, "Modern Art Fair", summary.EventTitle)
		assert.Equal(t, "500", summary.Amount.String())
		assert.NotEmpty(t, summary.QRCodeURL)
		require.NotNil(t, summary.Notification)
		assert.True(t, summary.Notification.Sent)

		assert.Equal(t, 8, *ts.exhibitions.byID[id].RemainingTickets)
	})

	t.Run("sold out maps to 400", func(t *testing.T) {
		ts := newTestServer(t)
		id := seedExhibition(ts, intPtr(1))

		rec := ts.do(http.MethodPost, "/purchase", `{
			"eventId": "`+id.String()+`",
			"name": "Asha",
			"mobileNumber": "9876543210",
			"tickets": 3
		}`, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown event maps to 404", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(http.MethodPost, "/purchase", `{
			"eventId": "`+uuid.New().String()+`",
			"name": "Asha",
			"mobileNumber": "9876543210",
			"tickets": 1
		}`, "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing fields map to 400", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(http.MethodPost, "/purchase", `{"name": "Asha"}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad selectDate maps to 400", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(http.MethodPost, "/purchase", `{
			"eventTitle": "Modern Art Fair",
			"selectDate": "next tuesday",
			"name": "Asha",
			"mobileNumber": "9876543210",
			"tickets": 1
		}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/auth/register", `{
		"name": "Organizer",
		"email": "org@example.com",
		"password": "s3cret"
	}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/auth/login", `{
		"email": "org@example.com",
		"password": "s3cret"
	}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Token)

	rec = ts.do(http.MethodPost, "/auth/login", `{
		"email": "org@example.com",
		"password": "wrong"
	}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGuard(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/exhibitions", `{"title":"Listing"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/exhibitions", `{"title":"Listing"}`, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExhibitionEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token, organizerId := ts.register(t)

	rec := ts.do(http.MethodPost, "/exhibitions", `{
		"title": "Trade Expo",
		"date": "2026-11-01T10:00:00Z",
		"price": "150",
		"remainingTickets": 100
	}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Id uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = ts.do(http.MethodGet, "/exhibitions/"+created.Id.String(), "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched exdomain.Exhibition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "Trade Expo", fetched.Title)
	assert.Equal(t, organizerId, *fetched.OrganizerId)

	rec = ts.do(http.MethodPost, "/exhibitions", `{}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodDelete, "/exhibitions/"+created.Id.String(), "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodGet, "/exhibitions/"+created.Id.String(), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLookupEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.register(t)

	rec := ts.do(http.MethodPost, "/lookups/locations", `{"name":"New Delhi"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Id uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = ts.do(http.MethodGet, "/lookups/locations", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []ldomain.Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "new-delhi", listed[0].Slug)

	// soft delete hides it from the public listing
	rec = ts.do(http.MethodDelete, "/lookups/locations/"+created.Id.String(), "", token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodGet, "/lookups/locations", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)

	rec = ts.do(http.MethodPost, "/lookups/locations", `{}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMyBookingsHandler(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.register(t)
	id := seedExhibition(ts, intPtr(10))

	rec := ts.do(http.MethodPost, "/purchase", `{
		"eventId": "`+id.String()+`",
		"name": "Asha",
		"mobileNumber": "9876543210",
		"tickets": 1
	}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(http.MethodGet, "/purchase/my", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var tickets []repository.OrganizerTicket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tickets))
	require.Len(t, tickets, 1)
	assert.Equal(t, "Asha", tickets[0].BuyerName)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("serves metrics when enabled", func(t *testing.T) {
		ts := newTestServerWithMetrics(t, true)

		rec := ts.do(http.MethodGet, "/metrics", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Body.String())
	})

	t.Run("route is absent when disabled", func(t *testing.T) {
		ts := newTestServerWithMetrics(t, false)

		rec := ts.do(http.MethodGet, "/metrics", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
