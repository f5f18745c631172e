package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/api/handlers"
	"pricewatch/internal/engine"
	domain "pricewatch/pkg/types"
)

type stubItemService struct {
	addResult engine.Result
	addErr    error
	addCalls  int

	items    []domain.TrackedItem
	skipped  int
	listErr  error
	deleteOK bool
	delErr   error
	delIndex int
}

func (s *stubItemService) AddItem(_ context.Context, _ string, _ float64, _ string) (engine.Result, error) {
	s.addCalls++
	return s.addResult, s.addErr
}

func (s *stubItemService) ListItems(_ context.Context) ([]domain.TrackedItem, int, error) {
	return s.items, s.skipped, s.listErr
}

func (s *stubItemService) DeleteItem(_ context.Context, index int) (bool, error) {
	s.delIndex = index
	return s.deleteOK, s.delErr
}

func TestItemsList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		svc        *stubItemService
		wantStatus int
		wantBody   string
	}{
		{
			name:       "empty catalog returns empty array not null",
			svc:        &stubItemService{items: nil},
			wantStatus: http.StatusOK,
			wantBody:   `{"items":[],"skipped_rows":0}`,
		},
		{
			name: "surfaces skipped row count",
			svc: &stubItemService{
				items: []domain.TrackedItem{{
					ID:             "ab12cd34ef56",
					URL:            "https://shop.example/p/1",
					Name:           "Widget Deluxe",
					CurrentPrice:   249.99,
					TargetPrice:    200,
					LastChecked:    "2025-03-14 09:26:53",
					RecipientEmail: "buyer@example.com",
				}},
				skipped: 2,
			},
			wantStatus: http.StatusOK,
			wantBody: `{
				"items": [{
					"id": "ab12cd34ef56",
					"url": "https://shop.example/p/1",
					"name": "Widget Deluxe",
					"current_price": 249.99,
					"target_price": 200,
					"last_checked": "2025-03-14 09:26:53",
					"recipient_email": "buyer@example.com"
				}],
				"skipped_rows": 2
			}`,
		},
		{
			name:       "store failure returns 500",
			svc:        &stubItemService{listErr: errors.New("disk gone")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"listing items: disk gone"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewItemsHandler(tt.svc)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/items", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, h.List(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestItemsCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		svc        *stubItemService
		wantStatus int
		wantBody   string
	}{
		{
			name: "successful add returns 201",
			body: `{"url":"https://shop.example/p/1","target_price":200,"recipient_email":"buyer@example.com"}`,
			svc: &stubItemService{
				addResult: engine.Result{OK: true, Message: "Product added successfully! You will be notified when price drops below ₹200.00"},
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"ok":true,"message":"Product added successfully! You will be notified when price drops below ₹200.00"}`,
		},
		{
			name: "rejected add returns 400 with engine message",
			body: `{"url":"https://shop.example/p/1","target_price":200,"recipient_email":"nope"}`,
			svc: &stubItemService{
				addResult: engine.Result{OK: false, Message: "Invalid email format"},
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"ok":false,"message":"Invalid email format"}`,
		},
		{
			name:       "missing url returns 400",
			body:       `{"target_price":200,"recipient_email":"buyer@example.com"}`,
			svc:        &stubItemService{},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"url is required"}`,
		},
		{
			name: "store failure returns 500",
			body: `{"url":"https://shop.example/p/1","target_price":200,"recipient_email":"buyer@example.com"}`,
			svc: &stubItemService{
				addErr: errors.New("catalog write failed"),
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"adding item: catalog write failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewItemsHandler(tt.svc)

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, h.Create(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestItemsCreate_MissingURLSkipsService(t *testing.T) {
	t.Parallel()

	svc := &stubItemService{}
	h := handlers.NewItemsHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Zero(t, svc.addCalls)
}

func TestItemsDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		index      string
		svc        *stubItemService
		wantStatus int
	}{
		{
			name:       "existing index returns 204",
			index:      "1",
			svc:        &stubItemService{deleteOK: true},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "unknown index returns 404",
			index:      "42",
			svc:        &stubItemService{deleteOK: false},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "non-integer index returns 400",
			index:      "abc",
			svc:        &stubItemService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure returns 500",
			index:      "0",
			svc:        &stubItemService{delErr: errors.New("rewrite failed")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handlers.NewItemsHandler(tt.svc)

			e := echo.New()
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/items/"+tt.index, http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("index")
			c.SetParamValues(tt.index)

			require.NoError(t, h.Delete(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
