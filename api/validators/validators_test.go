package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/tienda-backend/pkg/errors"
)

type sampleBody struct {
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		wantErr   bool
		wantField string
	}{
		{name: "valid", body: `{"email":"a@b.com","age":3}`},
		{name: "unknown field", body: `{"email":"a@b.com","age":3,"x":1}`, wantErr: true},
		{name: "malformed", body: `{"email":`, wantErr: true},
		{name: "bad email", body: `{"email":"nope","age":3}`, wantErr: true, wantField: "email"},
		{name: "age", body: `{"email":"a@b.com","age":0}`, wantErr: true, wantField: "age"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dest sampleBody
			err := DecodeJSONBody(req, &dest)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if tc.wantField == "" {
				return
			}
			details, ok := pkgerrors.As(err).Details().(map[string]string)
			if !ok {
				t.Fatalf("expected field details, got %T", pkgerrors.As(err).Details())
			}
			if _, ok := details[tc.wantField]; !ok {
				t.Fatalf("expected %s in details %v", tc.wantField, details)
			}
		})
	}
}

func withParams(r *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestParseQuantityParam(t *testing.T) {
	cases := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: 1},
		{raw: "3", want: 3},
		{raw: "0", wantErr: true},
		{raw: "-2", wantErr: true},
		{raw: "dos", wantErr: true},
	}
	for _, tc := range cases {
		req := withParams(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"quantity": tc.raw})
		got, err := ParseQuantityParam(req, "quantity", 1)
		if tc.wantErr {
			if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("%q: expected validation error, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: expected %d, got %d (%v)", tc.raw, tc.want, got, err)
		}
	}
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	req := withParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.String()})
	got, err := ParseUUIDParam(req, "id")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s (%v)", id, got, err)
	}

	req = withParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "nope"})
	if _, err := ParseUUIDParam(req, "id"); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500&available=false&title=%20termo%20", nil)
	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected out of range error, got %v", err)
	}
	available, err := ParseQueryBool(req, "available")
	if err != nil || available == nil || *available {
		t.Fatalf("expected available=false, got %v (%v)", available, err)
	}
	if title := ParseQueryString(req, "title"); title == nil || *title != "termo" {
		t.Fatalf("expected trimmed title, got %v", title)
	}
	if missing := ParseQueryString(req, "code"); missing != nil {
		t.Fatalf("expected nil for missing param")
	}
}
