package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"hotel-lead-crm/internal/config"
	"hotel-lead-crm/internal/model"
	"hotel-lead-crm/internal/repository"
)

// postJSON builds an authenticated echo context carrying a JSON body. The
// validation tests below all reject before any repository call, so the
// handlers run with a nil repo.
func postJSON(method, target, body string, actor repository.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", actor.ID)
	c.Set("role", actor.Role)
	return c, rec
}

var testActor = repository.Actor{ID: 1, Role: model.RoleAdmin}

func TestAddHotelValidation(t *testing.T) {
	h := NewHotelHandler(config.Config{}, nil)

	cases := []struct {
		name string
		body string
		msg  string
	}{
		{
			"missing name",
			`{"latitude": 12.9, "longitude": 77.5, "owner_phone": "9876543210"}`,
			"Hotel name, latitude, and longitude are required",
		},
		{
			"blank name",
			`{"name": "   ", "latitude": 12.9, "longitude": 77.5, "owner_phone": "9876543210"}`,
			"Hotel name, latitude, and longitude are required",
		},
		{
			"missing coordinates",
			`{"name": "Taj", "owner_phone": "9876543210"}`,
			"Hotel name, latitude, and longitude are required",
		},
		{
			"latitude out of range",
			`{"name": "Taj", "latitude": 91, "longitude": 77.5, "owner_phone": "9876543210"}`,
			"Invalid latitude or longitude values",
		},
		{
			"missing category",
			`{"name": "Taj", "latitude": 12.9, "longitude": 77.5, "owner_phone": "9876543210"}`,
			"Hotel category is required",
		},
		{
			"blank category",
			`{"name": "Taj", "latitude": 12.9, "longitude": 77.5, "category": "  ", "owner_phone": "9876543210"}`,
			"Hotel category is required",
		},
		{
			"unknown category",
			`{"name": "Taj", "latitude": 12.9, "longitude": 77.5, "category": "mall", "owner_phone": "9876543210"}`,
			"Invalid hotel category",
		},
		{
			"bad hotel email",
			`{"name": "Taj", "latitude": 12.9, "longitude": 77.5, "category": "hotel", "hotel_email": "nope", "owner_phone": "9876543210"}`,
			"Invalid hotel email format",
		},
		{
			"bad gst",
			`{"name": "Taj", "latitude": 12.9, "longitude": 77.5, "category": "hotel", "gst_number": "bad", "owner_phone": "9876543210"}`,
			"Invalid GST number format",
		},
		{
			"bad pincode",
			`{"name": "Taj", "latitude": 12.9, "longitude": 77.5, "category": "hotel", "pincode": "00001", "owner_phone": "9876543210"}`,
			"Invalid pincode format",
		},
		{
			"short phone",
			`{"name": "Taj", "latitude": 12.9, "longitude": 77.5, "category": "hotel", "owner_phone": "12345"}`,
			"Phone numbers must be 10 digits",
		},
		{
			"no phone at all",
			`{"name": "Taj", "latitude": 12.9, "longitude": 77.5, "category": "hotel"}`,
			"At least one contact phone number is required",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(http.MethodPost, "/api/hotels", tc.body, testActor)
			if err := h.Add(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.msg) {
				t.Errorf("body = %s, want message %q", rec.Body.String(), tc.msg)
			}
		})
	}
}

func TestUpdateHotelCoordinatePairRule(t *testing.T) {
	h := NewHotelHandler(config.Config{}, nil)

	c, rec := postJSON(http.MethodPut, "/api/hotels/3", `{"latitude": 12.9}`, testActor)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Latitude and longitude must be updated together") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUpdateHotelInvalidID(t *testing.T) {
	h := NewHotelHandler(config.Config{}, nil)

	c, rec := postJSON(http.MethodPut, "/api/hotels/abc", `{}`, testActor)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateUserValidation(t *testing.T) {
	h := NewAdminHandler(config.Config{}, nil, nil)

	cases := []struct {
		name string
		body string
		msg  string
	}{
		{
			"missing required fields",
			`{"email": "a@b.com"}`,
			"Full name, email, and password are required",
		},
		{
			"bad email",
			`{"full_name": "A", "email": "nope", "password": "secret1"}`,
			"Invalid email format",
		},
		{
			"short password",
			`{"full_name": "A", "email": "a@b.com", "password": "abc"}`,
			"Password must be at least 6 characters long",
		},
		{
			"bad phone",
			`{"full_name": "A", "email": "a@b.com", "password": "secret1", "phone": "123"}`,
			"Phone number must be 10 digits",
		},
		{
			"bad role",
			`{"full_name": "A", "email": "a@b.com", "password": "secret1", "role": "root"}`,
			`Role must be either \"user\" or \"admin\"`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(http.MethodPost, "/api/admin/users", tc.body, testActor)
			if err := h.CreateUser(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.msg) {
				t.Errorf("body = %s, want message %q", rec.Body.String(), tc.msg)
			}
		})
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	h := NewAuthHandler(config.Config{}, nil, nil)

	c, rec := postJSON(http.MethodPost, "/api/auth/login", `{"email": "a@b.com"}`, repository.Actor{})
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Email and password are required") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
