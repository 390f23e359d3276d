package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appauth "github.com/aanand-mishra/student-records-api/internal/auth"
	"github.com/aanand-mishra/student-records-api/internal/storage/sqlite"
	"github.com/aanand-mishra/student-records-api/internal/types"
)

func setupLogin(t *testing.T) http.HandlerFunc {
	t.Helper()

	store, err := sqlite.NewInMemory()
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { store.Db.Close() })

	if _, err := appauth.EnsureSeedUser(store, types.User{Name: "Omar", Email: "omar@esisa.ac"}, "123456@"); err != nil {
		t.Fatal(err)
	}

	return Login(appauth.NewVerifier(store))
}

func postLogin(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestLogin_Success(t *testing.T) {
	handler := setupLogin(t)

	rec := postLogin(t, handler, `{"email":"omar@esisa.ac","password":"123456@"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool             `json:"success"`
		User    types.PublicUser `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Error("success should be true")
	}
	if resp.User.Name != "Omar" || resp.User.Email != "omar@esisa.ac" || resp.User.ID == 0 {
		t.Errorf("user = %+v", resp.User)
	}

	// The password hash must never appear anywhere in the response.
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Error("response leaks the password hash")
	}
}

func TestLogin_MissingFields(t *testing.T) {
	handler := setupLogin(t)

	for _, body := range []string{``, `{}`, `{"email":"omar@esisa.ac"}`, `{"password":"x"}`} {
		rec := postLogin(t, handler, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestLogin_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	handler := setupLogin(t)

	wrongPassword := postLogin(t, handler, `{"email":"omar@esisa.ac","password":"nope"}`)
	unknownEmail := postLogin(t, handler, `{"email":"nobody@esisa.ac","password":"123456@"}`)

	if wrongPassword.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", wrongPassword.Code)
	}
	if unknownEmail.Code != http.StatusUnauthorized {
		t.Errorf("unknown email: status = %d, want 401", unknownEmail.Code)
	}

	// Same status AND same body for both failure modes.
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("bodies differ: %q vs %q",
			wrongPassword.Body.String(), unknownEmail.Body.String())
	}
	if !strings.Contains(wrongPassword.Body.String(), "Email ou mot de passe incorrect") {
		t.Errorf("body = %s", wrongPassword.Body.String())
	}
}

func TestLogout(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	Logout()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
