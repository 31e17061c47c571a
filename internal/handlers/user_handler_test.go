package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "folio/internal/errors"
	"folio/internal/models"
)

func setupUserRouter(handler *UserHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/users", handler.CreateUser)
	auth.GET("/users", handler.ListUsers)
	return r
}

func TestUserHandler_CreateUser(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotRole models.Role
		svc := &mockUserService{
			createUserFn: func(username, _ string, role models.Role) (*models.User, error) {
				gotRole = role
				return &models.User{Base: models.Base{ID: "u1"}, Username: username, Role: models.RoleUser}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupUserRouter(NewUserHandler(svc, audit))

		rec := doRequest(r, "POST", "/users", `{"username":"carol","password":"secret1"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["username"] != "carol" {
			t.Errorf("unexpected user %v", user)
		}
		if gotRole != "" {
			t.Errorf("expected empty role to be passed through for defaulting, got %q", gotRole)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_USER" {
			t.Errorf("expected CREATE_USER audit, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on unknown role", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/users", `{"username":"carol","password":"secret1","role":"root"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		svc := &mockUserService{
			createUserFn: func(string, string, models.Role) (*models.User, error) {
				return nil, apperrors.ErrDuplicateUsername
			},
		}
		r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/users", `{"username":"admin","password":"secret1","role":"admin"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_USERNAME")
	})
}

func TestUserHandler_ListUsers(t *testing.T) {
	svc := &mockUserService{
		listUsersFn: func() ([]models.User, error) {
			return []models.User{
				{Base: models.Base{ID: "a"}, Username: "admin", Role: models.RoleAdmin, Password: "hash"},
				{Base: models.Base{ID: "b"}, Username: "user", Role: models.RoleUser},
			}, nil
		},
	}
	r := setupUserRouter(NewUserHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/users", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	users := parseJSON(t, rec)["users"].([]interface{})
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	first := users[0].(map[string]interface{})
	if _, leaked := first["password"]; leaked {
		t.Error("password must never be serialized")
	}
}
