package services

import (
	"testing"

	"folio/internal/models"
	"folio/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice", "password123", models.RoleUser)
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID to be assigned")
		}
		if user.Username != "alice" {
			t.Errorf("expected username alice, got %s", user.Username)
		}
		if user.Role != models.RoleUser {
			t.Errorf("expected role user, got %s", user.Role)
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
	})

	t.Run("default_role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("bob", "password123", "")
		testutil.AssertNoError(t, err)
		if user.Role != models.RoleUser {
			t.Errorf("expected default role user, got %s", user.Role)
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup", "password123", models.RoleUser)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("dup", "password456", models.RoleAdmin)
		testutil.AssertAppError(t, err, "DUPLICATE_USERNAME")
	})

	tests := []struct {
		name     string
		username string
		password string
		role     models.Role
	}{
		{"empty_username", "", "password123", models.RoleUser},
		{"blank_username", "   ", "password123", models.RoleUser},
		{"empty_password", "carol", "", models.RoleUser},
		{"unknown_role", "carol", "password123", models.Role("root")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			svc := NewUserService(db)

			_, err := svc.CreateUser(tt.username, tt.password, tt.role)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		})
	}
}

func TestCreateUser_password_is_hashed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user, err := svc.CreateUser("hash", "mypassword", models.RoleUser)
	testutil.AssertNoError(t, err)

	if user.Password == "mypassword" {
		t.Error("password should be hashed, not stored as plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("mypassword")); err != nil {
		t.Error("password hash should be valid bcrypt")
	}
}

func TestGetUserByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUserWithRole(t, db, "found", models.RoleUser)
		user, err := svc.GetUserByUsername("found")
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user ID %s, got %s", created.ID, user.ID)
		}
	})

	t.Run("case_sensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		testutil.CreateTestUserWithRole(t, db, "Admin", models.RoleAdmin)
		_, err := svc.GetUserByUsername("admin")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("inactive_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user := testutil.CreateTestUserWithRole(t, db, "inactive", models.RoleUser)
		db.Model(user).Update("is_active", false)

		_, err := svc.GetUserByUsername("inactive")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUser(t, db)
		user, err := svc.GetUserByID(created.ID)
		testutil.AssertNoError(t, err)

		if user.Username != created.Username {
			t.Errorf("expected username %s, got %s", created.Username, user.Username)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByID("0190a0a0-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestListUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	testutil.CreateTestUserWithRole(t, db, "zed", models.RoleUser)
	testutil.CreateTestUserWithRole(t, db, "amy", models.RoleAdmin)

	users, err := svc.ListUsers()
	testutil.AssertNoError(t, err)

	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Username != "amy" || users[1].Username != "zed" {
		t.Errorf("expected users ordered by username, got %s, %s", users[0].Username, users[1].Username)
	}
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db)
	if !svc.VerifyPassword(user, testutil.TestPassword) {
		t.Error("expected password verification to succeed")
	}
	if svc.VerifyPassword(user, "wrongpassword") {
		t.Error("expected password verification to fail")
	}
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_records_last_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		testutil.CreateTestUserWithRole(t, db, "login", models.RoleAdmin)

		user, err := svc.AttemptLogin("login", testutil.TestPassword)
		testutil.AssertNoError(t, err)

		if user.Role != models.RoleAdmin {
			t.Errorf("expected role admin, got %s", user.Role)
		}
		if user.LastLoginAt == nil {
			t.Error("expected LastLoginAt to be set after successful login")
		}
	})

	failures := []struct {
		name     string
		username string
		password string
	}{
		{"wrong_password", "login", "wrong"},
		{"unknown_user", "nobody", testutil.TestPassword},
		{"wrong_case_username", "LOGIN", testutil.TestPassword},
		{"empty_password", "login", ""},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			svc := NewUserService(db)

			testutil.CreateTestUserWithRole(t, db, "login", models.RoleUser)

			user, err := svc.AttemptLogin(tt.username, tt.password)
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
			if user != nil {
				t.Error("expected no user on failed login")
			}
		})
	}
}

func TestStoreAndGetRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db)

	hash := "abcdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890"
	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, hash))

	got, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if got != hash {
		t.Errorf("expected hash %s, got %s", hash, got)
	}

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, ""))
	got, err = svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if got != "" {
		t.Errorf("expected cleared hash, got %s", got)
	}

	err = svc.StoreRefreshTokenHash("0190a0a0-0000-7000-8000-000000000000", hash)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestSeedDefaultUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	created, err := svc.SeedDefaultUsers()
	testutil.AssertNoError(t, err)
	if created != 2 {
		t.Fatalf("expected 2 seeded users, got %d", created)
	}

	admin, err := svc.AttemptLogin("admin", "admin123")
	testutil.AssertNoError(t, err)
	if admin.Role != models.RoleAdmin {
		t.Errorf("expected admin role, got %s", admin.Role)
	}

	user, err := svc.AttemptLogin("user", "user123")
	testutil.AssertNoError(t, err)
	if user.Role != models.RoleUser {
		t.Errorf("expected user role, got %s", user.Role)
	}

	_, err = svc.AttemptLogin("admin", "wrong")
	testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

	again, err := svc.SeedDefaultUsers()
	testutil.AssertNoError(t, err)
	if again != 0 {
		t.Errorf("expected seeding to be idempotent, created %d", again)
	}
}
