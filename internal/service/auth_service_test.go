package service

import (
	"errors"
	"testing"

	"go-office-ledger/internal/model"
	"go-office-ledger/internal/repository"
	"go-office-ledger/pkg/jwt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestAuth(t *testing.T) (AuthService, repository.UserRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	return NewAuthService(userRepo), userRepo
}

func createUser(t *testing.T, repo repository.UserRepository, email, password string, active bool) *model.User {
	t.Helper()
	user := &model.User{
		Email:    email,
		FullName: "Test User",
		IsActive: active,
	}
	if err := user.SetPassword(password); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestLogin(t *testing.T) {
	svc, repo := newTestAuth(t)
	user := createUser(t, repo, "alice@example.com", "s3cret", true)

	resp, err := svc.Login("alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token == "" {
		t.Fatal("Login() returned empty token")
	}
	if resp.User.Email != user.Email {
		t.Errorf("response user email = %q, want %q", resp.User.Email, user.Email)
	}

	claims, err := jwt.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Errorf("claims = {%s %s}, want {%s %s}", claims.UserID, claims.Email, user.ID, user.Email)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, repo := newTestAuth(t)
	createUser(t, repo, "alice@example.com", "s3cret", true)
	createUser(t, repo, "bob@example.com", "s3cret", false)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"wrong password", "alice@example.com", "nope", ErrInvalidCredentials},
		{"unknown email", "nobody@example.com", "s3cret", ErrInvalidCredentials},
		{"inactive account", "bob@example.com", "s3cret", ErrUserInactive},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Login() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	user := &model.User{}
	if err := user.SetPassword("hunter2"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if user.Password == "hunter2" {
		t.Fatal("password stored in plain text")
	}
	if !user.CheckPassword("hunter2") {
		t.Error("CheckPassword(correct) = false")
	}
	if user.CheckPassword("hunter3") {
		t.Error("CheckPassword(wrong) = true")
	}
}
