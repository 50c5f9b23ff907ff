package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/go-feed-service/internal/application"
	"github.com/oksasatya/go-feed-service/internal/apptest"
	"github.com/oksasatya/go-feed-service/pkg/helpers"
)

func newAuthFixture(t *testing.T) (*application.AuthService, *apptest.UserStore) {
	t.Helper()
	users := apptest.NewUserStore(apptest.NewClock())
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return application.NewAuthService(users, jwt, nil), users
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "longenough", 8)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("user has no id")
	}
	if user.Status != "I am new!" {
		t.Errorf("status = %q, want default greeting", user.Status)
	}
	if user.Password == "longenough" {
		t.Error("password stored in the clear")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "longenough", 8); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "impostor", "alice@example.com", "alsolongenough", 8)
	if !errors.Is(err, application.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestRegisterPasswordMinimumPerCaller(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	// a 5-char password fails the stricter threshold
	_, err := svc.Register(ctx, "bob", "bob@example.com", "five5", 8)
	if _, ok := application.AsValidation(err); !ok {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	// but passes the looser one
	if _, err := svc.Register(ctx, "bob", "bob@example.com", "five5", 5); err != nil {
		t.Fatalf("register with min 5: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), "", "not-an-email", "x", 8)
	ve, ok := application.AsValidation(err)
	if !ok {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(ve.Violations) != 3 {
		t.Errorf("violations = %v, want name+email+password", ve.Violations)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "longenough", 8)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := svc.Login(ctx, "alice@example.com", "longenough")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.UserID != user.ID {
		t.Errorf("userId = %q, want %q", res.UserID, user.ID)
	}
	if res.Token == "" {
		t.Fatal("empty token")
	}

	claims, err := svc.JWT.Parse(res.Token)
	if err != nil {
		t.Fatalf("Parse issued token: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "longenough", 8); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, wrongPass := svc.Login(ctx, "alice@example.com", "wrongpassword")
	_, unknownEmail := svc.Login(ctx, "nobody@example.com", "longenough")

	// unknown email and wrong password must be indistinguishable
	if !errors.Is(wrongPass, application.ErrUnauthenticated) {
		t.Errorf("wrong password err = %v, want ErrUnauthenticated", wrongPass)
	}
	if !errors.Is(unknownEmail, application.ErrUnauthenticated) {
		t.Errorf("unknown email err = %v, want ErrUnauthenticated", unknownEmail)
	}
	if wrongPass.Error() != unknownEmail.Error() {
		t.Errorf("error messages differ: %q vs %q", wrongPass, unknownEmail)
	}
}

func TestGetUser(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "longenough", 8)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := users.AppendPost(ctx, user.ID, "post-1"); err != nil {
		t.Fatalf("AppendPost: %v", err)
	}
	if err := users.AppendPost(ctx, user.ID, "post-2"); err != nil {
		t.Fatalf("AppendPost: %v", err)
	}

	got, postIDs, err := svc.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != user.Email {
		t.Errorf("email = %q, want %q", got.Email, user.Email)
	}
	if len(postIDs) != 2 || postIDs[0] != "post-2" {
		t.Errorf("post ids = %v, want newest first", postIDs)
	}
}

func TestGetUserUnknown(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, _, err := svc.GetUser(context.Background(), "ghost")
	if !errors.Is(err, application.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "longenough", 8)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, user.ID, "out for lunch")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != "out for lunch" {
		t.Errorf("status = %q", updated.Status)
	}

	_, err = svc.UpdateStatus(ctx, user.ID, "   ")
	if _, ok := application.AsValidation(err); !ok {
		t.Fatalf("blank status err = %v, want ValidationError", err)
	}
}
