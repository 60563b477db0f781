package command

import (
	"testing"

	"github.com/tair/car-dealership/internal/user/repository"
	"github.com/tair/car-dealership/pkg/auth"
)

func TestRegisterUser(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	handler := NewRegisterUserHandler(repo)

	user, err := handler.Handle(RegisterUserCommand{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected id 1, got %d", user.ID)
	}
	if user.IsAdmin {
		t.Fatalf("registered users must not be admins")
	}
	if user.Password == "secret1" {
		t.Fatalf("password stored in plaintext")
	}
	if !auth.CheckPassword(user.Password, "secret1") {
		t.Fatalf("stored hash does not verify")
	}
}

func TestRegisterUserDuplicateUsername(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	handler := NewRegisterUserHandler(repo)

	if _, err := handler.Handle(RegisterUserCommand{Username: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if _, err := handler.Handle(RegisterUserCommand{Username: "alice", Password: "other-pass"}); err == nil {
		t.Fatalf("expected duplicate username error")
	}
}

func TestRegisterUserValidation(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	handler := NewRegisterUserHandler(repo)

	cases := []RegisterUserCommand{
		{Username: "", Password: "secret1"},
		{Username: "alice", Password: ""},
		{Username: "alice", Password: "short"},
	}
	for _, cmd := range cases {
		if _, err := handler.Handle(cmd); err == nil {
			t.Fatalf("expected validation error for %+v", cmd)
		}
	}
}

func TestLoginUser(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	register := NewRegisterUserHandler(repo)
	login := NewLoginUserHandler(repo)

	if _, err := register.Handle(RegisterUserCommand{Username: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := login.Handle(LoginUserCommand{Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected token")
	}

	claims, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "alice" || claims.IsAdmin {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, err := login.Handle(LoginUserCommand{Username: "alice", Password: "wrong"}); err == nil {
		t.Fatalf("expected invalid credentials error")
	}
	if _, err := login.Handle(LoginUserCommand{Username: "nobody", Password: "secret1"}); err == nil {
		t.Fatalf("expected invalid credentials error")
	}
}
