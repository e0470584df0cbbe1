package user

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"
)

type memoryUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*User
	byMail map[string]int64
	nextID int64
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		users:  make(map[int64]*User),
		byMail: make(map[string]int64),
		nextID: 1,
	}
}

func (r *memoryUserRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now()
	copyUser := *u
	r.users[u.ID] = &copyUser
	r.byMail[u.Email] = u.ID
	return nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byMail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copyUser := *r.users[id]
	return &copyUser, nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copyUser := *u
	return &copyUser, nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newMemoryUserRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "pass"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}

	u, err := svc.Register(ctx, "Fan@Club.Com", "pass123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "fan@club.com" {
		t.Fatalf("email should be normalized, got %q", u.Email)
	}
	if u.PasswordHash == "pass123" {
		t.Fatalf("password stored in clear")
	}

	if _, err := svc.Register(ctx, "fan@club.com", "other"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := svc.Login(ctx, "fan@club.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	got, err := svc.Login(ctx, "fan@club.com", "pass123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("login returned wrong user")
	}
}
