package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/storage"
)

func TestAccountRepository_Register(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(storage.NewMemoryKV(), zap.NewNop())

	if err := repo.Register(ctx, entities.NewIdentity("budi", "0811", "rahasia")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		identity *entities.Identity
		wantErr  error
	}{
		{name: "duplicate username", identity: entities.NewIdentity("budi", "0822", "x"), wantErr: ErrDuplicateUsername},
		{name: "duplicate phone", identity: entities.NewIdentity("siti", "0811", "x"), wantErr: ErrDuplicatePhone},
		{name: "missing password", identity: entities.NewIdentity("siti", "0822", ""), wantErr: ErrIncompleteIdentity},
		{name: "missing phone", identity: entities.NewIdentity("siti", "", "x"), wantErr: ErrIncompleteIdentity},
		{name: "ok", identity: entities.NewIdentity("siti", "0822", "x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Register(ctx, tt.identity)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && !IsAuthError(err) {
				t.Errorf("IsAuthError(%v) = false", err)
			}
		})
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("len(users) = %d, want 2", len(users))
	}
}

func TestAccountRepository_Lookup(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(storage.NewMemoryKV(), zap.NewNop())
	if err := repo.Register(ctx, entities.NewIdentity("budi", "0811", "rahasia")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := repo.FindByCredentials(ctx, "budi", "salah"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := repo.FindByCredentials(ctx, "Budi", "rahasia"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("case-folded username error = %v, want ErrInvalidCredentials", err)
	}

	u, err := repo.FindByCredentials(ctx, "budi", "rahasia")
	if err != nil || u.Phone != "0811" {
		t.Fatalf("FindByCredentials = %+v, %v", u, err)
	}

	if _, err := repo.FindByPhone(ctx, "0899"); !errors.Is(err, ErrPhoneNotFound) {
		t.Errorf("FindByPhone(unknown) error = %v, want ErrPhoneNotFound", err)
	}
	u, err = repo.FindByPhone(ctx, "0811")
	if err != nil || u.Username != "budi" || u.Password != "rahasia" {
		t.Fatalf("FindByPhone = %+v, %v", u, err)
	}
}

func TestCorruptValuesResetToEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	for _, key := range []string{KeyAccounts, KeySession, KeyHistory} {
		if err := kv.Set(ctx, key, "{not json"); err != nil {
			t.Fatal(err)
		}
	}

	users, err := NewAccountRepository(kv, zap.NewNop()).List(ctx)
	if err != nil || len(users) != 0 {
		t.Errorf("accounts = %v, %v; want empty", users, err)
	}

	identity, err := NewIdentityRepository(kv, zap.NewNop()).Load(ctx)
	if err != nil || identity != nil {
		t.Errorf("identity = %v, %v; want nil", identity, err)
	}

	records, err := NewHistoryRepository(kv, zap.NewNop()).List(ctx)
	if err != nil || len(records) != 0 {
		t.Errorf("history = %v, %v; want empty", records, err)
	}

	if kv.Len() != 0 {
		t.Errorf("corrupt keys left behind: %d", kv.Len())
	}
}

func TestIdentityRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(storage.NewMemoryKV(), zap.NewNop())

	if id, err := repo.Load(ctx); err != nil || id != nil {
		t.Fatalf("Load on empty = %v, %v", id, err)
	}

	if err := repo.Save(ctx, entities.NewIdentity("budi", "0811", "rahasia")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	id, err := repo.Load(ctx)
	if err != nil || id == nil || id.Username != "budi" {
		t.Fatalf("Load = %v, %v", id, err)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if id, _ := repo.Load(ctx); id != nil {
		t.Errorf("Load after Clear = %v", id)
	}
}

func TestHistoryRepository_PrependNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(storage.NewMemoryKV(), zap.NewNop())
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rec := entities.ResultRecord{
			Username:       "budi",
			Score:          i * 10,
			TotalQuestions: 30,
			Timestamp:      base.Add(time.Duration(i) * time.Hour),
			Topics:         []string{"Aljabar Dasar"},
		}
		if err := repo.Prepend(ctx, rec); err != nil {
			t.Fatalf("Prepend: %v", err)
		}
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	for i, want := range []int{20, 10, 0} {
		if records[i].Score != want {
			t.Errorf("records[%d].Score = %d, want %d", i, records[i].Score, want)
		}
	}
	if !records[0].Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("timestamp not preserved: %v", records[0].Timestamp)
	}
}
