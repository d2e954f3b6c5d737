package repository

import (
	"context"
	"testing"

	"conferencehall/internal/infrastructure/persistence/sqlite/model"
)

func TestMetaRepositorySetOverwrites(t *testing.T) {
	repo := NewMetaRepository(setupDB(t))
	ctx := context.Background()

	if _, found, err := repo.Get(ctx, model.MetaSeedSource); err != nil || found {
		t.Fatalf("Get() before set found=%v err=%v", found, err)
	}
	if err := repo.Set(ctx, model.MetaSeedSource, "a.toml"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set(ctx, model.MetaSeedSource, "b.toml"); err != nil {
		t.Fatalf("Set(again) error = %v", err)
	}
	value, found, err := repo.Get(ctx, model.MetaSeedSource)
	if err != nil || !found || value != "b.toml" {
		t.Fatalf("Get() = %q found=%v err=%v", value, found, err)
	}
	if err := repo.Set(ctx, " ", "x"); err == nil {
		t.Fatalf("Set() expected error for empty key")
	}
}
