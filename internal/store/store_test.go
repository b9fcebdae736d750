package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "sizes.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	mem, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite(:memory:): %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		mem.Close()
	})
	return map[string]Store{"memory": NewMemory(), "sqlite": db, "sqlite-memory": mem}
}

func TestFloatingSizes(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.LoadFloatingSize(ctx, "kitty"); err != nil || ok {
				t.Fatalf("empty store: ok=%v err=%v", ok, err)
			}

			steps := []geom.Vector2D{{X: 640, Y: 400}, {X: 812.5, Y: 300}}
			for _, want := range steps {
				if err := s.SaveFloatingSize(ctx, "kitty", want); err != nil {
					t.Fatalf("save: %v", err)
				}
				got, ok, err := s.LoadFloatingSize(ctx, "kitty")
				if err != nil || !ok {
					t.Fatalf("load: ok=%v err=%v", ok, err)
				}
				if got != want {
					t.Errorf("load = %v, want %v", got, want)
				}
			}

			if err := s.SaveFloatingSize(ctx, "", geom.Vec(1, 1)); err != nil {
				t.Errorf("saving an empty class: %v", err)
			}
			if _, ok, _ := s.LoadFloatingSize(ctx, ""); ok {
				t.Error("empty class was stored")
			}
		})
	}
}

func TestSQLitePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sizes.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveFloatingSize(ctx, "mpv", geom.Vec(1280, 720)); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	got, ok, err := db.LoadFloatingSize(ctx, "mpv")
	if err != nil || !ok || got != geom.Vec(1280, 720) {
		t.Errorf("after reopen: %v ok=%v err=%v", got, ok, err)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		cfg     config.StoreConfig
		want    string
		wantErr bool
	}{
		{cfg: config.StoreConfig{}, want: "*store.Memory"},
		{cfg: config.StoreConfig{Driver: "memory"}, want: "*store.Memory"},
		{cfg: config.StoreConfig{Driver: "sqlite", Path: ":memory:"}, want: "*store.SQLite"},
		{cfg: config.StoreConfig{Driver: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.cfg.Driver, func(t *testing.T) {
			s, err := Open(tt.cfg)
			if tt.wantErr {
				if !tserrors.Is(err, tserrors.ErrCodeStore) {
					t.Errorf("Open(%+v) error = %v, want store error", tt.cfg, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			defer s.Close()
			if got := typeName(s); got != tt.want {
				t.Errorf("Open(%+v) = %s, want %s", tt.cfg, got, tt.want)
			}
		})
	}
}

func typeName(s Store) string {
	switch s.(type) {
	case *Memory:
		return "*store.Memory"
	case *SQLite:
		return "*store.SQLite"
	}
	return "?"
}
