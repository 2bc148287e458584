package bitmap

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/kargakis/xrep/pkg/params"
)

func TestNewIsAllOnes(t *testing.T) {
	cfg := params.Default()
	m := New(cfg)
	if got, want := m.Size(), int(cfg.MapSize()); got != want {
		t.Fatalf("size: got %d, want %d", got, want)
	}
	for i := 0; i < m.Size(); i++ {
		if m.body[i] != 0xFF {
			t.Fatalf("byte %d: expected 0xFF, got %#x", i, m.body[i])
		}
	}
}

func TestClearBitThenCheckHash(t *testing.T) {
	cfg := params.Default()
	m := New(cfg)

	com := uint64(12345)
	div := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	if got := m.CheckHash(com, div); got == 0 {
		t.Fatalf("expected a miss (nonzero) before any ClearBit, got 0")
	}

	for id := range div {
		m.ClearBit(com, div[id], id)
	}

	if got := m.CheckHash(com, div); got != 0 {
		t.Fatalf("expected a hit (0) after clearing all filter bits, got %#b", got)
	}
}

func TestClearBitDoesNotAffectOtherFilters(t *testing.T) {
	cfg := params.Default()
	m := New(cfg)

	com := uint64(100)
	div := []byte{0, 0, 0, 0, 0, 0, 0, 0}

	m.ClearBit(com, div[0], 3)

	got := m.CheckHash(com, div)
	if got&(1<<3) != 0 {
		t.Fatalf("filter 3 should have been cleared")
	}
	for id := 0; id < params.DV; id++ {
		if id == 3 {
			continue
		}
		if got&(1<<uint(id)) == 0 {
			t.Fatalf("filter %d should still be set", id)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := params.Default()
	fs := afero.NewMemMapFs()

	m := New(cfg)
	m.ClearBit(42, 5, 0)
	m.ClearBit(100, 10, 7)

	const setupTime = int64(1700000000)
	if err := Save(fs, "map.dat", setupTime, m); err != nil {
		t.Fatalf("Save: unexpected error: %v", err)
	}

	gotTime, loaded, err := Load(fs, "map.dat", cfg)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if gotTime != setupTime {
		t.Fatalf("setup time: got %d, want %d", gotTime, setupTime)
	}
	for i := 0; i < m.Size(); i++ {
		if m.body[i] != loaded.body[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, loaded.body[i], m.body[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := params.Default()

	if _, _, err := Load(fs, "does-not-exist.dat", cfg); err == nil {
		t.Fatal("expected error for missing map file")
	}
}

func TestLoadShortFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := params.Default()

	f, err := fs.Create("short.dat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.Write([]byte{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.Close()

	if _, _, err := Load(fs, "short.dat", cfg); err == nil {
		t.Fatal("expected error for short map file")
	}
}
