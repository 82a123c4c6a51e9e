package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	return nil
}

func writeAsset(t *testing.T, dir string, id Identifier, version uint, spec *mockStoreSpec) {
	t.Helper()
	data, err := json.Marshal(Asset[*mockStoreSpec]{Version: version, Identifier: id, Spec: spec})
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, string(id)+".json"), data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tests := map[string]struct {
		setup    func(t *testing.T, dir string)
		expErr   string
		expCount int
	}{
		"empty directory": {
			setup: func(t *testing.T, dir string) {},
		},
		"loads assets": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, dir, "goblin", 1, &mockStoreSpec{Name: "Goblin", Value: 1})
				writeAsset(t, dir, "orc", 1, &mockStoreSpec{Name: "Orc", Value: 2})
			},
			expCount: 2,
		},
		"ignores non json files": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, dir, "goblin", 1, &mockStoreSpec{Name: "Goblin"})
				if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644); err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			},
			expCount: 1,
		},
		"invalid json": {
			setup: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{invalid`), 0644); err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			},
			expErr: "unmarshalling asset",
		},
		"validation failure": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, dir, "goblin", 0, &mockStoreSpec{Name: "Goblin"})
			},
			expErr: "version must be set",
		},
		"duplicate key": {
			setup: func(t *testing.T, dir string) {
				sub := filepath.Join(dir, "sub")
				if err := os.Mkdir(sub, 0755); err != nil {
					t.Fatalf("failed to create subdir: %v", err)
				}
				writeAsset(t, dir, "goblin", 1, &mockStoreSpec{Name: "Goblin"})
				writeAsset(t, sub, "goblin", 1, &mockStoreSpec{Name: "Goblin"})
			},
			expErr: "duplicate key detected: goblin",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			store, err := NewFileStore[*mockStoreSpec](dir)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "record count", len(store.GetAll()), tt.expCount)
		})
	}
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewFileStore[*mockStoreSpec]("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestFileStore_GetAndIds(t *testing.T) {
	store := NewMemoryStore(map[Identifier]*mockStoreSpec{
		"orc":    {Name: "Orc", Value: 2},
		"goblin": {Name: "Goblin", Value: 1},
	})

	testutil.AssertEqual(t, "goblin name", store.Get("goblin").Name, "Goblin")
	if store.Get("troll") != nil {
		t.Errorf("expected nil for unknown id")
	}

	ids := store.Ids()
	testutil.AssertEqual(t, "id count", len(ids), 2)
	testutil.AssertEqual(t, "first id", ids[0], Identifier("goblin"))

	all := store.GetAll()
	delete(all, "orc")
	testutil.AssertEqual(t, "GetAll returns a copy", len(store.GetAll()), 2)
}
