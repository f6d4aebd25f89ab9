package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestResolver_Resolve_Clone(t *testing.T) {
	cache := t.TempDir()
	mock := NewMockExecutor()
	mock.AddResponse("git clone", nil, nil)
	mock.AddResponse("git rev-parse HEAD", []byte("abc\n"), nil)

	dir, err := NewResolver(NewGitClientWithExecutor(mock), cache, nil).Resolve(context.Background(), "git@github.com:org/repo.git")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if want := filepath.Join(cache, "github.com_org_repo"); dir != want {
		t.Errorf("dir = %q, want %q", dir, want)
	}
	if calls := mock.Calls(); len(calls) != 2 || calls[0].Args[0] != "clone" {
		t.Errorf("calls = %+v", calls)
	}
}

func TestResolver_Resolve_Update(t *testing.T) {
	cache := t.TempDir()
	existing := filepath.Join(cache, "github.com_org_repo")
	if err := os.MkdirAll(filepath.Join(existing, ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	mock := NewMockExecutor()
	mock.AddResponse("git fetch", nil, nil)
	mock.AddResponse("git reset", nil, nil)
	mock.AddResponse("git rev-parse HEAD", []byte("abc\n"), nil)

	dir, err := NewResolver(NewGitClientWithExecutor(mock), cache, nil).Resolve(context.Background(), "git@github.com:org/repo.git")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if dir != existing {
		t.Errorf("dir = %q, want %q", dir, existing)
	}

	var verbs []string
	for _, c := range mock.Calls() {
		verbs = append(verbs, c.Args[0])
	}
	if !slices.Equal(verbs, []string{"fetch", "reset", "rev-parse"}) {
		t.Errorf("git verbs = %v", verbs)
	}
}

func TestResolver_Resolve_InvalidURL(t *testing.T) {
	mock := NewMockExecutor()
	_, err := NewResolver(NewGitClientWithExecutor(mock), t.TempDir(), nil).Resolve(context.Background(), "https://example.com/x")
	if !errors.Is(err, ErrInvalidSSHURL) {
		t.Errorf("err = %v, want ErrInvalidSSHURL", err)
	}
	if len(mock.Calls()) != 0 {
		t.Error("git should not run for an invalid URL")
	}
}

func TestResolver_Resolve_CloneFails(t *testing.T) {
	mock := NewMockExecutor()
	mock.AddResponse("git clone", nil, errors.New("permission denied"))

	_, err := NewResolver(NewGitClientWithExecutor(mock), t.TempDir(), nil).Resolve(context.Background(), "git@github.com:org/repo.git")
	if err == nil {
		t.Error("expected error")
	}
}

func TestResolver_TrackedFiles(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*MockExecutor)
		want  []string
	}{
		{"work tree", func(m *MockExecutor) {
			m.AddResponse("git rev-parse --is-inside-work-tree", []byte("true\n"), nil)
			m.AddResponse("git ls-files", []byte("a.js\nb.js\n"), nil)
		}, []string{"a.js", "b.js"}},
		{"not a work tree", func(m *MockExecutor) {
			m.AddResponse("git rev-parse --is-inside-work-tree", nil, errors.New("fatal"))
		}, nil},
		{"ls-files fails", func(m *MockExecutor) {
			m.AddResponse("git rev-parse --is-inside-work-tree", []byte("true\n"), nil)
			m.AddResponse("git ls-files", nil, errors.New("boom"))
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockExecutor()
			tt.setup(mock)

			got := NewResolver(NewGitClientWithExecutor(mock), "", nil).TrackedFiles(context.Background(), "/repo")
			if !slices.Equal(got, tt.want) {
				t.Errorf("TrackedFiles() = %v, want %v", got, tt.want)
			}
		})
	}
}
