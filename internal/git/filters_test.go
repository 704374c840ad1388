package git

import "testing"

func TestNewPathFilter_InvalidPatterns(t *testing.T) {
	t.Run("invalid exclude pattern", func(t *testing.T) {
		if _, err := NewPathFilter(nil, []string{"["}); err == nil {
			t.Fatal("expected error for invalid exclude glob, got nil")
		}
	})

	t.Run("invalid include pattern", func(t *testing.T) {
		if _, err := NewPathFilter([]string{"["}, nil); err == nil {
			t.Fatal("expected error for invalid include glob, got nil")
		}
	})
}

func TestPathFilter_Apply(t *testing.T) {
	files := []CommittedFile{
		{RelativePath: "src/main.go"},
		{RelativePath: "src/main_test.go"},
		{RelativePath: "vendor/lib/x.go"},
		{RelativePath: "README.md"},
	}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name: "no patterns keeps all",
			want: []string{"src/main.go", "src/main_test.go", "vendor/lib/x.go", "README.md"},
		},
		{
			name:    "include go files",
			include: []string{"**/*.go"},
			want:    []string{"src/main.go", "src/main_test.go", "vendor/lib/x.go"},
		},
		{
			name:    "exclude wins over include",
			include: []string{"**/*.go"},
			exclude: []string{"vendor/**", "**/*_test.go"},
			want:    []string{"src/main.go"},
		},
		{
			name:    "exclude only",
			exclude: []string{"*.md"},
			want:    []string{"src/main.go", "src/main_test.go", "vendor/lib/x.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewPathFilter(tt.include, tt.exclude)
			if err != nil {
				t.Fatalf("NewPathFilter: %v", err)
			}
			got, err := f.Apply(files)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d files, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].RelativePath != tt.want[i] {
					t.Errorf("files[%d] = %q, want %q", i, got[i].RelativePath, tt.want[i])
				}
			}
		})
	}
}

func TestPathFilter_NilIsEmpty(t *testing.T) {
	var f *PathFilter
	if !f.IsEmpty() {
		t.Fatal("nil filter should be empty")
	}
	files := []CommittedFile{{RelativePath: "a"}}
	got, err := f.Apply(files)
	if err != nil || len(got) != 1 {
		t.Errorf("Apply on nil filter = %v, %v", got, err)
	}
}

func TestPathFilter_BackslashPaths(t *testing.T) {
	f, err := NewPathFilter([]string{"src/**"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := f.matches(`src\pkg\a.go`)
	if err != nil || !ok {
		t.Errorf("matches = %v, %v", ok, err)
	}
}
