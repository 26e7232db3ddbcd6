// SPDX-License-Identifier: MPL-2.0

package verb

import (
	"errors"
	"slices"
	"testing"

	"github.com/pfxkit/pfxkit/internal/dag"
)

func names(verbs []Verb) []string {
	out := make([]string, len(verbs))
	for i, v := range verbs {
		out[i] = v.Name
	}
	return out
}

func sampleRegistry() *Registry {
	r := NewRegistry()
	r.Register(New("vcrun2019", DynamicLibrary, "Visual C++ 2015-2019 libraries", "Microsoft", "2019"))
	r.Register(New("d3dx9", DynamicLibrary, "DirectX 9 D3DX libraries", "Microsoft", "2010"))
	r.Register(New("corefonts", Font, "MS Core Fonts", "Microsoft", "2008"))
	r.Register(New("win10", Setting, "Set Windows version to Windows 10", "Microsoft", "2015"))
	r.Register(New("steam", Application, "Steam client", "Valve", "2003"))
	return r
}

func TestRegister_LastWriteWins(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(New("demo", DynamicLibrary, "built-in", "", ""))
	r.Register(New("demo", Custom, "user", "", ""))

	v, ok := r.Get("demo")
	if !ok {
		t.Fatal("Get(demo) not found")
	}
	if v.Title != "user" || v.Category != Custom {
		t.Errorf("Get(demo) = %+v, want the second registration", v)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	r := sampleRegistry()
	if got := names(r.List(nil)); !slices.Equal(got, []string{"corefonts", "d3dx9", "steam", "vcrun2019", "win10"}) {
		t.Errorf("List(nil) = %v", got)
	}
	dlls := DynamicLibrary
	if got := names(r.List(&dlls)); !slices.Equal(got, []string{"d3dx9", "vcrun2019"}) {
		t.Errorf("List(dlls) = %v", got)
	}
}

func TestNames_Sorted(t *testing.T) {
	t.Parallel()

	r := sampleRegistry()
	if got := r.Names(); !slices.Equal(got, []string{"corefonts", "d3dx9", "steam", "vcrun2019", "win10"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	r := sampleRegistry()
	tests := []struct {
		query string
		want  []string
	}{
		{query: "D3D", want: []string{"d3dx9"}},
		{query: "windows", want: []string{"win10"}},
		{query: "fonts", want: []string{"corefonts"}},
		{query: "libraries", want: []string{"d3dx9", "vcrun2019"}},
		{query: "nothing-matches", want: nil},
	}
	for _, tt := range tests {
		if got := names(r.Search(tt.query)); !slices.Equal(got, tt.want) && (len(got) != 0 || len(tt.want) != 0) {
			t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestLookup_Suggestions(t *testing.T) {
	t.Parallel()

	r := sampleRegistry()
	_, err := r.Lookup("d3dx8")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Lookup() error = %v, want *NotFoundError", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("error should match ErrNotFound")
	}
	if len(nf.Suggestions) == 0 || nf.Suggestions[0] != "d3dx9" {
		t.Errorf("Suggestions = %v, want d3dx9 first", nf.Suggestions)
	}

	if got := r.Suggest("vcrun"); !slices.Contains(got, "vcrun2019") {
		t.Errorf("Suggest(vcrun) = %v, want vcrun2019", got)
	}
	if got := r.Suggest("zzzzzzzz"); len(got) != 0 {
		t.Errorf("Suggest(zzzzzzzz) = %v, want none", got)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	r := sampleRegistry()
	if err := r.Check(); err != nil {
		t.Fatalf("Check() on valid registry = %v", err)
	}

	r.Register(New("broken", Custom, "", "", "").With(CallVerb{Name: "missing"}))
	r.Register(New("a", Custom, "", "", "").With(CallVerb{Name: "b"}))
	r.Register(New("b", Custom, "", "", "").With(CallVerb{Name: "a"}))

	err := r.Check()
	var dangling *DanglingCallError
	if !errors.As(err, &dangling) || dangling.Target != "missing" {
		t.Errorf("Check() error = %v, want dangling call to missing", err)
	}
	if !errors.Is(err, dag.ErrCycle) {
		t.Errorf("Check() error = %v, want a cycle", err)
	}
}

func TestVerb_DependenciesAndWith(t *testing.T) {
	t.Parallel()

	base := New("demo", Custom, "Demo", "", "")
	v := base.With(CallVerb{Name: "x"}, SetDLLOverride{DLL: "d3d9", Mode: Native}, CallVerb{Name: "y"})
	if len(base.Actions) != 0 {
		t.Error("With() modified the receiver")
	}
	if got := v.Dependencies(); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("Dependencies() = %v", got)
	}
}

func TestCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Category
	}{
		{"apps", Application}, {"App", Application},
		{"dll", DynamicLibrary}, {"DLLS", DynamicLibrary},
		{"font", Font}, {"settings", Setting},
		{"custom", Custom}, {"whatever", Custom},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.in); got != tt.want {
			t.Errorf("ParseCategory(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, c := range Categories {
		if ParseCategory(c.String()) != c {
			t.Errorf("ParseCategory(%q) does not round-trip", c.String())
		}
	}
}
