package toolchain

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fakeRunner records command lines and fails for names in fail.
type fakeRunner struct {
	cmds []string
	fail map[string]bool
	out  string
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.cmds = append(f.cmds, strings.Join(append([]string{name}, args...), " "))
	if f.fail[name] {
		return []byte("boom\n"), errors.New("exit status 1")
	}
	return []byte(f.out), nil
}

func newFake(t *testing.T, fail ...string) (*Toolchain, *fakeRunner) {
	t.Helper()
	f := &fakeRunner{fail: make(map[string]bool)}
	for _, name := range fail {
		f.fail[name] = true
	}
	tc := New()
	tc.Run = f.run
	return tc, f
}

var artifacts = Artifacts{LL: "build/out.ll", BC: "build/out.bc", Obj: "build/out.o", Exe: "out"}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		static  bool
		release bool
		strip   bool
		exe     string
		want    []string
	}{
		{
			name: "default",
			exe:  "out",
			want: []string{
				"llvm-as build/out.ll -o build/out.bc",
				"llc -filetype=obj build/out.ll -o build/out.o",
				"cc build/out.o -o out",
			},
		},
		{
			name:    "static_release_strip",
			static:  true,
			release: true,
			strip:   true,
			exe:     "out",
			want: []string{
				"llvm-as build/out.ll -o build/out.bc",
				"llc -filetype=obj build/out.ll -o build/out.o",
				"cc -O3 -static build/out.o -o out",
				"strip out",
			},
		},
		{
			name:  "no_link",
			strip: true,
			want: []string{
				"llvm-as build/out.ll -o build/out.bc",
				"llc -filetype=obj build/out.ll -o build/out.o",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc, f := newFake(t)
			tc.Static, tc.Release, tc.DoStrip = tt.static, tt.release, tt.strip
			a := artifacts
			a.Exe = tt.exe
			if err := tc.Build(context.Background(), a); err != nil {
				t.Fatalf("Build: %v", err)
			}
			if !reflect.DeepEqual(f.cmds, tt.want) {
				t.Errorf("commands:\n%s\nwant:\n%s", strings.Join(f.cmds, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestBuildStopsAtFailure(t *testing.T) {
	tc, f := newFake(t, "llc")
	err := tc.Build(context.Background(), artifacts)

	var cerr *CommandError
	if !errors.As(err, &cerr) {
		t.Fatalf("Build = %v, want *CommandError", err)
	}
	if cerr.Args[0] != "llc" {
		t.Errorf("failed command = %v, want llc", cerr.Args)
	}
	if !strings.Contains(err.Error(), "llc -filetype=obj") || !strings.HasSuffix(err.Error(), "\nboom") {
		t.Errorf("error text = %q", err)
	}
	if len(f.cmds) != 2 {
		t.Errorf("ran %d commands after failure, want 2", len(f.cmds))
	}
}

func TestVerboseEcho(t *testing.T) {
	tc, _ := newFake(t)
	var buf bytes.Buffer
	tc.Verbose = &buf
	tc.Linker = "ld.lld"
	if err := tc.Link(context.Background(), "a.o", "a"); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "+ ld.lld a.o -o a\n"; got != want {
		t.Errorf("echo = %q, want %q", got, want)
	}
}

func TestDoctor(t *testing.T) {
	tc, _ := newFake(t, "llvm-as")
	tc.Run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name == "llvm-as" {
			return nil, errors.New("not found")
		}
		return []byte(name + " version 17.0.6\nmore\n"), nil
	}

	var buf bytes.Buffer
	if !tc.Doctor(context.Background(), &buf) {
		t.Errorf("Doctor reported failure with only optional tools missing:\n%s", buf.String())
	}
	out := buf.String()
	for _, want := range []string{"llc:      llc version 17.0.6 ✓", "llvm-as:   (optional, not found)", "All required tools available!"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestDoctorMissingRequired(t *testing.T) {
	tc, _ := newFake(t, "cc")
	var buf bytes.Buffer
	if tc.Doctor(context.Background(), &buf) {
		t.Errorf("Doctor succeeded without a linker:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "cc:        ✗ (not found)") {
		t.Errorf("report:\n%s", buf.String())
	}
}

func TestFirstLine(t *testing.T) {
	long := strings.Repeat("x", 80)
	if got := firstLine(long); len(got) != 60 || !strings.HasSuffix(got, "...") {
		t.Errorf("firstLine(long) = %q", got)
	}
	if got := firstLine("  a b \nc"); got != "a b" {
		t.Errorf("firstLine = %q", got)
	}
}
