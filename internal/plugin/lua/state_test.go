package lua

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func newTestState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	s := NewState(opts...)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStateDoString(t *testing.T) {
	s := newTestState(t)

	if err := s.DoString(context.Background(), `x = string.upper("abc") .. math.floor(2.5)`); err != nil {
		t.Fatalf("DoString() = %v", err)
	}
	if got := s.GetGlobal("x").String(); got != "ABC2" {
		t.Errorf("x = %q", got)
	}
}

func TestStateRestrictedLibraries(t *testing.T) {
	s := newTestState(t)

	for _, name := range []string{"os", "io", "debug", "dofile", "loadfile"} {
		if v := s.GetGlobal(name); v != lua.LNil {
			t.Errorf("%s is available: %v", name, v.Type())
		}
	}
	if err := s.DoString(context.Background(), `require("os")`); err == nil {
		t.Error("require of a system module succeeded")
	}
}

func TestStateDoFile(t *testing.T) {
	s := newTestState(t)
	path := filepath.Join(t.TempDir(), "s.lua")
	if err := os.WriteFile(path, []byte(`answer = 6 * 7`), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := s.DoFile(context.Background(), path); err != nil {
		t.Fatalf("DoFile() = %v", err)
	}
	if got := s.GetGlobal("answer"); got != lua.LNumber(42) {
		t.Errorf("answer = %v", got)
	}
}

func TestStateCall(t *testing.T) {
	s := newTestState(t)
	ctx := context.Background()
	if err := s.DoString(ctx, `function pair(a) return a, a * 2 end; notfn = 1`); err != nil {
		t.Fatal(err)
	}

	res, err := s.Call(ctx, "pair", lua.LNumber(3))
	if err != nil {
		t.Fatalf("Call() = %v", err)
	}
	if len(res) != 2 || res[0] != lua.LNumber(3) || res[1] != lua.LNumber(6) {
		t.Errorf("results = %v", res)
	}

	if _, err := s.Call(ctx, "notfn"); !errors.Is(err, ErrNotFunction) {
		t.Errorf("Call(notfn) = %v", err)
	}
	if _, err := s.Call(ctx, "missing"); !errors.Is(err, ErrNotFunction) {
		t.Errorf("Call(missing) = %v", err)
	}
}

func TestStateTimeout(t *testing.T) {
	s := newTestState(t, WithExecutionTimeout(50*time.Millisecond))

	err := s.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString() = %v, want ErrExecutionTimeout", err)
	}

	// The state stays usable.
	if err := s.DoString(context.Background(), `y = 1`); err != nil {
		t.Errorf("after timeout: %v", err)
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false")
	}
	if err := s.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() = %v", err)
	}
}

func TestConvert(t *testing.T) {
	s := newTestState(t)
	L := s.L

	v := ToLua(L, map[string]any{"name": "q", "n": 2, "list": []string{"a", "b"}, "ok": true})
	L.SetGlobal("v", v)
	if err := s.DoString(context.Background(), `out = v.name .. v.n .. v.list[2] .. tostring(v.ok)`); err != nil {
		t.Fatal(err)
	}
	if got := s.GetGlobal("out").String(); got != "q2btrue" {
		t.Errorf("out = %q", got)
	}

	if err := s.DoString(context.Background(), `t = {1, "x", {k = 1.5}}`); err != nil {
		t.Fatal(err)
	}
	arr, ok := ToGo(s.GetGlobal("t")).([]any)
	if !ok || len(arr) != 3 {
		t.Fatalf("ToGo(t) = %#v", ToGo(s.GetGlobal("t")))
	}
	if arr[0] != int64(1) || arr[1] != "x" {
		t.Errorf("arr = %#v", arr)
	}
	if m, ok := arr[2].(map[string]any); !ok || m["k"] != 1.5 {
		t.Errorf("arr[2] = %#v", arr[2])
	}
}
