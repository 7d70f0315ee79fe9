package registry

import (
	"reflect"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

type testNamespace struct {
	name string
	h    *Host
}

func (n testNamespace) Name() string { return n.name }

func (n testNamespace) Functions() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"hasState": func(L *lua.LState) int {
			L.Push(lua.LBool(n.h.State != nil))
			return 1
		},
		"answer": func(L *lua.LState) int {
			L.Push(lua.LNumber(42))
			return 1
		},
	}
}

func (n testNamespace) Constants() map[string]lua.LValue {
	return map[string]lua.LValue{"VERSION": lua.LNumber(1)}
}

func factory(name string) Factory {
	return func(h *Host) Namespace { return testNamespace{name: name, h: h} }
}

func TestRegisterAndList(t *testing.T) {
	Register("zeta", factory("zeta"))
	Register("alpha", factory("alpha"))

	if !Exists("alpha") || Exists("missing") {
		t.Fatal("Exists() does not match registrations")
	}

	var names []string
	for _, info := range List() {
		names = append(names, info.Name)
		if info.Name == "alpha" {
			if want := []string{"answer", "hasState"}; !reflect.DeepEqual(info.Functions, want) {
				t.Errorf("Functions = %v, want %v", info.Functions, want)
			}
			if want := []string{"VERSION"}; !reflect.DeepEqual(info.Constants, want) {
				t.Errorf("Constants = %v, want %v", info.Constants, want)
			}
		}
	}
	if !reflect.DeepEqual(names, []string{"alpha", "zeta"}) {
		t.Errorf("List() names = %v, want sorted [alpha zeta]", names)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup", factory("dup"))
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("dup", factory("dup"))
}

func TestBind(t *testing.T) {
	if !Exists("bound") {
		Register("bound", factory("bound"))
	}

	L := lua.NewState()
	defer L.Close()

	scope := L.NewTable()
	h := &Host{}
	Bind(L, scope, h)

	tbl, ok := L.GetField(scope, "bound").(*lua.LTable)
	if !ok {
		t.Fatal("namespace table not installed")
	}
	if got := L.GetField(tbl, "VERSION"); got != lua.LNumber(1) {
		t.Errorf("VERSION = %v, want 1", got)
	}

	fn := L.GetField(tbl, "answer").(*lua.LFunction)
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if got := L.Get(-1); got != lua.LNumber(42) {
		t.Errorf("answer() = %v, want 42", got)
	}
	L.Pop(1)

	// Tables are fresh per scope.
	other := L.NewTable()
	Bind(L, other, h)
	if L.GetField(other, "bound") == tbl {
		t.Error("Bind reused a table across scopes")
	}
}
