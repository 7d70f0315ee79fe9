package api

import (
	"fmt"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/registry"
)

func init() {
	registry.Register("console", newConsole)
}

func newConsole(h *registry.Host) registry.Namespace {
	return &table{
		name: "console",
		funcs: map[string]lua.LGFunction{
			"log": func(L *lua.LState) int {
				args := make([]lua.LValue, L.GetTop())
				for i := range args {
					args[i] = L.Get(i + 1)
				}
				h.Logger.Info(Format(args...))
				return 0
			},
		},
	}
}

// Format joins values with spaces the way console.log prints them. Tables
// are expanded one level: sequences as [ a, b ], others as { k: v, ... }
// with keys sorted.
func Format(values ...lua.LValue) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if t, ok := v.(*lua.LTable); ok {
			parts[i] = formatTable(t)
		} else {
			parts[i] = v.String()
		}
	}
	return strings.Join(parts, " ")
}

func formatTable(t *lua.LTable) string {
	n := t.Len()
	var pairs []string
	isSeq := true
	t.ForEach(func(k, v lua.LValue) {
		if idx, ok := k.(lua.LNumber); !ok || int(idx) < 1 || int(idx) > n || float64(int(idx)) != float64(idx) {
			isSeq = false
		}
		pairs = append(pairs, fmt.Sprintf("%s: %s", k.String(), shallow(v)))
	})

	if len(pairs) == 0 {
		return "{ }"
	}
	if isSeq {
		items := make([]string, n)
		for i := 1; i <= n; i++ {
			items[i-1] = shallow(t.RawGetInt(i))
		}
		return "[ " + strings.Join(items, ", ") + " ]"
	}
	sort.Strings(pairs)
	return "{ " + strings.Join(pairs, ", ") + " }"
}

func shallow(v lua.LValue) string {
	switch v.Type() {
	case lua.LTTable:
		return "table"
	case lua.LTFunction:
		return "function"
	case lua.LTString:
		return fmt.Sprintf("%q", string(v.(lua.LString)))
	}
	return v.String()
}
