package lua

import (
	"math"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tagstorm/internal/tags"
)

const maxDepth = 16

func toLua(L *lua.LState, v any) lua.LValue {
	switch v := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case string:
		return lua.LString(v)
	case int:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case tags.Tag:
		return stringTable(L, v)
	case map[string]string:
		return stringTable(L, v)
	case []string:
		t := L.CreateTable(len(v), 0)
		for _, s := range v {
			t.Append(lua.LString(s))
		}
		return t
	default:
		return lua.LNil
	}
}

func stringTable(L *lua.LState, m map[string]string) *lua.LTable {
	t := L.CreateTable(0, len(m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.RawSetString(k, lua.LString(m[k]))
	}
	return t
}

// toGo converts a Lua value. Tables with a non-empty sequence part become
// []any, other tables map[string]any. Functions and userdata become nil.
func toGo(v lua.LValue, depth int) any {
	switch v := v.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LString:
		return string(v)
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case *lua.LTable:
		if depth >= maxDepth {
			return nil
		}
		if n := v.Len(); n > 0 {
			out := make([]any, n)
			for i := 1; i <= n; i++ {
				out[i-1] = toGo(v.RawGetInt(i), depth+1)
			}
			return out
		}
		out := make(map[string]any)
		v.ForEach(func(k, val lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				out[string(ks)] = toGo(val, depth+1)
			}
		})
		return out
	default:
		return nil
	}
}
