package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultName 是未指定字体时使用的内置字体。
const DefaultName = "go-regular"

var builtin = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-bold":    gobold.TTF,
	"go-mono":    gomono.TTF,
}

// Builtin 返回内置字体的字节数据，name 可写为 "builtin:go-bold"、"embed:go-bold" 或直接 "go-bold".
func Builtin(name string) ([]byte, error) {
	name = trimScheme(name)
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s（可用: %s）", name, strings.Join(BuiltinNames(), ", "))
	}
	return data, nil
}

// BuiltinNames lists the names accepted by Builtin, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func trimScheme(src string) string {
	for _, p := range []string{"builtin:", "built-in:", "embed:"} {
		if strings.HasPrefix(src, p) {
			return strings.TrimPrefix(src, p)
		}
	}
	return src
}

func isBuiltinSource(src string) bool {
	return trimScheme(src) != src
}
