// Package binding 把 JSON 数据插值到印章文字中，例如 "${order.id}" 或 "${name|ANON}"。
package binding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ErrUnresolved 表示占位符既没有数据也没有默认值。
var ErrUnresolved = errors.New("binding: unresolved placeholder")

// expr 是解析后的占位符：path[:filter][|fallback]。
type expr struct {
	path        string
	filter      string
	fallback    string
	hasFallback bool
}

func parseExpr(body string) expr {
	var e expr
	if i := strings.IndexByte(body, '|'); i >= 0 {
		e.fallback = body[i+1:]
		e.hasFallback = true
		body = body[:i]
	}
	if i := strings.IndexByte(body, ':'); i >= 0 {
		e.filter = strings.TrimSpace(body[i+1:])
		body = body[:i]
	}
	e.path = strings.TrimSpace(body)
	return e
}

// Interpolate 将文本中的占位符替换为 data 中的值；路径不存在且没有默认值时保留原占位符。
func Interpolate(text string, data any) string {
	out, _ := expand(text, data)
	return out
}

// Expand is Interpolate that also reports every placeholder it could not
// resolve, wrapped in ErrUnresolved.
func Expand(text string, data any) (string, error) {
	out, missing := expand(text, data)
	if len(missing) > 0 {
		return out, fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(missing, ", "))
	}
	return out, nil
}

func expand(text string, data any) (string, []string) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		e := parseExpr(exprPattern.FindStringSubmatch(match)[1])
		if e.path == "" {
			return match
		}
		if val, ok := Lookup(data, e.path); ok && val != nil {
			return applyFilter(format(val), e.filter)
		}
		if e.hasFallback {
			return applyFilter(e.fallback, e.filter)
		}
		missing = append(missing, e.path)
		return match
	})
	return out, missing
}

func applyFilter(s, filter string) string {
	switch filter {
	case "upper":
		return strings.ToUpper(s)
	case "lower":
		return strings.ToLower(s)
	case "trim":
		return strings.TrimSpace(s)
	default:
		return s
	}
}

func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// Lookup resolves a dotted path such as "items[0].name" inside decoded JSON.
func Lookup(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, isArr := current.([]any)
			if !isArr || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []int, bool) {
	name, rest, found := strings.Cut(segment, "[")
	if !found {
		return segment, nil, true
	}
	rest = "[" + rest
	var indexes []int
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

// Decode parses JSON keeping numbers exactly as written.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("解析数据失败: %w", err)
	}
	return v, nil
}

// LoadFile reads and decodes a JSON file.
func LoadFile(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件失败: %w", err)
	}
	return Decode(raw)
}
