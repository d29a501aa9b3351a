package binding

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mustDecode(t *testing.T, s string) any {
	t.Helper()
	v, err := Decode([]byte(s))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestInterpolate(t *testing.T) {
	data := mustDecode(t, `{"name":"Ada","order":{"id":1024,"items":[{"sku":"ab-1"},{"sku":"cd-2"}]},"ok":true,"ratio":0.5}`)
	cases := map[string]string{
		"${name}":                     "Ada",
		"No. ${order.id}":             "No. 1024",
		"${order.items[1].sku}":       "cd-2",
		"${order.items[0].sku:upper}": "AB-1",
		"${missing|N/A}":              "N/A",
		"${missing:lower|XY}":         "xy",
		"${ok}/${ratio}":              "true/0.5",
		"${order.items[5].sku}":       "${order.items[5].sku}",
		"${ }":                        "${ }",
		"plain":                       "plain",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExpandReportsMissing(t *testing.T) {
	out, err := Expand("${a}-${b}-${c|x}", mustDecode(t, `{"a":"A"}`))
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
	if out != "A-${b}-x" {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := Expand("${a}", mustDecode(t, `{"a":"A"}`)); err != nil {
		t.Fatalf("resolved text should not error: %v", err)
	}
}

func TestNilDataUsesFallbacks(t *testing.T) {
	if got := Interpolate("${x|fallback} ${y}", nil); got != "fallback ${y}" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"big": 12345678901234567890}`), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// 大整数保持原样，不转成科学计数法
	if got := Interpolate("${big}", v); got != "12345678901234567890" {
		t.Fatalf("got %q", got)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("missing file should fail")
	}
}
