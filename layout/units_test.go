package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 144, 1000}
	for _, pt := range samples {
		mm := Length{Value: pt, Unit: UnitPT}.ToMM(DefaultMMPerUnit)
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthToScene 覆盖物理单位到场景单位的换算（默认 1u = 10mm）。
func TestLengthToScene(t *testing.T) {
	cases := []struct {
		in   Length
		want float64
	}{
		{Length{5, UnitMM}, 0.5},
		{Length{1, UnitCM}, 1},
		{Length{1, UnitIN}, 2.54},
		{Length{0.75, UnitScene}, 0.75},
	}
	for _, c := range cases {
		if got := c.in.ToScene(DefaultMMPerUnit); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%v 转场景单位期望 %g，实际 %g", c.in, c.want, got)
		}
	}
	if got := (Length{2, UnitScene}).ToMM(25); got != 50 {
		t.Fatalf("自定义比例下 2u 应为 50mm，实际 %g", got)
	}
}

// TestParseLength 验证带单位与不带单位的解析。
func TestParseLength(t *testing.T) {
	cases := map[string]Length{
		"0.5":    {0.5, UnitScene},
		"0.5u":   {0.5, UnitScene},
		"5mm":    {5, UnitMM},
		" 2 CM ": {2, UnitCM},
		"12pt":   {12, UnitPT},
		"0.25in": {0.25, UnitIN},
	}
	for in, want := range cases {
		got, err := ParseLength(in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", in, err)
		}
		if got != want {
			t.Fatalf("解析 %q: got %+v want %+v", in, got, want)
		}
	}
	for _, bad := range []string{"", "mm", "abc", "1..2cm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("%q 应当解析失败", bad)
		}
	}
	if s := (Length{5, UnitMM}).String(); s != "5mm" {
		t.Fatalf("String: %q", s)
	}
}
