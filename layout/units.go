package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths for the control surface and export.

// Unit represents the unit a length was written in.
type Unit int

const (
	UnitScene Unit = iota // scene units, also used for bare numbers
	UnitMM                // millimeters
	UnitCM                // centimeters
	UnitIN                // inches
	UnitPT                // points
)

// Conversion constants.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm

	// DefaultMMPerUnit is the physical size of one scene unit on export.
	DefaultMMPerUnit = 10.0
)

// String returns the suffix used when writing the unit.
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return "u"
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + l.Unit.String()
}

// ToMM converts to millimeters; scene units use mmPerUnit.
func (l Length) ToMM(mmPerUnit float64) float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value * mmPerUnit
	}
}

// ToScene converts to scene units; physical units use mmPerUnit.
func (l Length) ToScene(mmPerUnit float64) float64 {
	if l.Unit == UnitScene {
		return l.Value
	}
	if mmPerUnit <= 0 {
		mmPerUnit = DefaultMMPerUnit
	}
	return l.ToMM(mmPerUnit) / mmPerUnit
}

// ToPT converts to points.
func (l Length) ToPT(mmPerUnit float64) float64 { return l.ToMM(mmPerUnit) * MmToPt }

// ParseLength parses "0.5", "0.5u", "5mm", "1cm", "0.2in" or "12pt".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitScene
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"u", UnitScene}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}
