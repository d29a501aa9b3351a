// Package renderer 定义场景每一帧交给渲染后端的快照，以及相机、灯光与辅助对象的配置。
package renderer

import (
	"fmt"
	"math"
	"time"

	"github.com/ByLCY/stampkit/mesh"
	"github.com/ByLCY/stampkit/stamp"
)

// Renderer 将一帧输出为最终文件，例如 PDF 或 SVG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(f Frame) ([]byte, error)
}

// Frame is an immutable view of the scene at one tick. Set is always a fully
// built stamp set or nil.
type Frame struct {
	Index   int
	Elapsed time.Duration
	Set     *stamp.Set
	Rig     Rig
}

// Helper names a toggleable scene helper.
type Helper int

const (
	HelperAxes Helper = iota
	HelperGrid
	HelperLightHelper
	HelperPointLight
	HelperAmbientLight
)

var helperNames = map[Helper]string{
	HelperAxes:         "axes",
	HelperGrid:         "grid",
	HelperLightHelper:  "light-helper",
	HelperPointLight:   "point-light",
	HelperAmbientLight: "ambient-light",
}

func (h Helper) String() string {
	if n, ok := helperNames[h]; ok {
		return n
	}
	return fmt.Sprintf("helper(%d)", int(h))
}

// ParseHelper maps a helper name to its value.
func ParseHelper(name string) (Helper, error) {
	for h, n := range helperNames {
		if n == name {
			return h, nil
		}
	}
	return 0, fmt.Errorf("未知的辅助对象 %q（可用: axes, grid, light-helper, point-light, ambient-light）", name)
}

// Camera is a perspective camera orbiting Target.
type Camera struct {
	FOV      float64 // degrees
	Near     float64
	Far      float64
	Position mesh.Vec3
	Target   mesh.Vec3
}

// Light is a point or ambient light.
type Light struct {
	Position  mesh.Vec3
	Intensity float64
	Distance  float64
	Visible   bool
}

// Rig holds everything the renderer needs besides the stamps.
type Rig struct {
	Camera  Camera
	Ambient Light
	Point   Light

	Axes        bool
	Grid        bool
	LightHelper bool

	AutoRotate bool
	// AutoRotateSpeed is in degrees per second around the target's y axis.
	AutoRotateSpeed float64
}

// DefaultRig matches the stock scene: a 75° camera at (2, 2, 5), a 0.4
// ambient light and an intensity 20 point light at (-2, 2, 2).
func DefaultRig() Rig {
	return Rig{
		Camera: Camera{
			FOV:      75,
			Near:     1,
			Far:      10000,
			Position: mesh.V3(2, 2, 5),
			Target:   mesh.V3(0, 0.5, 0),
		},
		Ambient:         Light{Intensity: 0.4, Visible: true},
		Point:           Light{Position: mesh.V3(-2, 2, 2), Intensity: 20, Distance: 100, Visible: true},
		Axes:            true,
		Grid:            true,
		AutoRotateSpeed: 12,
	}
}

// SetHelper toggles one helper.
func (r *Rig) SetHelper(h Helper, visible bool) {
	switch h {
	case HelperAxes:
		r.Axes = visible
	case HelperGrid:
		r.Grid = visible
	case HelperLightHelper:
		r.LightHelper = visible
	case HelperPointLight:
		r.Point.Visible = visible
	case HelperAmbientLight:
		r.Ambient.Visible = visible
	}
}

// HelperVisible reports the state of one helper.
func (r Rig) HelperVisible(h Helper) bool {
	switch h {
	case HelperAxes:
		return r.Axes
	case HelperGrid:
		return r.Grid
	case HelperLightHelper:
		return r.LightHelper
	case HelperPointLight:
		return r.Point.Visible
	case HelperAmbientLight:
		return r.Ambient.Visible
	}
	return false
}

// Update advances time-dependent state by dt.
func (r *Rig) Update(dt time.Duration) {
	if !r.AutoRotate || dt <= 0 {
		return
	}
	angle := r.AutoRotateSpeed * math.Pi / 180 * dt.Seconds()
	s, c := math.Sincos(angle)
	off := r.Camera.Position.Sub(r.Camera.Target)
	off = mesh.V3(off.X*c+off.Z*s, off.Y, -off.X*s+off.Z*c)
	r.Camera.Position = r.Camera.Target.Add(off)
}
