package scene

import (
	"fmt"

	"github.com/ByLCY/stampkit/layout"
	"github.com/ByLCY/stampkit/renderer"
	"github.com/ByLCY/stampkit/settings"
	"github.com/ByLCY/stampkit/stamp"
)

// State is everything regeneration depends on besides the font.
type State struct {
	Settings   settings.Settings
	Params     stamp.Params // base parameters; Depth comes from Settings
	Generation uint64
}

// NewState starts from cfg at generation 0.
func NewState(cfg settings.Settings, base stamp.Params) State {
	return State{Settings: cfg, Params: base}
}

// StampParams merges the user-editable depth into the base parameters.
func (s State) StampParams() stamp.Params {
	p := s.Params
	p.Depth = s.Settings.Depth
	return p
}

// LayoutOptions builds the layout options from the settings.
func (s State) LayoutOptions() (layout.Options, error) {
	policy, err := layout.ParseMarginPolicy(s.Settings.MarginPolicy)
	if err != nil {
		return layout.Options{}, err
	}
	opts := layout.DefaultOptions()
	opts.Gutter = s.Settings.Gutter
	opts.Policy = policy
	return opts, nil
}

// Regenerate builds the stamp set for the state's generation and the layout
// request for it. It touches nothing outside its arguments.
func Regenerate(st State, res stamp.Resolver) (*stamp.Set, *layout.Request, error) {
	if res == nil {
		return nil, nil, fmt.Errorf("字体尚未加载")
	}
	missing, err := stamp.ParseMissingPolicy(st.Settings.MissingPolicy)
	if err != nil {
		return nil, nil, err
	}
	opts, err := st.LayoutOptions()
	if err != nil {
		return nil, nil, err
	}
	set, err := stamp.BuildSet(st.Generation, st.Settings.Text, res, st.StampParams(), missing)
	if err != nil {
		return nil, nil, fmt.Errorf("生成第 %d 代字模失败: %w", st.Generation, err)
	}
	req := layout.NewRequest(st.Generation, layout.Boxes(set.Letters), opts)
	return set, req, nil
}

// rigFromSettings applies the persisted helper flags to a default rig.
func rigFromSettings(cfg settings.Settings) renderer.Rig {
	rig := renderer.DefaultRig()
	rig.Axes = cfg.Helpers.Axes
	rig.Grid = cfg.Helpers.Grid
	rig.LightHelper = cfg.Helpers.LightHelper
	rig.Point.Visible = cfg.Helpers.PointLight
	rig.Ambient.Visible = cfg.Helpers.AmbientLight
	rig.AutoRotate = cfg.AutoRotate
	return rig
}

// setHelper records a helper toggle in the settings.
func setHelper(cfg *settings.Settings, h renderer.Helper, visible bool) {
	switch h {
	case renderer.HelperAxes:
		cfg.Helpers.Axes = visible
	case renderer.HelperGrid:
		cfg.Helpers.Grid = visible
	case renderer.HelperLightHelper:
		cfg.Helpers.LightHelper = visible
	case renderer.HelperPointLight:
		cfg.Helpers.PointLight = visible
	case renderer.HelperAmbientLight:
		cfg.Helpers.AmbientLight = visible
	}
}
