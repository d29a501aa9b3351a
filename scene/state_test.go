package scene

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/stampkit/fonts"
	"github.com/ByLCY/stampkit/glyph"
	"github.com/ByLCY/stampkit/layout"
	"github.com/ByLCY/stampkit/renderer"
	"github.com/ByLCY/stampkit/settings"
	"github.com/ByLCY/stampkit/stamp"
)

func goResolver(t *testing.T) *glyph.Resolver {
	t.Helper()
	f, err := fonts.Parse("go", goregular.TTF)
	require.NoError(t, err)
	return glyph.NewResolver(f, glyph.DefaultOptions())
}

func TestRegenerateIsPure(t *testing.T) {
	cfg := settings.Defaults()
	cfg.Text = "AB"
	cfg.Depth = 0.8
	st := NewState(cfg, stamp.DefaultParams())
	st.Generation = 4

	set, req, err := Regenerate(st, goResolver(t))
	require.NoError(t, err)
	require.Equal(t, uint64(4), set.Generation)
	require.Equal(t, uint64(4), req.Generation)
	require.Equal(t, 0.8, set.Params.Depth)
	require.Len(t, req.Root.Children, 2)
	require.Equal(t, set.Letters[0].ID, req.Root.Children[0].ID)
	require.Equal(t, cfg.Gutter, req.Root.Children[0].Margin.Right)
	require.Equal(t, uint64(4), st.Generation, "state passed by value must not change")

	again, _, err := Regenerate(st, goResolver(t))
	require.NoError(t, err)
	require.Equal(t, set.Letters[1].WorldBounds(), again.Letters[1].WorldBounds())
}

func TestRegenerateRejectsBadPolicies(t *testing.T) {
	cfg := settings.Defaults()
	cfg.MarginPolicy = "sideways"
	_, _, err := Regenerate(NewState(cfg, stamp.DefaultParams()), goResolver(t))
	require.Error(t, err)

	cfg = settings.Defaults()
	cfg.MissingPolicy = "explode"
	_, _, err = Regenerate(NewState(cfg, stamp.DefaultParams()), goResolver(t))
	require.Error(t, err)

	_, _, err = Regenerate(NewState(settings.Defaults(), stamp.DefaultParams()), nil)
	require.Error(t, err)
}

func TestLayoutOptionsFromSettings(t *testing.T) {
	cfg := settings.Defaults()
	cfg.Gutter = 0.5
	cfg.MarginPolicy = "uniform"
	opts, err := NewState(cfg, stamp.DefaultParams()).LayoutOptions()
	require.NoError(t, err)
	require.Equal(t, 0.5, opts.Gutter)
	require.Equal(t, layout.UniformMargin, opts.Policy)
}

func TestRigFromSettings(t *testing.T) {
	cfg := settings.Defaults()
	cfg.AutoRotate = true
	setHelper(&cfg, renderer.HelperGrid, false)
	setHelper(&cfg, renderer.HelperLightHelper, true)
	rig := rigFromSettings(cfg)
	require.True(t, rig.AutoRotate)
	require.False(t, rig.Grid)
	require.True(t, rig.LightHelper)
	require.True(t, rig.Axes)
}
