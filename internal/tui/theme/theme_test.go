package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatppuccinMocha(t *testing.T) {
	th := NewCatppuccinMocha()

	assert.Equal(t, "catppuccin-mocha", th.Name)
	assert.True(t, th.IsDark)
	for name, c := range map[string]string{
		"Primary": th.Primary, "Secondary": th.Secondary, "BgBase": th.BgBase,
		"FgBase": th.FgBase, "Success": th.Success, "Error": th.Error,
	} {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c, name)
	}
}

func TestCurrent_DefaultAndSet(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	Set(nil)
	assert.Equal(t, "catppuccin-mocha", Current().Name)

	custom := NewCatppuccinMocha()
	custom.Name = "custom"
	Set(custom)
	assert.Same(t, custom, Current())
}

func TestStyles_Lazy(t *testing.T) {
	th := NewCatppuccinMocha()
	assert.Same(t, th.S(), th.S())
}

func TestBlend(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		pos  float64
		want string
	}{
		{"start", "#000000", "#ffffff", 0, "#000000"},
		{"end", "#000000", "#ffffff", 1, "#ffffff"},
		{"middle", "#000000", "#c8c8c8", 0.5, "#646464"},
		{"clamped low", "#102030", "#ffffff", -1, "#102030"},
		{"clamped high", "#000000", "#102030", 2, "#102030"},
		{"no hash", "000000", "ffffff", 1, "#ffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Blend(tt.a, tt.b, tt.pos))
		})
	}
}
