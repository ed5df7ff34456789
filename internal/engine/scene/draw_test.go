package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/lightmap-viewer/internal/engine/material"
	"github.com/Faultbox/lightmap-viewer/internal/engine/texture"
)

func uploaded(name string) *texture.Texture {
	return &texture.Texture{Name: name, ID: 7}
}

func TestStateForLightmappedMaterial(t *testing.T) {
	m := material.New("wall")
	m.AlbedoTexture = uploaded("albedo")
	m.LightmapTexture = uploaded("lm")
	m.LightmapCoordinatesIndex = 1
	m.UseLightmapAsShadowmap = true

	st := stateFor(m)
	assert.True(t, st.hasAlbedo)
	assert.True(t, st.hasLightmap)
	assert.Equal(t, int32(1), st.lightmapUV)
	assert.True(t, st.shadowmap)
	assert.True(t, st.cullBack)
	assert.False(t, st.blend)
}

func TestStateForIgnoresTexturesNotOnGPU(t *testing.T) {
	m := material.New("glass")
	m.AlbedoTexture = &texture.Texture{Name: "pending"}
	m.LightmapTexture = &texture.Texture{Name: "pending"}
	m.LightmapCoordinatesIndex = 1
	m.UseLightmapAsShadowmap = true

	st := stateFor(m)
	assert.False(t, st.hasAlbedo)
	assert.False(t, st.hasLightmap)
	assert.Zero(t, st.lightmapUV)
	assert.False(t, st.shadowmap)
}

func TestStateForBlending(t *testing.T) {
	m := material.New("curtain")
	m.Alpha = 0.5
	assert.True(t, stateFor(m).blend)

	m.AlphaCutoff = 0.5
	assert.False(t, stateFor(m).blend, "alpha-tested materials stay opaque")
}

func TestDrawOrderPutsBlendedLast(t *testing.T) {
	opaqueA := material.New("a")
	glass := material.New("glass")
	glass.Alpha = 0.3
	opaqueB := material.New("b")

	assert.Equal(t, []int{0, 2, 1}, drawOrder([]*material.Material{opaqueA, glass, opaqueB}))
	assert.Equal(t, []int{0, 1}, drawOrder([]*material.Material{opaqueA, nil}))
}

func TestCollectMaterials(t *testing.T) {
	ground := material.New(GroundMaterialName)
	a, b := material.New("a"), material.New("b")

	got := collectMaterials([]*material.Material{ground}, []*material.Material{a, b, a, nil}, []*material.Material{b})
	assert.Equal(t, []*material.Material{ground, a, b}, got)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, float32(1000), cfg.GroundSize)
	assert.InDelta(t, 232.0/255, cfg.ClearColor[0], 1e-6)
	assert.False(t, cfg.CollideWithModel)
}
