// Package material defines the surface description shared by the importer,
// the lightmap binder and the scene renderer.
package material

import (
	"github.com/Faultbox/lightmap-viewer/internal/engine/texture"
)

// LightmapKey is the extras field glTF exporters use to name a baked lightmap.
const LightmapKey = "lightmap"

// Metadata is the read-only view of authoring data attached to an imported material.
type Metadata struct {
	// Extras holds the material's glTF "extras" object, nil when absent.
	Extras map[string]any
}

// LightmapName returns the lightmap requested by the asset, if any.
func (m Metadata) LightmapName() (string, bool) {
	return m.String(LightmapKey)
}

// String returns a string-valued extras field. Missing keys and values of
// other types are reported as absent.
func (m Metadata) String(key string) (string, bool) {
	v, ok := m.Extras[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Material is a metallic-roughness surface with an optional baked lightmap.
type Material struct {
	Name     string
	Metadata Metadata

	AlbedoColor   [3]float32
	AlbedoTexture *texture.Texture
	Alpha         float32
	AlphaCutoff   float32 // > 0 enables alpha testing
	Roughness     float32
	Metallic      float32
	BumpTexture   *texture.Texture

	LightmapTexture *texture.Texture
	// LightmapCoordinatesIndex selects the UV set the lightmap is sampled with.
	LightmapCoordinatesIndex int
	// UseLightmapAsShadowmap multiplies the lightmap into the lit color instead of adding it.
	UseLightmapAsShadowmap bool

	BackFaceCulling bool
	Visible         bool
}

// New returns a material with glTF default factors.
func New(name string) *Material {
	return &Material{
		Name:            name,
		AlbedoColor:     [3]float32{1, 1, 1},
		Alpha:           1,
		Roughness:       1,
		Metallic:        1,
		BackFaceCulling: true,
		Visible:         true,
	}
}

// HasLightmap reports whether a lightmap texture is bound.
func (m *Material) HasLightmap() bool {
	return m.LightmapTexture != nil
}
