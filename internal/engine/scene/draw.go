package scene

import (
	"sort"

	"github.com/Faultbox/lightmap-viewer/internal/engine/material"
)

// materialState is the per-draw shader input derived from a material.
type materialState struct {
	albedoColor [3]float32
	alpha       float32
	alphaCutoff float32
	hasAlbedo   bool
	hasLightmap bool
	lightmapUV  int32
	shadowmap   bool
	cullBack    bool
	blend       bool
}

// stateFor resolves what the forward shader needs for m. Textures that are
// not on the GPU count as absent.
func stateFor(m *material.Material) materialState {
	s := materialState{
		albedoColor: m.AlbedoColor,
		alpha:       m.Alpha,
		alphaCutoff: m.AlphaCutoff,
		hasAlbedo:   m.AlbedoTexture.Uploaded(),
		hasLightmap: m.LightmapTexture.Uploaded(),
		cullBack:    m.BackFaceCulling,
		blend:       m.Alpha < 1 && m.AlphaCutoff == 0,
	}
	if s.hasLightmap {
		s.lightmapUV = int32(m.LightmapCoordinatesIndex)
		s.shadowmap = m.UseLightmapAsShadowmap
	}
	return s
}

// drawOrder returns draw indices with opaque materials first and blended
// ones last, keeping the original order within each group.
func drawOrder(mats []*material.Material) []int {
	order := make([]int, len(mats))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return !isBlended(mats[order[a]]) && isBlended(mats[order[b]])
	})
	return order
}

func isBlended(m *material.Material) bool {
	return m != nil && m.Alpha < 1 && m.AlphaCutoff == 0
}

// collectMaterials lists every distinct material, first occurrence first.
func collectMaterials(groups ...[]*material.Material) []*material.Material {
	seen := make(map[*material.Material]bool)
	var out []*material.Material
	for _, g := range groups {
		for _, m := range g {
			if m == nil || seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
