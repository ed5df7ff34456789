package gltfimport

import (
	"encoding/json"
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/lightmap-viewer/internal/engine/material"
	"github.com/Faultbox/lightmap-viewer/internal/engine/texture"
)

// convertMaterial maps a glTF metallic-roughness material onto material.Material.
func convertMaterial(doc *gltf.Document, images []*imageResult, gm *gltf.Material, idx int) *material.Material {
	name := gm.Name
	if name == "" {
		name = fmt.Sprintf("material%d", idx)
	}
	m := material.New(name)
	m.Metadata.Extras = Extras(gm.Extras)

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if f := pbr.BaseColorFactor; f != nil {
			m.AlbedoColor = [3]float32{float32(f[0]), float32(f[1]), float32(f[2])}
			m.Alpha = float32(f[3])
		}
		if ti := pbr.BaseColorTexture; ti != nil {
			m.AlbedoTexture = textureAt(doc, images, int(ti.Index))
		}
		if pbr.MetallicFactor != nil {
			m.Metallic = float32(*pbr.MetallicFactor)
		}
		if pbr.RoughnessFactor != nil {
			m.Roughness = float32(*pbr.RoughnessFactor)
		}
	}

	// Normal maps are only tracked so the binder can clear them.
	if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
		m.BumpTexture = textureAt(doc, images, int(*gm.NormalTexture.Index))
	}

	switch gm.AlphaMode {
	case gltf.AlphaMask:
		m.AlphaCutoff = 0.5
		if gm.AlphaCutoff != nil {
			m.AlphaCutoff = float32(*gm.AlphaCutoff)
		}
	case gltf.AlphaOpaque:
		m.Alpha = 1
	}
	m.BackFaceCulling = !gm.DoubleSided
	return m
}

// textureAt resolves a glTF texture index to its decoded image.
func textureAt(doc *gltf.Document, images []*imageResult, idx int) *texture.Texture {
	if idx < 0 || idx >= len(doc.Textures) {
		return nil
	}
	src := doc.Textures[idx].Source
	if src == nil {
		return nil
	}
	i := int(*src)
	if i < 0 || i >= len(images) || images[i] == nil {
		return nil
	}
	return images[i].tex
}

// Extras normalizes a glTF extras value into a JSON object map. Values that
// are not objects yield nil.
func Extras(v any) map[string]any {
	var raw []byte
	switch e := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(e))
		for k, val := range e {
			out[k] = val
		}
		return out
	case json.RawMessage:
		raw = e
	case []byte:
		raw = e
	case string:
		raw = []byte(e)
	default:
		return nil
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
