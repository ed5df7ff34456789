// Package model holds CPU-side mesh data ready for GPU upload and collision.
package model

import (
	"github.com/Faultbox/lightmap-viewer/internal/engine/material"
	"github.com/Faultbox/lightmap-viewer/internal/engine/texture"
)

// Vertex represents a mesh vertex with position, normal and two texture coordinate sets.
// TexCoord1 carries the baked lightmap layout.
type Vertex struct {
	Position  [3]float32
	Normal    [3]float32
	TexCoord  [2]float32
	TexCoord1 [2]float32
}

// Mesh is one drawable primitive in world space with a single material.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Material *material.Material
	Bounds   Bounds

	// HasTexCoord1 is false when the source had no second UV set; TexCoord1
	// then mirrors TexCoord.
	HasTexCoord1 bool
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Model is an imported scene: meshes plus every material and texture they reference.
type Model struct {
	Name      string
	Meshes    []*Mesh
	Materials []*material.Material
	Textures  []*texture.Texture
	Bounds    Bounds
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// ReverseWinding reverses triangle winding order (for negative scale nodes).
	ReverseWinding bool
	// GenerateNormals derives smooth normals when the source has none,
	// welding vertices split at UV seams.
	GenerateNormals bool
}
