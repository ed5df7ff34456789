// Package gltfimport loads glTF 2.0 and GLB scenes into model.Model.
package gltfimport

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/lightmap-viewer/internal/assets"
	"github.com/Faultbox/lightmap-viewer/internal/engine/material"
	"github.com/Faultbox/lightmap-viewer/internal/engine/model"
	"github.com/Faultbox/lightmap-viewer/internal/logger"
)

// DefaultMaterialName names the material given to primitives without one.
const DefaultMaterialName = "__default"

// Source is where models and their external resources are read from.
type Source interface {
	assets.Loader
	FS() fs.FS
}

// Result is the outcome of an asynchronous import.
type Result struct {
	Model *model.Model
	Err   error
}

// ImportAsync runs Import on a goroutine. The returned channel receives
// exactly one Result and is then closed.
func ImportAsync(ctx context.Context, src Source, name string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		m, err := Import(ctx, src, name)
		out <- Result{Model: m, Err: err}
	}()
	return out
}

// Import reads the glTF or GLB file name from src and flattens its default
// scene into world-space meshes.
func Import(ctx context.Context, src Source, name string) (*model.Model, error) {
	log := logger.Named("gltf")
	start := time.Now()

	name = assets.Clean(name)
	data, err := src.Load(name)
	if err != nil {
		return nil, err
	}

	dir := path.Dir(name)
	sub, err := fs.Sub(src.FS(), dir)
	if err != nil {
		return nil, fmt.Errorf("model directory %s: %w", dir, err)
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(bytes.NewReader(data), sub).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	images, err := decodeImages(ctx, doc, src, dir)
	if err != nil {
		return nil, err
	}

	b := newBuilder(doc, images)
	b.model.Name = path.Base(name)
	if err := b.build(); err != nil {
		return nil, fmt.Errorf("building %s: %w", name, err)
	}

	log.Info("model imported",
		zap.String("file", name),
		zap.Int("meshes", len(b.model.Meshes)),
		zap.Int("triangles", b.model.TriangleCount()),
		zap.Int("materials", len(b.model.Materials)),
		zap.Int("textures", len(b.model.Textures)),
		zap.Duration("took", time.Since(start)),
	)
	return b.model, nil
}

// builder converts one document into a model.
type builder struct {
	doc       *gltf.Document
	images    []*imageResult
	materials []*material.Material
	fallback  *material.Material
	model     *model.Model
}

func newBuilder(doc *gltf.Document, images []*imageResult) *builder {
	b := &builder{
		doc:    doc,
		images: images,
		model:  &model.Model{},
	}
	for _, img := range images {
		if img != nil && img.tex != nil {
			b.model.Textures = append(b.model.Textures, img.tex)
		}
	}
	b.materials = make([]*material.Material, len(doc.Materials))
	for i, m := range doc.Materials {
		b.materials[i] = convertMaterial(doc, images, m, i)
	}
	b.model.Materials = append(b.model.Materials, b.materials...)
	return b
}

func (b *builder) build() error {
	roots := b.sceneRoots()
	visited := make(map[int]bool)
	for _, idx := range roots {
		if err := b.walk(idx, mgl32.Ident4(), visited); err != nil {
			return err
		}
	}
	if b.fallback != nil {
		b.model.Materials = append(b.model.Materials, b.fallback)
	}
	return nil
}

// sceneRoots returns the root nodes of the default scene, or of the first
// scene, or every parentless node when the document has no scenes.
func (b *builder) sceneRoots() []int {
	if len(b.doc.Scenes) > 0 {
		s := 0
		if b.doc.Scene != nil && int(*b.doc.Scene) < len(b.doc.Scenes) {
			s = int(*b.doc.Scene)
		}
		roots := make([]int, 0, len(b.doc.Scenes[s].Nodes))
		for _, n := range b.doc.Scenes[s].Nodes {
			roots = append(roots, int(n))
		}
		return roots
	}

	child := make(map[int]bool)
	for _, n := range b.doc.Nodes {
		for _, c := range n.Children {
			child[int(c)] = true
		}
	}
	var roots []int
	for i := range b.doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (b *builder) walk(idx int, parent mgl32.Mat4, visited map[int]bool) error {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	if visited[idx] {
		return fmt.Errorf("node %d appears twice in the hierarchy", idx)
	}
	visited[idx] = true

	node := b.doc.Nodes[idx]
	world := parent.Mul4(LocalMatrix(node))

	if node.Mesh != nil {
		if err := b.addMesh(int(*node.Mesh), node.Name, world); err != nil {
			return err
		}
	}
	for _, c := range node.Children {
		if err := b.walk(int(c), world, visited); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) addMesh(idx int, nodeName string, world mgl32.Mat4) error {
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return fmt.Errorf("mesh index %d out of range", idx)
	}
	gm := b.doc.Meshes[idx]
	name := gm.Name
	if name == "" {
		name = nodeName
	}

	normalMat := model.NormalMatrix(world)
	reverse := world.Mat3().Det() < 0

	for pi, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			logger.Named("gltf").Debug("skipping non-triangle primitive",
				zap.String("mesh", name), zap.Int("primitive", pi))
			continue
		}
		m, err := b.readPrimitive(name, prim, reverse)
		if err != nil {
			return fmt.Errorf("mesh %s primitive %d: %w", name, pi, err)
		}

		for i := range m.Vertices {
			v := &m.Vertices[i]
			v.Position = model.TransformPoint(world, v.Position)
			v.Normal = model.TransformNormal(normalMat, v.Normal)
		}
		m.RecomputeBounds()

		m.Material = b.material(prim.Material)
		b.model.AddMesh(m)
	}
	return nil
}

func (b *builder) readPrimitive(name string, prim *gltf.Primitive, reverse bool) (*model.Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(b.doc, b.doc.Accessors[int(posIdx)], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(b.doc, b.doc.Accessors[int(idx)], nil); err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}

	var uv0, uv1 [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uv0, err = modeler.ReadTextureCoord(b.doc, b.doc.Accessors[int(idx)], nil); err != nil {
			return nil, fmt.Errorf("read texcoord 0: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_1]; ok {
		if uv1, err = modeler.ReadTextureCoord(b.doc, b.doc.Accessors[int(idx)], nil); err != nil {
			return nil, fmt.Errorf("read texcoord 1: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(b.doc, b.doc.Accessors[int(*prim.Indices)], nil); err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	}

	return model.NewMesh(name, positions, normals, uv0, uv1, indices, model.BuildOptions{
		ReverseWinding:  reverse,
		GenerateNormals: true,
	})
}

// material resolves a primitive's material index, creating the shared
// default material on first use.
func (b *builder) material(idx *int) *material.Material {
	if idx != nil && int(*idx) >= 0 && int(*idx) < len(b.materials) {
		return b.materials[int(*idx)]
	}
	if b.fallback == nil {
		b.fallback = material.New(DefaultMaterialName)
	}
	return b.fallback
}

// LocalMatrix returns a node's local transform. A non-identity matrix wins
// over TRS; absent TRS components take their identity values.
func LocalMatrix(n *gltf.Node) mgl32.Mat4 {
	var m mgl32.Mat4
	for i, v := range n.Matrix {
		m[i] = float32(v)
	}
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}

	t := mgl32.Translate3D(float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2]))

	r := mgl32.Ident4()
	if n.Rotation != [4]float64{} {
		q := mgl32.Quat{
			W: float32(n.Rotation[3]),
			V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
		}
		r = q.Normalize().Mat4()
	}

	s := mgl32.Ident4()
	if n.Scale != [3]float64{} {
		s = mgl32.Scale3D(float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2]))
	}
	return t.Mul4(r).Mul4(s)
}
