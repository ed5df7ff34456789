package lightmap

import (
	"go.uber.org/zap"

	"github.com/Faultbox/lightmap-viewer/internal/engine/material"
	"github.com/Faultbox/lightmap-viewer/internal/logger"
)

// Options are the fixed overrides the binder applies.
type Options struct {
	// Roughness, AlbedoColor and ClearBump are applied to every material.
	Roughness   float32
	AlbedoColor [3]float32
	ClearBump   bool

	// CoordinatesIndex is the UV set bound lightmaps are sampled with.
	CoordinatesIndex int
	// AsShadowmap marks bound lightmaps as pre-baked shadowing.
	AsShadowmap bool

	// MetadataKey overrides the extras field holding the lightmap name.
	MetadataKey string
}

// DefaultOptions returns the overrides the Sponza bake was tuned for.
func DefaultOptions() Options {
	return Options{
		Roughness:        1.0,
		AlbedoColor:      [3]float32{0.5, 0.5, 0.5},
		ClearBump:        true,
		CoordinatesIndex: 1,
		AsShadowmap:      true,
		MetadataKey:      material.LightmapKey,
	}
}

// Report summarizes one Bind pass.
type Report struct {
	Bound int // materials that received a lightmap
	Unlit int // materials without lightmap metadata
	// Unmatched lists materials whose requested lightmap is not registered,
	// formatted as "material -> lightmap".
	Unmatched []string
}

// Binder attaches registry lightmaps to materials.
type Binder struct {
	registry *Registry
	opts     Options
	log      *zap.Logger
}

// NewBinder creates a binder over reg.
func NewBinder(reg *Registry, opts Options) *Binder {
	return &Binder{
		registry: reg,
		opts:     opts,
		log:      logger.Named("lightmap"),
	}
}

// Bind applies the material overrides and lightmap assignments in place.
// Materials without metadata, or naming an unknown lightmap, keep whatever
// lightmap they already had. Binding twice yields the same state as once.
func (b *Binder) Bind(materials []*material.Material) Report {
	var rep Report

	for _, m := range materials {
		if m == nil {
			continue
		}

		m.Roughness = b.opts.Roughness
		m.AlbedoColor = b.opts.AlbedoColor
		if b.opts.ClearBump {
			m.BumpTexture = nil
		}

		name, ok := b.RequestedLightmap(m)
		if !ok {
			rep.Unlit++
			continue
		}

		tex, ok := b.registry.Lookup(name)
		if !ok {
			rep.Unmatched = append(rep.Unmatched, m.Name+" -> "+name)
			b.log.Warn("material requests unknown lightmap",
				zap.String("material", m.Name),
				zap.String("lightmap", name),
			)
			continue
		}

		m.LightmapTexture = tex
		m.LightmapCoordinatesIndex = b.opts.CoordinatesIndex
		m.UseLightmapAsShadowmap = b.opts.AsShadowmap
		rep.Bound++
	}

	b.log.Info("lightmaps bound",
		zap.Int("materials", len(materials)),
		zap.Int("bound", rep.Bound),
		zap.Int("unlit", rep.Unlit),
		zap.Int("unmatched", len(rep.Unmatched)),
	)
	return rep
}

// RequestedLightmap returns the lightmap name m's metadata asks for.
func (b *Binder) RequestedLightmap(m *material.Material) (string, bool) {
	if b.opts.MetadataKey == "" || b.opts.MetadataKey == material.LightmapKey {
		return m.Metadata.LightmapName()
	}
	return m.Metadata.String(b.opts.MetadataKey)
}
