package lightmap

import (
	"context"
	"fmt"
	"path"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/lightmap-viewer/internal/assets"
	"github.com/Faultbox/lightmap-viewer/internal/engine/texture"
	"github.com/Faultbox/lightmap-viewer/internal/logger"
)

// Spec describes one lightmap image to load.
type Spec struct {
	Name string
	File string // relative to the lightmap directory
	RGBD bool
}

// Failure records a lightmap that could not be loaded.
type Failure struct {
	Spec Spec
	Err  error
}

// Decode reads and decodes the image for s.
func Decode(loader assets.Loader, dir string, s Spec) (*texture.Texture, error) {
	p := path.Join(dir, s.File)
	data, err := loader.Load(p)
	if err != nil {
		return nil, err
	}

	var tex *texture.Texture
	if s.RGBD {
		tex, err = texture.DecodeRGBD(p, data)
	} else {
		tex, err = texture.Decode(p, data)
	}
	if err != nil {
		return nil, err
	}
	tex.Name = s.Name
	return tex, nil
}

// Load decodes every spec concurrently and builds a registry from the ones
// that succeeded, keeping spec order. Images that fail to load are reported
// and left out. The returned error is non-nil only for an invalid spec list
// (empty or duplicate names) or a cancelled context.
func Load(ctx context.Context, loader assets.Loader, dir string, specs []Spec) (*Registry, []Failure, error) {
	if err := validateSpecs(specs); err != nil {
		return nil, nil, err
	}
	log := logger.Named("lightmap")

	textures := make([]*texture.Texture, len(specs))
	errs := make([]error, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range specs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			textures[i], errs[i] = Decode(loader, dir, s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		entries  []Entry
		failures []Failure
	)
	for i, s := range specs {
		if errs[i] != nil {
			log.Warn("lightmap not loaded", zap.String("name", s.Name), zap.Error(errs[i]))
			failures = append(failures, Failure{Spec: s, Err: errs[i]})
			continue
		}
		entries = append(entries, Entry{Name: s.Name, Texture: textures[i]})
		log.Debug("lightmap decoded",
			zap.String("name", s.Name),
			zap.Int("width", textures[i].Width),
			zap.Int("height", textures[i].Height),
		)
	}

	reg, err := NewRegistry(entries...)
	if err != nil {
		return nil, failures, err
	}
	return reg, failures, nil
}

func validateSpecs(specs []Spec) error {
	seen := make(map[string]struct{}, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return fmt.Errorf("spec %d: %w", i, ErrEmptyName)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateName, s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}
