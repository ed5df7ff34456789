package gltfimport

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"path"
	"runtime"
	"strings"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/lightmap-viewer/internal/assets"
	"github.com/Faultbox/lightmap-viewer/internal/engine/texture"
	"github.com/Faultbox/lightmap-viewer/internal/logger"
)

type imageResult struct {
	tex *texture.Texture
	err error
}

// decodeImages decodes every document image concurrently. A broken image is
// logged and left nil so materials referencing it render untextured.
func decodeImages(ctx context.Context, doc *gltf.Document, loader assets.Loader, dir string) ([]*imageResult, error) {
	log := logger.Named("gltf")
	results := make([]*imageResult, len(doc.Images))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, img := range doc.Images {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := imageName(img, i)
			data, err := imageData(doc, img, loader, dir)
			if err == nil {
				var tex *texture.Texture
				tex, err = texture.Decode(name, data)
				if err == nil {
					results[i] = &imageResult{tex: tex}
					return nil
				}
			}
			results[i] = &imageResult{err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, r := range results {
		if r.err != nil {
			log.Warn("model image skipped", zap.Int("image", i), zap.Error(r.err))
		}
	}
	return results, nil
}

// imageData returns the encoded bytes of an image from its buffer view,
// data URI or external file.
func imageData(doc *gltf.Document, img *gltf.Image, loader assets.Loader, dir string) ([]byte, error) {
	if img.BufferView != nil {
		return bufferViewData(doc, int(*img.BufferView))
	}
	if img.URI == "" {
		return nil, fmt.Errorf("image has neither bufferView nor uri")
	}
	if strings.HasPrefix(img.URI, "data:") {
		return DecodeDataURI(img.URI)
	}
	p, err := url.PathUnescape(img.URI)
	if err != nil {
		return nil, fmt.Errorf("image uri %q: %w", img.URI, err)
	}
	return loader.Load(path.Join(dir, p))
}

func bufferViewData(doc *gltf.Document, idx int) ([]byte, error) {
	if idx < 0 || idx >= len(doc.BufferViews) {
		return nil, fmt.Errorf("bufferView %d out of range", idx)
	}
	bv := doc.BufferViews[idx]
	bi := int(bv.Buffer)
	if bi < 0 || bi >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bi)
	}
	data := doc.Buffers[bi].Data
	start := int(bv.ByteOffset)
	end := start + int(bv.ByteLength)
	if start < 0 || end > len(data) || start > end {
		return nil, fmt.Errorf("bufferView %d [%d:%d] exceeds buffer of %d bytes", idx, start, end, len(data))
	}
	return data[start:end], nil
}

// DecodeDataURI returns the payload of an RFC 2397 data URI.
func DecodeDataURI(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data uri without payload")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data uri: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data uri: %w", err)
	}
	return []byte(s), nil
}

func imageName(img *gltf.Image, i int) string {
	switch {
	case img.Name != "":
		return img.Name
	case img.URI != "" && !strings.HasPrefix(img.URI, "data:"):
		if p, err := url.PathUnescape(img.URI); err == nil {
			return p
		}
		return img.URI
	}
	return fmt.Sprintf("image%d", i)
}
