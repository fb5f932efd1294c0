// Package export writes terrain meshes to glTF binary files.
package export

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// CrackEpsilon is the position tolerance for crack markers in the debug
// overlay.
const CrackEpsilon = 1e-4

// Options controls what WriteGLB includes besides the chunk meshes.
type Options struct {
	DebugGrid bool        // Add chunk outlines, culling volumes and crack markers as LINES
	Texture   bool        // Embed the terrain texture as the chunk material
	Logger    *zap.Logger // Defaults to a no-op logger
}

// Build converts the published state of every active chunk to a glTF
// document. Each chunk becomes one node whose mesh holds the chunk's display
// vertices and the face list of its current level, so the file shows exactly
// what a renderer would draw this frame.
func Build(terr *terrain.Terrain, opts Options) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	scene := doc.Scenes[0]
	scene.Name = "terrain"

	var material *int
	if opts.Texture && terr.Texture() != nil {
		m, err := addTextureMaterial(doc, terr)
		if err != nil {
			return nil, err
		}
		material = m
	}

	for _, c := range terr.ActiveChunks() {
		verts := c.Vertices()
		positions := make([][3]float32, len(verts))
		normals := make([][3]float32, len(verts))
		uvs := make([][2]float32, len(verts))
		for i, v := range verts {
			positions[i] = v.Position
			normals[i] = v.Normal
			uvs[i] = v.TexCoord
		}

		prim := &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, c.Indices())),
			Attributes: gltf.PrimitiveAttributes{
				gltf.POSITION:   modeler.WritePosition(doc, positions),
				gltf.NORMAL:     modeler.WriteNormal(doc, normals),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
			},
			Material: material,
		}

		name := fmt.Sprintf("chunk_%d_%d", c.X, c.Y)
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
			Extras: map[string]any{
				"level":  c.Level(),
				"stride": c.Stride(),
			},
		})
		scene.Nodes = append(scene.Nodes, len(doc.Nodes)-1)
	}

	if opts.DebugGrid {
		addLines(doc, scene, "chunk_grid", debug.ChunkGrid(terr, 0.05))
		addLines(doc, scene, "chunk_bounds", debug.ChunkBounds(terr))
		addLines(doc, scene, "cracks", debug.CrackMarkers(terr.Cracks(CrackEpsilon), 2))
	}
	return doc, nil
}

// WriteGLB builds the document and saves it as a binary glTF file.
func WriteGLB(path string, terr *terrain.Terrain, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	doc, err := Build(terr, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	log.Info("exported terrain",
		zap.String("path", path),
		zap.Int("chunks", len(doc.Nodes)),
		zap.Bool("debug_grid", opts.DebugGrid),
	)
	return nil
}

// addLines appends a node drawing line segments with per-vertex colors.
func addLines(doc *gltf.Document, scene *gltf.Scene, name string, lines []debug.LineVertex) {
	if len(lines) == 0 {
		return
	}

	positions := make([][3]float32, len(lines))
	colors := make([][3]float32, len(lines))
	for i, v := range lines {
		positions[i] = v.Position
		colors[i] = v.Color
	}

	prim := &gltf.Primitive{
		Mode: gltf.PrimitiveLines,
		Attributes: gltf.PrimitiveAttributes{
			gltf.POSITION: modeler.WritePosition(doc, positions),
			gltf.COLOR_0:  modeler.WriteColor(doc, colors),
		},
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	scene.Nodes = append(scene.Nodes, len(doc.Nodes)-1)
}

// addTextureMaterial embeds the terrain texture as PNG and returns the index
// of a material sampling it.
func addTextureMaterial(doc *gltf.Document, terr *terrain.Terrain) (*int, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, terr.Texture()); err != nil {
		return nil, fmt.Errorf("encoding texture: %w", err)
	}

	img, err := modeler.WriteImage(doc, "terrain_texture", "image/png", &buf)
	if err != nil {
		return nil, fmt.Errorf("embedding texture: %w", err)
	}

	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(img)})
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "terrain",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: len(doc.Textures) - 1},
		},
	})
	return gltf.Index(len(doc.Materials) - 1), nil
}
