package export

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

func testTerrain(t *testing.T) *terrain.Terrain {
	t.Helper()
	height := image.NewGray(image.Rect(0, 0, 9, 9))
	for i := range height.Pix {
		height.Pix[i] = uint8(i * 7 % 64)
	}
	tex := image.NewRGBA(image.Rect(0, 0, 9, 9))

	hf, err := terrain.NewHeightfield(height, tex, 2, 5)
	if err != nil {
		t.Fatalf("NewHeightfield failed: %v", err)
	}
	terr, err := terrain.New(hf, terrain.Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return terr
}

func readGLB(t *testing.T, path string) *gltf.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	doc := gltf.NewDocument()
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		t.Fatalf("failed to decode GLB: %v", err)
	}
	return doc
}

func TestWriteGLB(t *testing.T) {
	terr := testTerrain(t)
	terr.SetLevel(3, 2)

	path := filepath.Join(t.TempDir(), "out", "terrain.glb")
	if err := WriteGLB(path, terr, Options{}); err != nil {
		t.Fatalf("WriteGLB failed: %v", err)
	}

	doc := readGLB(t, path)
	if len(doc.Nodes) != 4 {
		t.Fatalf("expected 4 chunk nodes, got %d", len(doc.Nodes))
	}
	if len(doc.Scenes[0].Nodes) != 4 {
		t.Errorf("expected 4 scene nodes, got %d", len(doc.Scenes[0].Nodes))
	}

	for i, c := range terr.Chunks() {
		prim := doc.Meshes[*doc.Nodes[i].Mesh].Primitives[0]

		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			t.Fatalf("chunk %d: reading indices: %v", i, err)
		}
		if !slices.Equal(indices, c.Indices()) {
			t.Errorf("chunk %d: exported %d indices, want %d", i, len(indices), len(c.Indices()))
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[prim.Attributes[gltf.POSITION]], nil)
		if err != nil {
			t.Fatalf("chunk %d: reading positions: %v", i, err)
		}
		if len(positions) != len(c.Vertices()) {
			t.Fatalf("chunk %d: exported %d positions, want %d", i, len(positions), len(c.Vertices()))
		}
		for k, v := range c.Vertices() {
			if positions[k] != [3]float32(v.Position) {
				t.Fatalf("chunk %d vertex %d = %v, want %v", i, k, positions[k], v.Position)
			}
		}
	}

	// The coarse chunk exports two triangles.
	coarse := doc.Meshes[*doc.Nodes[3].Mesh].Primitives[0]
	if n := doc.Accessors[*coarse.Indices].Count; n != 6 {
		t.Errorf("coarse chunk exported %d indices, want 6", n)
	}
}

func TestBuildSkipsCulledChunks(t *testing.T) {
	terr := testTerrain(t)
	terr.Chunks()[0].Active = false

	doc, err := Build(terr, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(doc.Nodes) != 3 {
		t.Errorf("expected 3 nodes, got %d", len(doc.Nodes))
	}
}

// nodeNamed returns the first node with the given name, or nil.
func nodeNamed(doc *gltf.Document, name string) *gltf.Node {
	for _, n := range doc.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

func TestBuildDebugGridAndTexture(t *testing.T) {
	terr := testTerrain(t)

	doc, err := Build(terr, Options{DebugGrid: true, Texture: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(doc.Nodes) != 6 {
		t.Fatalf("expected 4 chunk nodes plus grid and bounds, got %d", len(doc.Nodes))
	}
	for _, name := range []string{"chunk_grid", "chunk_bounds"} {
		n := nodeNamed(doc, name)
		if n == nil {
			t.Fatalf("missing %s node", name)
		}
		prim := doc.Meshes[*n.Mesh].Primitives[0]
		if prim.Mode != gltf.PrimitiveLines {
			t.Errorf("expected %s primitive in LINES mode, got %v", name, prim.Mode)
		}
		if _, ok := prim.Attributes[gltf.COLOR_0]; !ok {
			t.Errorf("expected %s vertex colors", name)
		}
	}
	if nodeNamed(doc, "cracks") != nil {
		t.Error("a watertight terrain should have no crack markers")
	}

	bounds := doc.Meshes[*nodeNamed(doc, "chunk_bounds").Mesh].Primitives[0]
	if got := doc.Accessors[bounds.Attributes[gltf.POSITION]].Count; got != 4*24 {
		t.Errorf("expected 24 box vertices per chunk, got %d", got)
	}

	if len(doc.Images) != 1 || len(doc.Materials) != 1 {
		t.Fatalf("expected one image and one material, got %d and %d", len(doc.Images), len(doc.Materials))
	}
	chunk := doc.Meshes[*doc.Nodes[0].Mesh].Primitives[0]
	if chunk.Material == nil || *chunk.Material != 0 {
		t.Error("expected chunk primitive to use the terrain material")
	}
}

func TestBuildMarksCracks(t *testing.T) {
	terr := testTerrain(t)

	// Collapse one side of a shared border without touching the neighbor.
	c := terr.Chunks()[0]
	c.Align(terrain.SideRight, 4)
	c.Publish()
	cracks := terr.Cracks(CrackEpsilon)
	if len(cracks) == 0 {
		t.Fatal("expected a one-sided alignment to leave cracks")
	}

	doc, err := Build(terr, Options{DebugGrid: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	n := nodeNamed(doc, "cracks")
	if n == nil {
		t.Fatal("missing cracks node")
	}
	prim := doc.Meshes[*n.Mesh].Primitives[0]
	if got := doc.Accessors[prim.Attributes[gltf.POSITION]].Count; got != 2*len(cracks) {
		t.Errorf("expected %d marker vertices, got %d", 2*len(cracks), got)
	}
}
