// Package config handles terraintool configuration loading and management.
package config

import "time"

// Config holds all terraintool settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Camera  CameraConfig  `yaml:"camera"`
	Bench   BenchConfig   `yaml:"bench"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig holds the heightfield source and level-of-detail settings.
type TerrainConfig struct {
	HeightMap     string    `yaml:"height_map"`     // Height image; red channel is sampled
	Texture       string    `yaml:"texture"`        // Color image, 2^n+1 on each side
	HeightDivisor int       `yaml:"height_divisor"` // Sample value per world unit of height
	ChunkWidth    int       `yaml:"chunk_width"`    // Vertices per chunk side, 2^n+1
	Shading       string    `yaml:"shading"`        // smooth or flat
	LODDistances  []float32 `yaml:"lod_distances"`  // Ascending; empty uses the terrain defaults
}

// CameraConfig holds the orbit camera used by bench and export.
type CameraConfig struct {
	FOV      float32 `yaml:"fov"` // Vertical, in degrees
	Aspect   float32 `yaml:"aspect"`
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
	Distance float32 `yaml:"distance"` // 0 frames the whole terrain
	Pitch    float32 `yaml:"pitch"`    // Degrees above the horizon
	Yaw      float32 `yaml:"yaw"`      // Degrees
	Cull     bool    `yaml:"cull"`     // Frustum cull chunks before level selection
}

// BenchConfig holds the scripted fly-through run by terraintool bench.
type BenchConfig struct {
	Mode          string        `yaml:"mode"` // orbit or walk
	Frames        int           `yaml:"frames"`
	FrameTime     time.Duration `yaml:"frame_time"` // Simulated time per frame
	Ease          string        `yaml:"ease"`       // Easing curve for the dolly
	StartDistance float32       `yaml:"start_distance"`
	EndDistance   float32       `yaml:"end_distance"`
	Turns         float32       `yaml:"turns"`        // Full orbits over the run
	WalkSpeed     float32       `yaml:"walk_speed"`   // World units per second in walk mode
	SnapshotDir   string        `yaml:"snapshot_dir"` // Save a level map here when set
}

// ExportConfig holds glTF export settings.
type ExportConfig struct {
	Output    string `yaml:"output"`
	DebugGrid bool   `yaml:"debug_grid"` // Include chunk outlines as a line primitive
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"` // console or json, applies to the log file
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			HeightMap:     "heightmap.png",
			Texture:       "texture.png",
			HeightDivisor: 4,
			ChunkWidth:    17,
			Shading:       "smooth",
		},
		Camera: CameraConfig{
			FOV:      60,
			Aspect:   16.0 / 9.0,
			Near:     0.5,
			Far:      4000,
			Distance: 300,
			Pitch:    35,
			Yaw:      45,
			Cull:     true,
		},
		Bench: BenchConfig{
			Mode:          "orbit",
			Frames:        600,
			FrameTime:     16 * time.Millisecond,
			Ease:          "inOutQuad",
			StartDistance: 600,
			EndDistance:   40,
			Turns:         1,
			WalkSpeed:     8,
		},
		Export: ExportConfig{
			Output:    "terrain.glb",
			DebugGrid: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Format:  "console",
		},
	}
}
