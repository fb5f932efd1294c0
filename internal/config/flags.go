package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagHeightMap  = flag.String("heightmap", "", "Height image path")
	flagTexture    = flag.String("texture", "", "Texture image path")
	flagChunkWidth = flag.Int("chunk-width", 0, "Vertices per chunk side (2^n+1)")
	flagDivisor    = flag.Int("divisor", 0, "Height divisor")
	flagNoCull     = flag.Bool("no-cull", false, "Disable frustum culling")
)

// ParseFlags parses command-line flags. Call this early in main().
// Arguments left after the flags are available through flag.Args.
func ParseFlags(args []string) error {
	return flag.CommandLine.Parse(args)
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagHeightMap != "" {
		cfg.Terrain.HeightMap = *flagHeightMap
	}
	if *flagTexture != "" {
		cfg.Terrain.Texture = *flagTexture
	}
	if *flagChunkWidth > 0 {
		cfg.Terrain.ChunkWidth = *flagChunkWidth
	}
	if *flagDivisor > 0 {
		cfg.Terrain.HeightDivisor = *flagDivisor
	}
	if *flagNoCull {
		cfg.Camera.Cull = false
	}
}
