// Package config provides configuration management for the production agent.
// Values come from an optional config.yaml, environment variables, and
// built-in defaults, in increasing order of precedence for env vars.
package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Inference  InferenceConfig
	Production ProductionConfig
	Media      MediaConfig
	Stages     StagesConfig
	Redis      RedisConfig
}

type ServerConfig struct {
	Port     int
	Enabled  bool
	LogLevel string
	DataDir  string
}

type InferenceConfig struct {
	BalancerURL string
	Model       string
	Timeout     time.Duration
	Temperature float64
	TopP        float64
	MaxTokens   int
}

type ProductionConfig struct {
	DailyTarget int
	BatchSize   int
	GateSize    int
	BatchPause  time.Duration
	CatalogPath string // empty = built-in catalog
}

type MediaConfig struct {
	FFmpegPath    string
	EspeakPath    string
	ConvertPath   string
	StorageDir    string
	WorkDir       string
	ToolTimeout   time.Duration
	MaxVoiceWords int
}

// StagesConfig enables or disables the non-fatal assembly stages.
// Composition and storage cannot be disabled; a disabled stage degrades
// the artifact the same way a failed one does.
type StagesConfig struct {
	Voice      bool
	Background bool
	Subtitles  bool
	Overlays   bool
	Thumbnail  bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

const dbFilename = "vidforge.db"

// DBPath returns the full path to the SQLite database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.Server.DataDir, dbFilename)
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	_ = viper.BindEnv("server.port", "VIDFORGE_PORT")
	_ = viper.BindEnv("server.enabled", "VIDFORGE_API_ENABLED")
	_ = viper.BindEnv("server.log_level", "VIDFORGE_LOG_LEVEL")
	_ = viper.BindEnv("server.data_dir", "VIDFORGE_DATA_DIR")
	_ = viper.BindEnv("inference.balancer_url", "INFERENCE_BALANCER_URL")
	_ = viper.BindEnv("inference.model", "INFERENCE_MODEL")
	_ = viper.BindEnv("inference.timeout_s", "INFERENCE_TIMEOUT_S")
	_ = viper.BindEnv("production.daily_target", "PRODUCTION_DAILY_TARGET")
	_ = viper.BindEnv("production.batch_size", "PRODUCTION_BATCH_SIZE")
	_ = viper.BindEnv("production.gate_size", "PRODUCTION_GATE_SIZE")
	_ = viper.BindEnv("production.batch_pause_s", "PRODUCTION_BATCH_PAUSE_S")
	_ = viper.BindEnv("production.catalog_path", "PRODUCTION_CATALOG_PATH")
	_ = viper.BindEnv("media.ffmpeg_path", "FFMPEG_PATH")
	_ = viper.BindEnv("media.espeak_path", "ESPEAK_PATH")
	_ = viper.BindEnv("media.convert_path", "CONVERT_PATH")
	_ = viper.BindEnv("media.storage_dir", "MEDIA_STORAGE_DIR")
	_ = viper.BindEnv("media.work_dir", "MEDIA_WORK_DIR")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("redis.enabled", "REDIS_ENABLED")

	viper.SetDefault("server.port", 8790)
	viper.SetDefault("server.enabled", true)
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("server.data_dir", ".vidforge")
	viper.SetDefault("inference.balancer_url", "http://localhost:11430")
	viper.SetDefault("inference.model", "llama3.1:8b")
	viper.SetDefault("inference.timeout_s", 60)
	viper.SetDefault("inference.temperature", 0.7)
	viper.SetDefault("inference.top_p", 0.9)
	viper.SetDefault("inference.max_tokens", 2048)
	viper.SetDefault("production.daily_target", 1000)
	viper.SetDefault("production.batch_size", 50)
	viper.SetDefault("production.gate_size", 10)
	viper.SetDefault("production.batch_pause_s", 5)
	viper.SetDefault("production.catalog_path", "")
	viper.SetDefault("media.ffmpeg_path", "ffmpeg")
	viper.SetDefault("media.espeak_path", "espeak")
	viper.SetDefault("media.convert_path", "convert")
	viper.SetDefault("media.storage_dir", "content-storage")
	viper.SetDefault("media.work_dir", "")
	viper.SetDefault("media.tool_timeout_s", 300)
	viper.SetDefault("media.max_voice_words", 200)
	viper.SetDefault("stages.voice", true)
	viper.SetDefault("stages.background", true)
	viper.SetDefault("stages.subtitles", true)
	viper.SetDefault("stages.overlays", true)
	viper.SetDefault("stages.thumbnail", true)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.enabled", false)

	// Config file is optional
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetInt("server.port"),
			Enabled:  viper.GetBool("server.enabled"),
			LogLevel: viper.GetString("server.log_level"),
			DataDir:  viper.GetString("server.data_dir"),
		},
		Inference: InferenceConfig{
			BalancerURL: viper.GetString("inference.balancer_url"),
			Model:       viper.GetString("inference.model"),
			Timeout:     time.Duration(viper.GetInt("inference.timeout_s")) * time.Second,
			Temperature: viper.GetFloat64("inference.temperature"),
			TopP:        viper.GetFloat64("inference.top_p"),
			MaxTokens:   viper.GetInt("inference.max_tokens"),
		},
		Production: ProductionConfig{
			DailyTarget: viper.GetInt("production.daily_target"),
			BatchSize:   viper.GetInt("production.batch_size"),
			GateSize:    viper.GetInt("production.gate_size"),
			BatchPause:  time.Duration(viper.GetInt("production.batch_pause_s")) * time.Second,
			CatalogPath: viper.GetString("production.catalog_path"),
		},
		Media: MediaConfig{
			FFmpegPath:    viper.GetString("media.ffmpeg_path"),
			EspeakPath:    viper.GetString("media.espeak_path"),
			ConvertPath:   viper.GetString("media.convert_path"),
			StorageDir:    viper.GetString("media.storage_dir"),
			WorkDir:       viper.GetString("media.work_dir"),
			ToolTimeout:   time.Duration(viper.GetInt("media.tool_timeout_s")) * time.Second,
			MaxVoiceWords: viper.GetInt("media.max_voice_words"),
		},
		Stages: StagesConfig{
			Voice:      viper.GetBool("stages.voice"),
			Background: viper.GetBool("stages.background"),
			Subtitles:  viper.GetBool("stages.subtitles"),
			Overlays:   viper.GetBool("stages.overlays"),
			Thumbnail:  viper.GetBool("stages.thumbnail"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			Enabled:  viper.GetBool("redis.enabled"),
		},
	}

	return cfg, nil
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
