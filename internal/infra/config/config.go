package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPPort      int   `env:"HTTP_PORT"       envDefault:"8080"`
	MetricsPort   int   `env:"METRICS_PORT"    envDefault:"8083"`
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"104857600"`

	TempDir string `env:"TEMP_DIR" envDefault:"/tmp/framelingo"`

	DefaultMaxFrames int `env:"DEFAULT_MAX_FRAMES" envDefault:"8"`
	DetectWorkers    int `env:"DETECT_WORKERS"     envDefault:"4"`

	TesseractPath  string `env:"TESSERACT_PATH"  envDefault:"tesseract"`
	TesseractLangs string `env:"TESSERACT_LANGS" envDefault:"eng+hin+ben+tam"`

	TranslateURL         string `env:"TRANSLATE_URL"           envDefault:"https://libretranslate.com"`
	TranslateAPIKey      string `env:"TRANSLATE_API_KEY"       envDefault:""`
	TranslateTimeoutSecs int    `env:"TRANSLATE_TIMEOUT_SECS"  envDefault:"10"`
	TranslateWorkers     int    `env:"TRANSLATE_WORKERS"       envDefault:"4"`
	TranslateRetryMs     int    `env:"TRANSLATE_RETRY_MS"      envDefault:"500"`

	JaegerEndpoint string `env:"JAEGER_ENDPOINT" envDefault:"http://jaeger:4318/v1/traces"`
	LogLevel       string `env:"LOG_LEVEL"       envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
