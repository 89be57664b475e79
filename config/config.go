package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no --config flag is given. It may be absent.
const DefaultPath = "~/.voice-coding/config.yaml"

type Config struct {
	Audio  AudioConfig  `yaml:"audio"`
	OpenAI OpenAIConfig `yaml:"openai"`
	Output OutputConfig `yaml:"output"`
	Notify NotifyConfig `yaml:"notify"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

type AudioConfig struct {
	SampleRate      int    `yaml:"sample_rate"`
	Channels        int    `yaml:"channels"`
	FramesPerBuffer int    `yaml:"frames_per_buffer"`
	MinDuration     string `yaml:"min_duration"`
	ArchiveDir      string `yaml:"archive_dir"`
}

type OpenAIConfig struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
	BaseURL  string `yaml:"base_url"`
}

type OutputConfig struct {
	Paste            *bool  `yaml:"paste"`
	PasteDelay       string `yaml:"paste_delay"`
	RestoreClipboard bool   `yaml:"restore_clipboard"`
}

type NotifyConfig struct {
	Desktop  bool           `yaml:"desktop"`
	Pushover PushoverConfig `yaml:"pushover"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Enabled bool   `yaml:"enabled"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	AuthToken string `yaml:"auth_token"`
	RateLimit int    `yaml:"rate_limit"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML config at path after loading dotenv files, expanding
// ${VAR} references. A missing file at DefaultPath yields the defaults.
func Load(path string) (*Config, error) {
	home, _ := os.UserHomeDir()
	if err := loadDotenv(home); err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultPath
	}
	resolved := expandHome(path, home)

	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
		data = nil
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotenv loads ./.env then ~/.voice-coding/.env. Variables already in
// the environment win.
func loadDotenv(home string) error {
	files := []string{".env"}
	if home != "" {
		files = append(files, filepath.Join(home, ".voice-coding", ".env"))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func expandHome(path, home string) string {
	if home == "" || len(path) < 2 || path[:2] != "~/" {
		return path
	}
	return filepath.Join(home, path[2:])
}

func (c *Config) setDefaults() {
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = 1
	}
	if c.Audio.FramesPerBuffer == 0 {
		c.Audio.FramesPerBuffer = 1024
	}
	if c.Audio.MinDuration == "" {
		c.Audio.MinDuration = "500ms"
	}
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "whisper-1"
	}
	if c.OpenAI.Language == "" {
		c.OpenAI.Language = "en"
	}
	if c.Output.Paste == nil {
		paste := true
		c.Output.Paste = &paste
	}
	if c.Output.PasteDelay == "" {
		c.Output.PasteDelay = "50ms"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":7070"
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Audio.MinDuration); err != nil {
		return fmt.Errorf("audio.min_duration: %w", err)
	}
	if _, err := time.ParseDuration(c.Output.PasteDelay); err != nil {
		return fmt.Errorf("output.paste_delay: %w", err)
	}
	if c.Audio.SampleRate < 0 || c.Audio.Channels < 0 || c.Audio.FramesPerBuffer < 0 {
		return errors.New("audio: sample_rate, channels and frames_per_buffer must be positive")
	}
	return nil
}

// MinDuration is the parsed audio.min_duration.
func (c *Config) MinDuration() time.Duration {
	d, _ := time.ParseDuration(c.Audio.MinDuration)
	return d
}

func (c *Config) PasteDelay() time.Duration {
	d, _ := time.ParseDuration(c.Output.PasteDelay)
	return d
}

func (c *Config) PasteEnabled() bool {
	return c.Output.Paste == nil || *c.Output.Paste
}
