package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	SpreadConfig struct {
		Enable          bool    `yaml:"enable"`
		EdgeWidth       int     `yaml:"edge_width" validate:"min=1,max=64"`
		Threshold       float64 `yaml:"threshold" validate:"gt=0,lte=255"`
		MinAspect       float64 `yaml:"min_aspect" validate:"gte=0"`
		HeightTolerance float64 `yaml:"height_tolerance" validate:"gte=0,lte=1"`
	}

	LoadingConfig struct {
		Workers   int `yaml:"workers" validate:"min=1,max=64"`
		Retries   int `yaml:"retries" validate:"gte=0,max=10"`
		ChunkSize int `yaml:"chunk_size" validate:"min=512"`
	}

	OutputConfig struct {
		Format                OutputFormat `yaml:"format" validate:"gte=0"`
		Images                ImageFormat  `yaml:"images" validate:"gte=0"`
		JPEGQuality           int          `yaml:"jpeg_quality_level" validate:"min=40,max=100"`
		FixZip                bool         `yaml:"fix_zip"`
		NameTemplate          string       `yaml:"name_template"`
		FileNameTransliterate bool         `yaml:"file_name_transliterate"`
	}

	ReaderConfig struct {
		Direction ReadingDirection `yaml:"direction" validate:"gte=0"`
		Spread    SpreadConfig     `yaml:"spread"`
		Loading   LoadingConfig    `yaml:"loading"`
		Output    OutputConfig     `yaml:"output"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Reader    ReaderConfig   `yaml:"reader"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// NOTE: must match yaml field name above.
const NameTemplateFieldName TemplateFieldName = "name_template"

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(NameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
