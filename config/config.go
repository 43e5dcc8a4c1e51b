package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Jackett  Jackett  `json:"jackett" yaml:"jackett" mapstructure:"jackett"`
	Qbit     Qbit     `json:"qbit" yaml:"qbit" mapstructure:"qbit"`
	Epguides Epguides `json:"epguides" yaml:"epguides" mapstructure:"epguides"`
	Library  Library  `json:"library" yaml:"library" mapstructure:"library"`
	Storage  Storage  `json:"storage" yaml:"storage" mapstructure:"storage"`
	Server   Server   `json:"server" yaml:"server" mapstructure:"server"`
	Engine   Engine   `json:"engine" yaml:"engine" mapstructure:"engine"`
}

type Jackett struct {
	Scheme      string        `json:"scheme" yaml:"scheme" mapstructure:"scheme"`
	Host        string        `json:"host" yaml:"host" mapstructure:"host"`
	APIKey      string        `json:"apiKey" yaml:"apiKey" mapstructure:"apiKey"`
	Port        int           `json:"port" yaml:"port" mapstructure:"port"`
	BaseBackoff time.Duration `json:"backoff" yaml:"backoff" mapstructure:"backoff"`
	MaxRetries  int           `json:"maxRetries" yaml:"maxRetries" mapstructure:"maxRetries"`
}

type Qbit struct {
	Scheme   string `json:"scheme" yaml:"scheme" mapstructure:"scheme"`
	Host     string `json:"host" yaml:"host" mapstructure:"host"`
	Port     int    `json:"port" yaml:"port" mapstructure:"port"`
	Username string `json:"username" yaml:"username" mapstructure:"username"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
}

type Epguides struct {
	Scheme string `json:"scheme" yaml:"scheme" mapstructure:"scheme"`
	Host   string `json:"host" yaml:"host" mapstructure:"host"`
}

type Library struct {
	MovieDir string `json:"movie" yaml:"movie" mapstructure:"movie"`
	TVDir    string `json:"tv" yaml:"tv" mapstructure:"tv"`
}

// Storage configuration is assumed to be for sqlite database only currently
type Storage struct {
	FilePath string `json:"filePath" yaml:"filePath" mapstructure:"filePath"`
}

type Server struct {
	Port int `json:"port" yaml:"port" mapstructure:"port"`
}

// Engine houses configuration for the acquisition engine cycle
type Engine struct {
	Interval      time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`
	StageTimeout  time.Duration `json:"stageTimeout" yaml:"stageTimeout" mapstructure:"stageTimeout"`
	RetentionDays int           `json:"retentionDays" yaml:"retentionDays" mapstructure:"retentionDays"`
	MinSeeders    int           `json:"minSeeders" yaml:"minSeeders" mapstructure:"minSeeders"`
	Language      string        `json:"language" yaml:"language" mapstructure:"language"`
}

// Retention converts the configured retention in days to a duration
func (e Engine) Retention() time.Duration {
	return time.Duration(e.RetentionDays) * 24 * time.Hour
}

type ConfigUnmarshaler interface {
	ReadInConfig() error
	Unmarshal(any, ...viper.DecoderConfigOption) error
	ConfigFileUsed() string
}

// New reads a new configuration
func New(cu ConfigUnmarshaler) (Config, error) {
	var c Config

	if cu.ConfigFileUsed() != "" {
		err := cu.ReadInConfig()
		if err != nil {
			return c, err
		}
	}

	err := cu.Unmarshal(&c)
	return c, err
}
