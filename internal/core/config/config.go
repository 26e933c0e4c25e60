package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	BaseURL           string // 对外地址，用于拼接上传文件 URL
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RequestTimeoutSec int
	MaxBodyMB         int64
	RateLimitRPS      float64
	RateLimitBurst    int
	MaxConcurrent     int64
	CORSOrigins       []string
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Enable        bool   `mapstructure:"enable"`
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	CatalogTTLSec int    `mapstructure:"catalogTTLSec"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

type Upload struct {
	Driver    string // local | s3
	Dir       string
	MaxSizeMB int64
	S3        S3
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	DB     DB
	Redis  Redis `mapstructure:"redis"`
	Upload Upload
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "salon-booking")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 3001)
	v.SetDefault("app.http.baseURL", "")
	v.SetDefault("app.http.readTimeoutSec", 10)
	v.SetDefault("app.http.writeTimeoutSec", 30)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.requestTimeoutSec", 15)
	v.SetDefault("app.http.maxBodyMB", 16)
	v.SetDefault("app.http.rateLimitRPS", 200)
	v.SetDefault("app.http.rateLimitBurst", 400)
	v.SetDefault("app.http.maxConcurrent", 256)
	v.SetDefault("app.http.corsOrigins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxSizeMB", 100)
	v.SetDefault("log.file.maxBackups", 7)
	v.SetDefault("log.file.maxAgeDays", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "salon-booking")
	v.SetDefault("jwt.accessTokenTTLMin", 1440)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:salon.db?_foreign_keys=on")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("redis.enable", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.catalogTTLSec", 300)

	v.SetDefault("upload.driver", "local")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.maxSizeMB", 5)
	v.SetDefault("upload.s3.bucket", "")
	v.SetDefault("upload.s3.region", "us-east-1")
	v.SetDefault("upload.s3.endpoint", "")
	v.SetDefault("upload.s3.accessKey", "")
	v.SetDefault("upload.s3.secretKey", "")
	v.SetDefault("upload.s3.publicURL", "")
}

// Load reads path (CONFIG_PATH or ./configs/config.local.yaml when empty).
// A missing file is not an error: defaults plus APP_* env vars apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is required")
	}
	if c.App.HTTP.BaseURL == "" {
		c.App.HTTP.BaseURL = fmt.Sprintf("http://localhost:%d", c.App.HTTP.Port)
	}
	c.App.HTTP.BaseURL = strings.TrimRight(c.App.HTTP.BaseURL, "/")
	return &c, nil
}
