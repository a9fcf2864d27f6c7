package config

import (
	"os"
	"path"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	HttpPort             int           `yaml:"http_port"`
	JwtTTL               time.Duration `yaml:"jwt_ttl"`
	SecureCookies        bool          `yaml:"secure_cookies"`
	AllowedOrigins       []string      `yaml:"allowed_origins"`
	ConfirmationCodeLen  int           `yaml:"confirmation_code_len"`
	OtpLen               int           `yaml:"otp_len"`
	OtpStore             string        `yaml:"otp_store"`        // "pg" or "redis"
	CodeGCInterval       time.Duration `yaml:"code_gc_interval"` // 0 disables the collector
	UniformResetResponse bool          `yaml:"uniform_reset_response"`
	LogLevel             string        `yaml:"log_level"`
	LogJSON              bool          `yaml:"log_json"`
	DefaultBanner        string        `yaml:"default_banner"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Email struct {
	SMTPServer string        `yaml:"smtp_server"`
	SMTPPort   int           `yaml:"smtp_port"`
	Username   string        `yaml:"username"`
	Password   string        `yaml:"password"`
	SenderName string        `yaml:"sender_name"`
	Timeout    time.Duration `yaml:"timeout"`
	Driver     string        `yaml:"driver"` // "smtp" or "log"
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
	Email  Email  `yaml:"email"`
	Redis  Redis  `yaml:"redis"`
}

const (
	OtpStorePg    = "pg"
	OtpStoreRedis = "redis"

	defaultHttpPort            = 8080
	defaultConfirmationCodeLen = 8
	defaultOtpLen              = 6
)

// Secrets that may be supplied through the environment (or a .env file)
// instead of private.yaml.
const (
	EnvJwtKey        = "CLIENTSPOT_JWT_KEY"
	EnvPgPassword    = "CLIENTSPOT_PG_PASSWORD"
	EnvSMTPPassword  = "CLIENTSPOT_SMTP_PASSWORD"
	EnvRedisPassword = "CLIENTSPOT_REDIS_PASSWORD"
)

func (s *Config) JwtKey() string {
	return s.private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func (s *Config) Pg() Pg {
	return s.private.Pg
}

func (s *Config) Email() Email {
	return s.private.Email
}

func (s *Config) Redis() Redis {
	return s.private.Redis
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	// .env is optional, real environment wins over it
	_ = godotenv.Load(path.Join(configFolder, ".env"))
	applyEnv(&private)

	setDefaults(&public)
	mustValidate(&public, &private)

	return &Config{public, private}
}

func applyEnv(p *Private) {
	if v, ok := os.LookupEnv(EnvJwtKey); ok && v != "" {
		p.JwtKey = v
	}
	if v, ok := os.LookupEnv(EnvPgPassword); ok && v != "" {
		p.Pg.Password = v
	}
	if v, ok := os.LookupEnv(EnvSMTPPassword); ok && v != "" {
		p.Email.Password = v
	}
	if v, ok := os.LookupEnv(EnvRedisPassword); ok && v != "" {
		p.Redis.Password = v
	}
}

func setDefaults(p *Public) {
	if p.HttpPort == 0 {
		p.HttpPort = defaultHttpPort
	}
	if p.ConfirmationCodeLen == 0 {
		p.ConfirmationCodeLen = defaultConfirmationCodeLen
	}
	if p.OtpLen == 0 {
		p.OtpLen = defaultOtpLen
	}
	if p.OtpStore == "" {
		p.OtpStore = OtpStorePg
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
}

func mustValidate(public *Public, private *Private) {
	switch {
	case public.JwtTTL <= 0:
		panic("config: jwt_ttl is required")
	case private.JwtKey == "":
		panic("config: jwt_key is required (or set " + EnvJwtKey + ")")
	case private.Pg.Host == "":
		panic("config: pg.host is required")
	case private.Pg.Dbname == "":
		panic("config: pg.dbname is required")
	case public.OtpStore != OtpStorePg && public.OtpStore != OtpStoreRedis:
		panic("config: otp_store must be pg or redis, got " + strconv.Quote(public.OtpStore))
	case public.OtpStore == OtpStoreRedis && private.Redis.Addr == "":
		panic("config: redis.addr is required when otp_store is redis")
	}
}
