package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
	File  string // 非空则同时写文件并按大小切割
}

type JWT struct {
	Secret             string
	Issuer             string
	AccessTokenTTLDays int
}

type Mongo struct {
	URI                string
	Database           string
	BooksCollection    string
	ProfilesCollection string
	UsersCollection    string
	ConnectTimeoutSec  int
}

type OAuth struct {
	ClientID          string `mapstructure:"client_id"`
	ClientSecret      string `mapstructure:"client_secret"`
	RedirectURI       string `mapstructure:"redirect_uri"`
	FrontendURL       string `mapstructure:"frontend_url"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	Mongo Mongo
	OAuth OAuth `mapstructure:"oauth"`
	Redis Redis `mapstructure:"redis"`
}

func Load(path string) *Config {
	v := viper.New()
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

	setDefaults(v)

	// 配置文件可选：没有文件就走默认值 + 环境变量
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !os.IsNotExist(err) {
			log.Fatalf("read config: %v", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}

// setDefaults 本地开发默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "soundpath")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 3000)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 3001)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")

	v.SetDefault("jwt.secret", "your-super-secret-jwt-key-change-this-in-production")
	v.SetDefault("jwt.issuer", "soundpath")
	v.SetDefault("jwt.accesstokenttldays", 7)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "soundpath")
	v.SetDefault("mongo.bookscollection", "books")
	v.SetDefault("mongo.profilescollection", "profiles")
	v.SetDefault("mongo.userscollection", "users")
	v.SetDefault("mongo.connecttimeoutsec", 10)

	v.SetDefault("oauth.client_id", "")
	v.SetDefault("oauth.client_secret", "")
	v.SetDefault("oauth.redirect_uri", "http://localhost:3000/auth")
	v.SetDefault("oauth.frontend_url", "http://localhost:5500")
	v.SetDefault("oauth.request_timeout_sec", 10)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
}
