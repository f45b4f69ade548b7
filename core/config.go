package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDev  = "DEV"
	EnvTest = "TEST"
	EnvQA   = "QA"
	EnvProd = "PROD"
)

type (
	ServerConfig struct {
		Address            string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		DisableReqLogs     bool
	}

	ContentConfig struct {
		Dir string
	}

	StorageConfig struct {
		Engine   string // memory | file | redis | postgres
		FilePath string
		RedisURL string
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	TelegramConfig struct {
		BotToken string
		ChatID   string
		APIURL   string
	}

	NotifyConfig struct {
		Timeout time.Duration
	}

	TeacherConfig struct {
		Password     string
		PasswordHash string
		Email        string
	}

	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		DefaultFromEmail string
		SendgridAPIKey   string
		RollbarToken     string

		Server   ServerConfig
		Content  ContentConfig
		Storage  StorageConfig
		Database DatabaseConfig
		Telegram TelegramConfig
		Notify   NotifyConfig
		Teacher  TeacherConfig
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Configured reports whether both Telegram secrets are set.
func (c TelegramConfig) Configured() bool {
	return c.BotToken != "" && c.ChatID != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProd
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "IELTS Reading Platform")
	v.SetDefault("secretKey", "kq9-ld3)wu$+18=ab&tmeg2(r!x)#*z4(#ue7^$pfew1exo")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 12*time.Hour)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("content.dir", "data")

	v.SetDefault("storage.engine", "file")
	v.SetDefault("storage.filePath", filepath.Join("var", "storage.json"))
	v.SetDefault("storage.redisUrl", "redis://localhost:6379/0")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "ielts")
	v.SetDefault("database.user", "ielts")
	v.SetDefault("database.password", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("telegram.botToken", "")
	v.SetDefault("telegram.chatId", "")
	v.SetDefault("telegram.apiUrl", "https://api.telegram.org")

	v.SetDefault("notify.timeout", 5*time.Second)

	v.SetDefault("teacher.password", "")
	v.SetDefault("teacher.passwordHash", "")
	v.SetDefault("teacher.email", "")
}

// NewConfig reads the configuration from the environment.
// ENV selects the environment: DEV (local; default), TEST, QA or PROD.
// Keys are read from `<ENV>_<KEY>` variables, e.g. DEV_SERVER_ADDRESS.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = EnvDev
	case EnvTest:
		v.SetDefault("testMode", true)
	case EnvProd:
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:            v.GetString("server.address"),
			DebugHost:          v.GetString("server.debugHost"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			DisableReqLogs:     v.GetBool("server.disableReqLogs"),
		},
		Content: ContentConfig{
			Dir: v.GetString("content.dir"),
		},
		Storage: StorageConfig{
			Engine:   strings.ToLower(v.GetString("storage.engine")),
			FilePath: v.GetString("storage.filePath"),
			RedisURL: v.GetString("storage.redisUrl"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetString("database.port"),
			Name:       v.GetString("database.name"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Telegram: TelegramConfig{
			BotToken: v.GetString("telegram.botToken"),
			ChatID:   v.GetString("telegram.chatId"),
			APIURL:   v.GetString("telegram.apiUrl"),
		},
		Notify: NotifyConfig{
			Timeout: v.GetDuration("notify.timeout"),
		},
		Teacher: TeacherConfig{
			Password:     v.GetString("teacher.password"),
			PasswordHash: v.GetString("teacher.passwordHash"),
			Email:        v.GetString("teacher.email"),
		},
	}

	// the deployment sets the bot secrets without the env prefix
	if conf.Telegram.BotToken == "" {
		conf.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if conf.Telegram.ChatID == "" {
		conf.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	}
	return conf
}
