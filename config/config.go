package config

import (
	"os"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// SystemConfig system level configuration
type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig web server configuration
type WebConfig struct {
	Host        string `yaml:"host" json:"host"`
	Port        int    `yaml:"port" json:"port"`
	AllowOrigin string `yaml:"allow_origin" json:"allow_origin"`
}

// DBConfig database configuration
type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
	// SslCa holds PEM certificate content(with \n escapes allowed), staged to
	// a temp file before the connection is opened. Used for managed MySQL.
	SslCa string `yaml:"ssl_ca" json:"ssl_ca"`
}

// LogConfig logger configuration
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// PosConfig point-of-sale register identity defaults
type PosConfig struct {
	StoreCode      string `yaml:"store_code" json:"store_code"`
	PosNo          string `yaml:"pos_no" json:"pos_no"`
	DefaultCashier string `yaml:"default_cashier" json:"default_cashier"`
	NodeId         int64  `yaml:"node_id" json:"node_id"`
}

type AppConfig struct {
	System   SystemConfig `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Logger   LogConfig    `yaml:"logger" json:"logger"`
	Pos      PosConfig    `yaml:"pos" json:"pos"`
}

var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "registra",
		Location: "Asia/Tokyo",
		Workdir:  "/var/registra",
		Debug:    true,
	},
	Web: WebConfig{
		Host:        "0.0.0.0",
		Port:        8080,
		AllowOrigin: "http://localhost:3000",
	},
	Database: DBConfig{
		Type:     "mysql",
		Host:     "127.0.0.1",
		Port:     3306,
		Name:     "registra",
		User:     "registra",
		Passwd:   "registra",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/registra/registra.log",
	},
	Pos: PosConfig{
		StoreCode:      "30",
		PosNo:          "90",
		DefaultCashier: "9999999999",
		NodeId:         1,
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvInt64Value(name string, f func(v int64)) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := cast.ToInt64E(evalue)
	if err == nil {
		f(p)
	}
}

// LoadConfig reads the yaml configuration file and applies environment
// variable overrides. A missing file is not an error, the defaults plus the
// environment are enough to run.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("REGISTRA_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("REGISTRA_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvValue("REGISTRA_DEBUG", func(v string) { cfg.System.Debug = cast.ToBool(v) })

	setEnvValue("DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("DB_HOST", func(v string) {
		// Azure style host may carry a :port suffix
		if host, port, ok := strings.Cut(v, ":"); ok {
			cfg.Database.Host = host
			cfg.Database.Port = cast.ToInt(port)
		} else {
			cfg.Database.Host = v
		}
	})
	setEnvInt64Value("DB_PORT", func(v int64) { cfg.Database.Port = int(v) })
	setEnvValue("DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("DB_PASSWORD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("DB_SSL_CA", func(v string) { cfg.Database.SslCa = v })

	setEnvInt64Value("PORT", func(v int64) { cfg.Web.Port = int(v) })
	setEnvValue("FRONTEND_ORIGIN", func(v string) { cfg.Web.AllowOrigin = v })

	setEnvValue("POS_STORE_CODE", func(v string) { cfg.Pos.StoreCode = v })
	setEnvValue("POS_NO", func(v string) { cfg.Pos.PosNo = v })
	setEnvValue("POS_DEFAULT_CASHIER", func(v string) { cfg.Pos.DefaultCashier = v })

	return cfg
}
