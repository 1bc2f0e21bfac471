package config

// Config 配置主体
type Config struct {
	DB  DBConfig  `mapstructure:"database"`
	Log LogConfig `mapstructure:"log"`
}

// DBConfig 数据库配置
type DBConfig struct {
	Driver      string `mapstructure:"driver"` // mysql, postgres, sqlite
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	SlowSQL     int    `mapstructure:"slow_sql_ms"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string         `mapstructure:"level"`
	Logstash LogstashConfig `mapstructure:"logstash"`
}

// LogstashConfig 远程日志，地址为空时只输出到 stdout
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
}
