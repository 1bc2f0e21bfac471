package logger

import (
	"Snapshare/internal/api/config"
	log "log/slog"
	"net"
	"os"
	"time"
)

// InitLogger 初始化全局 slog，配置了 logstash 时同时写往远端
func InitLogger(cfg config.LogConfig) {
	level := ParseLevel(cfg.Level)

	hStdout := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: level})

	var finalHandler log.Handler = hStdout

	if cfg.Logstash.Address != "" {
		conn, err := net.DialTimeout("tcp", cfg.Logstash.Address, 3*time.Second)
		if err == nil {
			hRemote := log.NewJSONHandler(conn, &log.HandlerOptions{Level: level}).
				WithAttrs([]log.Attr{
					log.String("target_index", cfg.Logstash.Index),
				})

			finalHandler = NewTeeHandler(hStdout, NewRemoteFilterHandler(hRemote))
		} else {
			log.Warn("Failed to connect to Logstash, logging to stdout only", "err", err)
		}
	}

	log.SetDefault(log.New(&ContextHandler{finalHandler}))
}

// ParseLevel 解析日志级别，无法识别时退回 info
func ParseLevel(s string) log.Level {
	var level log.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return log.LevelInfo
	}
	return level
}
