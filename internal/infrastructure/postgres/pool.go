package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/jhoicas/FarmHub-api/pkg/config"
	"github.com/jhoicas/FarmHub-api/pkg/logger"
)

// NewPool abre el pool de PostgreSQL descrito por cfg y verifica la conexión con un ping.
func NewPool(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := PoolConfig(cfg, log)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// PoolConfig arma la configuración del pool sin conectar: DSN, tamaño, codec decimal y trazas de pgx.
func PoolConfig(cfg config.DBConfig, log *logger.Logger) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns >= 0 && int32(cfg.MinConns) <= poolConfig.MaxConns {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnLifetimeMins > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.ConnLifetimeMins) * time.Minute
	}
	poolConfig.HealthCheckPeriod = time.Minute

	level, err := tracelog.LogLevelFromString(cfg.LogLevel)
	if err != nil {
		level = tracelog.LogLevelError
	}
	if level != tracelog.LogLevelNone {
		poolConfig.ConnConfig.Tracer = queryTracer(log, level)
	}

	// NUMERIC -> shopspring/decimal en cada conexión.
	poolConfig.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return poolConfig, nil
}

// queryTracer envía las trazas de pgx al logger de la app. Los argumentos de las consultas no se
// registran: incluyen hashes de contraseña y datos de clientes.
func queryTracer(log *logger.Logger, level tracelog.LogLevel) *tracelog.TraceLog {
	l := log.WithComponent("postgres")
	return &tracelog.TraceLog{
		LogLevel: level,
		Logger: tracelog.LoggerFunc(func(_ context.Context, lvl tracelog.LogLevel, msg string, data map[string]any) {
			var ev *zerolog.Event
			switch lvl {
			case tracelog.LogLevelError:
				ev = l.Error()
			case tracelog.LogLevelWarn:
				ev = l.Warn()
			case tracelog.LogLevelInfo:
				ev = l.Info()
			default:
				ev = l.Debug()
			}
			for k, v := range data {
				if k == "args" {
					continue
				}
				ev = ev.Interface(k, v)
			}
			ev.Msg(msg)
		}),
	}
}
