package postgres

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/FarmHub-api/pkg/config"
	"github.com/jhoicas/FarmHub-api/pkg/logger"
)

func TestPoolConfig_TamañoDesdeConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "farm", Password: "x", DBName: "farmhub", SSLMode: "disable",
		MaxConns: 8, MinConns: 2, ConnLifetimeMins: 15, LogLevel: "warn",
	}
	pc, err := PoolConfig(cfg, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, int32(8), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, 15*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "farmhub", pc.ConnConfig.Database)
	assert.NotNil(t, pc.AfterConnect)
	require.IsType(t, &tracelog.TraceLog{}, pc.ConnConfig.Tracer)
	assert.Equal(t, tracelog.LogLevelWarn, pc.ConnConfig.Tracer.(*tracelog.TraceLog).LogLevel)
}

func TestPoolConfig_DatabaseURLYSinTrazas(t *testing.T) {
	cfg := config.DBConfig{DatabaseURL: "postgres://farm:x@pg.internal:6543/farmhub?sslmode=require", LogLevel: "none"}
	pc, err := PoolConfig(cfg, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "pg.internal", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Nil(t, pc.ConnConfig.Tracer)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := PoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"}, logger.Nop())
	assert.ErrorContains(t, err, "parse DSN")
}

func TestQueryTracer_OmiteArgumentos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf})
	tr := queryTracer(log, tracelog.LogLevelError)

	tr.Logger.Log(context.Background(), tracelog.LogLevelError, "Query", map[string]any{
		"sql":  "UPDATE users SET password_hash = $1 WHERE id = $2",
		"args": []any{"$2a$10$secreto", "u-1"},
	})

	out := buf.String()
	assert.Contains(t, out, "UPDATE users")
	assert.Contains(t, out, `"component":"postgres"`)
	assert.Contains(t, out, `"level":"error"`)
	assert.NotContains(t, out, "secreto")
}
