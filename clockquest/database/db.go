package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"time"

	"log/slog"

	"github.com/clockquest/clockquest/clockquest/database/models"
	"github.com/uptrace/bun"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	// Probe the server before handing the address to the pool so a dead
	// host fails fast with a clear error.
	var conn net.Conn
	var err error

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	defer conn.Close()

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &DB{pool: pool, bunDB: newBunDB(pool)}, nil
}

func buildConnString(cfg DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func newBunDB(pool *pgxpool.Pool) *bun.DB {
	sslMode := os.Getenv("PG_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pool.Config().ConnConfig.User,
		pool.Config().ConnConfig.Password,
		pool.Config().ConnConfig.Host,
		pool.Config().ConnConfig.Port,
		pool.Config().ConnConfig.Database,
		sslMode,
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Any("args", args),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

func (db *DB) QueryWithLog(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	start := time.Now()
	rows, err := db.pool.Query(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "query"),
			slog.String("query", sql),
			slog.Any("args", args),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return rows, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "query"),
		slog.String("query", sql),
		slog.Duration("took", duration),
	)
	return rows, nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// InitializeSchema creates all required tables and indexes. Ordered so
// foreign keys resolve; player-owned tables cascade on player delete.
func (db *DB) InitializeSchema(ctx context.Context) error {
	tables := []interface{}{
		(*models.World)(nil),
		(*models.Player)(nil),
		(*models.Session)(nil),
		(*models.TierTrial)(nil),
		(*models.Quest)(nil),
		(*models.QuestRun)(nil),
		(*models.PlayerTipSeen)(nil),
	}

	for _, model := range tables {
		query := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			WithForeignKeys()

		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if err := db.migrateCascades(ctx); err != nil {
		return fmt.Errorf("failed to migrate cascade constraints: %w", err)
	}

	indexes := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_worlds_join_code ON worlds(join_code);",
		"CREATE INDEX IF NOT EXISTS idx_players_world_id ON players(world_id);",
		"CREATE INDEX IF NOT EXISTS idx_players_world_power ON players(world_id, clock_power DESC);",
		"CREATE INDEX IF NOT EXISTS idx_sessions_player_id ON sessions(player_id);",
		"CREATE INDEX IF NOT EXISTS idx_sessions_player_created ON sessions(player_id, created_at);",
		"CREATE INDEX IF NOT EXISTS idx_tier_trials_player_id ON tier_trials(player_id);",
		"CREATE INDEX IF NOT EXISTS idx_quests_player_id ON quests(player_id);",
		"CREATE INDEX IF NOT EXISTS idx_quests_player_type_completed ON quests(player_id, quest_type, completed);",
		"CREATE INDEX IF NOT EXISTS idx_quest_runs_player_id ON quest_runs(player_id);",
		"CREATE INDEX IF NOT EXISTS idx_player_tip_seen_player_tier ON player_tip_seen(player_id, tier_index);",
	}

	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// migrateCascades rewrites player/world foreign keys to ON DELETE
// CASCADE so deleting a world or player removes its children.
func (db *DB) migrateCascades(ctx context.Context) error {
	cascades := []struct {
		table, constraint, column, refTable string
	}{
		{"players", "players_world_id_fkey", "world_id", "worlds"},
		{"sessions", "sessions_player_id_fkey", "player_id", "players"},
		{"tier_trials", "tier_trials_player_id_fkey", "player_id", "players"},
		{"quests", "quests_player_id_fkey", "player_id", "players"},
		{"quest_runs", "quest_runs_player_id_fkey", "player_id", "players"},
		{"player_tip_seen", "player_tip_seen_player_id_fkey", "player_id", "players"},
	}

	for _, c := range cascades {
		stmt := fmt.Sprintf(`
			DO $$
			BEGIN
				IF EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conname = '%s' AND confdeltype <> 'c'
				) THEN
					ALTER TABLE %s DROP CONSTRAINT %s;
					ALTER TABLE %s ADD CONSTRAINT %s
						FOREIGN KEY (%s) REFERENCES %s(id) ON DELETE CASCADE;
				END IF;
			END $$;
		`, c.constraint, c.table, c.constraint, c.table, c.constraint, c.column, c.refTable)

		if _, err := db.ExecWithLog(ctx, stmt); err != nil {
			return fmt.Errorf("failed to cascade %s.%s: %w", c.table, c.column, err)
		}
	}

	return nil
}

// Ping verifies both database connections are working
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgxpool ping failed: %w", err)
	}

	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}

	return nil
}
