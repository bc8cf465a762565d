package repository

// PostgresSchema is applied at startup when database.auto_migrate is set.
var PostgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_preferences (
		user_id              UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		interested_assets    TEXT[] NOT NULL DEFAULT '{}',
		investor_type        TEXT NOT NULL DEFAULT '',
		content_types        TEXT[] NOT NULL DEFAULT '{}',
		completed_onboarding BOOLEAN NOT NULL DEFAULT FALSE,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type       TEXT NOT NULL CHECK (type IN ('up', 'down')),
		section    TEXT NOT NULL CHECK (section IN ('coinPrices', 'marketNews', 'aiInsight', 'meme')),
		content_id TEXT,
		comment    TEXT CHECK (char_length(comment) <= 500),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS feedback_user_created_idx ON feedback (user_id, created_at DESC)`,
}

// ClickHouseSchema backs the feedback analytics sink.
var ClickHouseSchema = []string{
	`CREATE TABLE IF NOT EXISTS feedback_events (
		id          String,
		user_id     String,
		type        LowCardinality(String),
		section     LowCardinality(String),
		content_id  String,
		has_comment UInt8,
		created_at  DateTime64(3, 'UTC')
	) ENGINE = ReplacingMergeTree
	PARTITION BY toYYYYMM(created_at)
	ORDER BY (section, created_at, id)`,
}
