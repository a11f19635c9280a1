package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the full database schema. Statements are idempotent so the
// migration can be re-applied safely.
const Schema = `
CREATE TABLE IF NOT EXISTS wallets (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL UNIQUE,
	coins BIGINT NOT NULL DEFAULT 0 CHECK (coins >= 0),
	diamonds BIGINT NOT NULL DEFAULT 0 CHECK (diamonds >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS progression (
	user_id BIGINT PRIMARY KEY,
	xp_total BIGINT NOT NULL DEFAULT 0 CHECK (xp_total >= 0),
	level INT NOT NULL DEFAULT 1 CHECK (level >= 1),
	xp_current_level BIGINT NOT NULL DEFAULT 0,
	xp_next_level BIGINT NOT NULL DEFAULT 100
);

CREATE TABLE IF NOT EXISTS ledger_events (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	source TEXT NOT NULL,
	xp_delta BIGINT NOT NULL DEFAULT 0 CHECK (xp_delta >= 0),
	coins_delta BIGINT NOT NULL DEFAULT 0,
	diamonds_delta BIGINT NOT NULL DEFAULT 0,
	card_type TEXT,
	card_id BIGINT,
	card_rarity TEXT,
	quantity BIGINT NOT NULL DEFAULT 1 CHECK (quantity >= 1),
	reference_id TEXT,
	meta JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_ledger_user_source_created
	ON ledger_events (user_id, source, created_at);
CREATE INDEX IF NOT EXISTS idx_ledger_user_reference
	ON ledger_events (user_id, source, reference_id);

CREATE TABLE IF NOT EXISTS user_cards (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	card_type TEXT NOT NULL,
	card_id BIGINT NOT NULL,
	rarity TEXT NOT NULL,
	quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, card_type, card_id)
);

CREATE TABLE IF NOT EXISTS creatures (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	tribe TEXT NOT NULL,
	rarity TEXT NOT NULL,
	courage INT NOT NULL DEFAULT 0,
	power INT NOT NULL DEFAULT 0,
	wisdom INT NOT NULL DEFAULT 0,
	speed INT NOT NULL DEFAULT 0,
	energy INT NOT NULL DEFAULT 0,
	image_ref TEXT
);

CREATE TABLE IF NOT EXISTS attacks (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	rarity TEXT NOT NULL,
	cost INT NOT NULL DEFAULT 0,
	fire INT NOT NULL DEFAULT 0,
	air INT NOT NULL DEFAULT 0,
	earth INT NOT NULL DEFAULT 0,
	water INT NOT NULL DEFAULT 0,
	image_ref TEXT
);

CREATE TABLE IF NOT EXISTS locations (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	rarity TEXT NOT NULL,
	initiative TEXT,
	image_ref TEXT
);

CREATE TABLE IF NOT EXISTS mugics (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	tribe TEXT NOT NULL,
	rarity TEXT NOT NULL,
	cost INT NOT NULL DEFAULT 0,
	image_ref TEXT
);

CREATE TABLE IF NOT EXISTS battlegears (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	rarity TEXT NOT NULL,
	image_ref TEXT
);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}
