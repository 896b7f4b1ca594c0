package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATIONS
// Schema migrations are embedded as constants and applied in order by the
// Migrator. Row ids double as insertion order, so every listing query
// orders by id.
// ══════════════════════════════════════════════════════════════════════════════

// Migration represents a single schema migration.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

const migration001Up = `
CREATE SEQUENCE IF NOT EXISTS users_id_seq;
CREATE SEQUENCE IF NOT EXISTS sessions_id_seq;
CREATE SEQUENCE IF NOT EXISTS reviews_id_seq;
CREATE SEQUENCE IF NOT EXISTS conversations_id_seq;
CREATE SEQUENCE IF NOT EXISTS messages_id_seq;

CREATE TABLE IF NOT EXISTS users (
    id             BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
    name           TEXT NOT NULL,
    email          TEXT NOT NULL,
    password_hash  TEXT NOT NULL DEFAULT '',
    location_name  TEXT NOT NULL DEFAULT '',
    location_lat   DOUBLE PRECISION NOT NULL DEFAULT 0,
    location_lng   DOUBLE PRECISION NOT NULL DEFAULT 0,
    points         INTEGER NOT NULL DEFAULT 0,
    avatar_ref     TEXT NOT NULL DEFAULT '',
    bio            TEXT NOT NULL DEFAULT '',
    skills_offered TEXT[] NOT NULL DEFAULT '{}',
    skills_wanted  TEXT[] NOT NULL DEFAULT '{}',
    badges         TEXT[] NOT NULL DEFAULT '{}',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT users_email_key UNIQUE (email),
    CONSTRAINT users_points_non_negative CHECK (points >= 0)
);

CREATE TABLE IF NOT EXISTS sessions (
    id         BIGINT PRIMARY KEY DEFAULT nextval('sessions_id_seq'),
    teacher_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    learner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    skill_id   TEXT NOT NULL,
    date       TIMESTAMPTZ NOT NULL,
    status     TEXT NOT NULL DEFAULT 'pending',
    mode       TEXT NOT NULL DEFAULT 'in-person',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT sessions_distinct_parties CHECK (teacher_id <> learner_id),
    CONSTRAINT sessions_status_valid CHECK (status IN ('pending', 'confirmed', 'completed', 'cancelled')),
    CONSTRAINT sessions_mode_valid CHECK (mode IN ('in-person', 'online'))
);

CREATE INDEX IF NOT EXISTS idx_sessions_teacher ON sessions(teacher_id);
CREATE INDEX IF NOT EXISTS idx_sessions_learner ON sessions(learner_id);
CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);

CREATE TABLE IF NOT EXISTS reviews (
    id          BIGINT PRIMARY KEY DEFAULT nextval('reviews_id_seq'),
    session_id  BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    reviewer_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    reviewee_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    stars       SMALLINT NOT NULL,
    feedback    TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT reviews_one_per_session_reviewer UNIQUE (session_id, reviewer_id),
    CONSTRAINT reviews_stars_range CHECK (stars BETWEEN 1 AND 5)
);

CREATE INDEX IF NOT EXISTS idx_reviews_reviewee ON reviews(reviewee_id);

CREATE TABLE IF NOT EXISTS conversations (
    id                BIGINT PRIMARY KEY DEFAULT nextval('conversations_id_seq'),
    participant_a     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    participant_b     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    last_message_text TEXT NOT NULL DEFAULT '',
    last_message_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT conversations_distinct_parties CHECK (participant_a <> participant_b)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_pair
    ON conversations (LEAST(participant_a, participant_b), GREATEST(participant_a, participant_b));

CREATE TABLE IF NOT EXISTS messages (
    id              BIGINT PRIMARY KEY DEFAULT nextval('messages_id_seq'),
    conversation_id BIGINT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
    sender_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    body            TEXT NOT NULL,
    sent_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_read         BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(conversation_id, sender_id) WHERE NOT is_read;
`

const migration001Down = `
DROP TABLE IF EXISTS messages;
DROP TABLE IF EXISTS conversations;
DROP TABLE IF EXISTS reviews;
DROP TABLE IF EXISTS sessions;
DROP TABLE IF EXISTS users;
DROP SEQUENCE IF EXISTS messages_id_seq;
DROP SEQUENCE IF EXISTS conversations_id_seq;
DROP SEQUENCE IF EXISTS reviews_id_seq;
DROP SEQUENCE IF EXISTS sessions_id_seq;
DROP SEQUENCE IF EXISTS users_id_seq;
`

// Reference community dataset, mirroring the in-memory seed. Applied once;
// re-runs are no-ops thanks to ON CONFLICT DO NOTHING.
const migration002Up = `
INSERT INTO users (id, name, email, location_name, location_lat, location_lng, points, avatar_ref, skills_offered, skills_wanted) VALUES
    (1, 'Alice Johnson', 'alice@example.com', 'San Francisco, CA', 37.7749, -122.4194, 150, 'https://i.pravatar.cc/150?u=alice', '{cooking,gardening}', '{guitar,photography}'),
    (2, 'Bob Williams', 'bob@example.com', 'Oakland, CA', 37.8044, -122.2712, 80, 'https://i.pravatar.cc/150?u=bob', '{guitar,photography}', '{coding,spanish}'),
    (3, 'Charlie Brown', 'charlie@example.com', 'Berkeley, CA', 37.8715, -122.2730, 200, 'https://i.pravatar.cc/150?u=charlie', '{coding,spanish}', '{yoga,cooking}'),
    (4, 'Diana Prince', 'diana@example.com', 'San Mateo, CA', 37.5630, -122.3255, 120, 'https://i.pravatar.cc/150?u=diana', '{yoga,painting}', '{gardening}'),
    (5, 'Ethan Hunt', 'ethan@example.com', 'Palo Alto, CA', 37.4419, -122.1430, 95, 'https://i.pravatar.cc/150?u=ethan', '{photography}', '{painting,coding}')
ON CONFLICT (id) DO NOTHING;

INSERT INTO sessions (id, teacher_id, learner_id, skill_id, date, status, mode) VALUES
    (1, 2, 1, 'guitar', '2024-08-15T10:00:00Z', 'completed', 'in-person'),
    (2, 1, 3, 'cooking', '2024-08-20T18:00:00Z', 'confirmed', 'in-person'),
    (3, 3, 2, 'coding', '2024-08-22T14:00:00Z', 'confirmed', 'online'),
    (4, 4, 1, 'yoga', '2024-09-01T09:00:00Z', 'pending', 'online'),
    (5, 1, 4, 'gardening', '2024-07-30T11:00:00Z', 'completed', 'in-person'),
    (6, 2, 5, 'photography', '2024-08-25T13:00:00Z', 'pending', 'in-person')
ON CONFLICT (id) DO NOTHING;

INSERT INTO reviews (id, session_id, reviewer_id, reviewee_id, stars, feedback, created_at) VALUES
    (1, 1, 1, 2, 5, 'Bob was a fantastic guitar teacher! Very patient and knowledgeable.', '2024-08-15T12:00:00Z'),
    (2, 5, 4, 1, 4, 'Alice knows so much about gardening. I learned a lot about composting.', '2024-07-30T13:30:00Z')
ON CONFLICT (id) DO NOTHING;

SELECT setval('users_id_seq', GREATEST(5, (SELECT COALESCE(MAX(id), 1) FROM users)));
SELECT setval('sessions_id_seq', GREATEST(6, (SELECT COALESCE(MAX(id), 1) FROM sessions)));
SELECT setval('reviews_id_seq', GREATEST(2, (SELECT COALESCE(MAX(id), 1) FROM reviews)));
`

const migration002Down = `
DELETE FROM reviews WHERE id IN (1, 2);
DELETE FROM sessions WHERE id BETWEEN 1 AND 6;
DELETE FROM users WHERE id BETWEEN 1 AND 5;
`

// GetMigrations returns all migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_core_tables",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "seed_reference_community",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Migrator applies schema migrations.
type Migrator struct {
	conn *Connection
}

// NewMigrator creates a new migrator.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{conn: conn}
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return err
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, migration := range GetMigrations() {
		if applied[migration.Version] {
			continue
		}
		if err := m.apply(ctx, migration); err != nil {
			return fmt.Errorf("%w: version %d (%s): %v",
				ErrMigrationFailed, migration.Version, migration.Name, err)
		}
	}
	return nil
}

func (m *Migrator) ensureMigrationsTable(ctx context.Context) error {
	_, err := m.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to create schema_migrations: %v", ErrMigrationFailed, err)
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read applied versions: %v", ErrMigrationFailed, err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("%w: failed to scan version: %v", ErrMigrationFailed, err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, migration Migration) error {
	return m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, migration.UpSQL); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
			migration.Version, migration.Name,
		)
		return err
	})
}
