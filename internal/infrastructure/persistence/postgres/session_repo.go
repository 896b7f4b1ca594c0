package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// SessionRepo implements session.Repository backed by PostgreSQL.
type SessionRepo struct {
	conn *Connection
}

var _ session.Repository = (*SessionRepo)(nil)

// NewSessionRepo creates a new PostgreSQL session repository.
func NewSessionRepo(conn *Connection) *SessionRepo {
	return &SessionRepo{conn: conn}
}

const sessionColumns = `id, teacher_id, learner_id, skill_id, date, status, mode, created_at, updated_at`

// Create inserts a new session row.
func (r *SessionRepo) Create(ctx context.Context, s *session.Session) error {
	query := `
		INSERT INTO sessions (id, teacher_id, learner_id, skill_id, date, status, mode,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		int(s.TeacherID),
		int(s.LearnerID),
		string(s.SkillID),
		s.Date,
		string(s.Status),
		string(s.Mode),
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrUserNotFound
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID returns the session with the given id.
func (r *SessionRepo) GetByID(ctx context.Context, id int) (*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	s, err := scanSession(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %d: %w", id, err)
	}
	return s, nil
}

// Update replaces the session row, usually after a status transition.
func (r *SessionRepo) Update(ctx context.Context, s *session.Session) error {
	query := `
		UPDATE sessions
		SET teacher_id = $2, learner_id = $3, skill_id = $4, date = $5,
			status = $6, mode = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		s.ID,
		int(s.TeacherID),
		int(s.LearnerID),
		string(s.SkillID),
		s.Date,
		string(s.Status),
		string(s.Mode),
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update session %d: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSessionNotFound
	}
	return nil
}

// List returns all sessions ordered by id.
func (r *SessionRepo) List(ctx context.Context) ([]*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY id`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// ListByUser returns sessions where the member teaches or learns.
func (r *SessionRepo) ListByUser(ctx context.Context, userID shared.UserID) ([]*session.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE teacher_id = $1 OR learner_id = $1
		ORDER BY id
	`

	rows, err := r.conn.Query(ctx, query, int(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// ListByStatus returns sessions with the given status.
func (r *SessionRepo) ListByStatus(ctx context.Context, status session.Status) ([]*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE status = $1 ORDER BY id`

	rows, err := r.conn.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by status: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// Count returns the number of sessions.
func (r *SessionRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// NextID allocates the next free session id.
func (r *SessionRepo) NextID(ctx context.Context) (int, error) {
	var id int
	err := r.conn.QueryRow(ctx, `SELECT nextval('sessions_id_seq')`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate session id: %w", err)
	}
	return id, nil
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var (
		s         session.Session
		teacherID int
		learnerID int
		skillID   string
		status    string
		mode      string
	)

	err := row.Scan(
		&s.ID,
		&teacherID,
		&learnerID,
		&skillID,
		&s.Date,
		&status,
		&mode,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.TeacherID = shared.UserID(teacherID)
	s.LearnerID = shared.UserID(learnerID)
	s.SkillID = shared.SkillID(skillID)
	s.Status = session.Status(status)
	s.Mode = session.Mode(mode)
	return &s, nil
}

func scanSessions(rows pgx.Rows) ([]*session.Session, error) {
	out := make([]*session.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return out, nil
}
