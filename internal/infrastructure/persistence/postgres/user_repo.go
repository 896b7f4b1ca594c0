package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// UserRepo implements user.Repository backed by PostgreSQL.
// Listing queries order by id so insertion order survives the round trip.
type UserRepo struct {
	conn *Connection
}

var _ user.Repository = (*UserRepo)(nil)

// NewUserRepo creates a new PostgreSQL user repository.
func NewUserRepo(conn *Connection) *UserRepo {
	return &UserRepo{conn: conn}
}

const userColumns = `id, name, email, password_hash, location_name, location_lat, location_lng,
	points, avatar_ref, bio, skills_offered, skills_wanted, badges, created_at, updated_at`

// Create inserts a new member row.
func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, location_name, location_lat,
			location_lng, points, avatar_ref, bio, skills_offered, skills_wanted, badges,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.conn.Exec(ctx, query,
		int(u.ID),
		u.Name,
		string(u.Email.Normalize()),
		u.PasswordHash,
		u.Location.Name,
		u.Location.Lat,
		u.Location.Lng,
		int(u.Points),
		u.AvatarRef,
		u.Bio,
		skillsToStrings(u.SkillsOffered),
		skillsToStrings(u.SkillsWanted),
		badgesOrEmpty(u.Badges),
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			if constraintName(err) == "users_pkey" {
				return shared.ErrUserAlreadyExists
			}
			return shared.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID returns the member with the given id.
func (r *UserRepo) GetByID(ctx context.Context, id shared.UserID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.conn.QueryRow(ctx, query, int(id)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return u, nil
}

// GetByEmail returns the member with the given email.
func (r *UserRepo) GetByEmail(ctx context.Context, email shared.Email) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.conn.QueryRow(ctx, query, string(email.Normalize())))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// Update replaces the member row.
func (r *UserRepo) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, location_name = $5,
			location_lat = $6, location_lng = $7, points = $8, avatar_ref = $9,
			bio = $10, skills_offered = $11, skills_wanted = $12, badges = $13,
			updated_at = $14
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		int(u.ID),
		u.Name,
		string(u.Email.Normalize()),
		u.PasswordHash,
		u.Location.Name,
		u.Location.Lat,
		u.Location.Lng,
		int(u.Points),
		u.AvatarRef,
		u.Bio,
		skillsToStrings(u.SkillsOffered),
		skillsToStrings(u.SkillsWanted),
		badgesOrEmpty(u.Badges),
		u.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrEmailTaken
		}
		return fmt.Errorf("failed to update user %d: %w", u.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

// List returns all members ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// GetByIDs returns the members for the given ids, in the order requested.
// Unknown ids are skipped.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []shared.UserID) ([]*user.User, error) {
	if len(ids) == 0 {
		return []*user.User{}, nil
	}

	raw := make([]int, len(ids))
	for i, id := range ids {
		raw[i] = int(id)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`

	rows, err := r.conn.Query(ctx, query, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}
	defer rows.Close()

	fetched, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[shared.UserID]*user.User, len(fetched))
	for _, u := range fetched {
		byID[u.ID] = u
	}

	out := make([]*user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// Count returns the number of members.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// AddPoints atomically awards points and returns the new total.
func (r *UserRepo) AddPoints(ctx context.Context, id shared.UserID, amount int) (shared.Points, error) {
	query := `
		UPDATE users
		SET points = points + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING points
	`

	var total int
	err := r.conn.QueryRow(ctx, query, int(id), amount).Scan(&total)
	if err != nil {
		if IsNoRows(err) {
			return 0, shared.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to add points to user %d: %w", id, err)
	}
	return shared.Points(total), nil
}

// Exists reports whether the member exists.
func (r *UserRepo) Exists(ctx context.Context, id shared.UserID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, int(id),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// ExistsByEmail reports whether a member with the email exists.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email shared.Email) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, string(email.Normalize()),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// NextID allocates the next free member id.
func (r *UserRepo) NextID(ctx context.Context) (shared.UserID, error) {
	var id int
	err := r.conn.QueryRow(ctx, `SELECT nextval('users_id_seq')`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate user id: %w", err)
	}
	return shared.UserID(id), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SCAN HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		u       user.User
		id      int
		email   string
		points  int
		offered []string
		wanted  []string
		badges  []string
	)

	err := row.Scan(
		&id,
		&u.Name,
		&email,
		&u.PasswordHash,
		&u.Location.Name,
		&u.Location.Lat,
		&u.Location.Lng,
		&points,
		&u.AvatarRef,
		&u.Bio,
		&offered,
		&wanted,
		&badges,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.ID = shared.UserID(id)
	u.Email = shared.Email(email)
	u.Points = shared.Points(points)
	u.SkillsOffered = stringsToSkills(offered)
	u.SkillsWanted = stringsToSkills(wanted)
	u.Badges = badges
	if u.Badges == nil {
		u.Badges = make([]string, 0)
	}
	return &u, nil
}

func scanUsers(rows pgx.Rows) ([]*user.User, error) {
	out := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return out, nil
}

func skillsToStrings(list user.SkillList) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = string(s)
	}
	return out
}

func stringsToSkills(raw []string) user.SkillList {
	out := make(user.SkillList, len(raw))
	for i, s := range raw {
		out[i] = shared.SkillID(s)
	}
	return out
}

func badgesOrEmpty(badges []string) []string {
	if badges == nil {
		return []string{}
	}
	return badges
}
