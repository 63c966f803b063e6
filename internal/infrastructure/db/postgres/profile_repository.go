package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trackshift/arena-web/internal/core/domain"
)

// querier is the slice of pgxpool.Pool the profile queries use.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProfileRepository reads role, team linkage and agent count from the arena
// tables. It is read-only; the backend owns these rows.
type ProfileRepository struct {
	db querier
}

func NewProfileRepository(db querier) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Role(ctx context.Context, sess *domain.ProviderSession) (domain.Role, string, error) {
	var name *string
	var role string
	err := r.db.QueryRow(ctx, `SELECT name, role FROM users WHERE id = $1`, sess.User.ID).Scan(&name, &role)
	if err != nil {
		return "", "", fmt.Errorf("query user role: %w", err)
	}
	display := ""
	if name != nil {
		display = *name
	}
	return domain.ParseRole(role), display, nil
}

func (r *ProfileRepository) TeamID(ctx context.Context, sess *domain.ProviderSession) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `SELECT id::text FROM teams WHERE owner_id = $1 LIMIT 1`, sess.User.ID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("query team: %w", err)
	}
	return id, nil
}

func (r *ProfileRepository) AgentCount(ctx context.Context, _ *domain.ProviderSession, teamID string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM agents WHERE team_id = $1`, teamID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count agents: %w", err)
	}
	return n, nil
}
