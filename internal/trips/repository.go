package trips

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a workspace or idea does not exist.
var ErrNotFound = errors.New("trips: not found")

// Repository persists workspaces, ideas, proposals and likes.
type Repository interface {
	CreateWorkspace(ctx context.Context, ws *Workspace) error
	ListWorkspaces(ctx context.Context, userID uuid.UUID) ([]Workspace, error)
	GetWorkspace(ctx context.Context, id uuid.UUID) (*Workspace, error)
	IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)
	AddMember(ctx context.Context, workspaceID, userID uuid.UUID, role string) error

	CreateIdea(ctx context.Context, idea *Idea) error
	ListIdeas(ctx context.Context, workspaceID uuid.UUID) ([]Idea, error)
	GetIdea(ctx context.Context, id uuid.UUID) (*Idea, error)
	UpdateIdeaStatus(ctx context.Context, id uuid.UUID, status IdeaStatus) error
	DeleteIdea(ctx context.Context, id uuid.UUID) error

	CreateProposal(ctx context.Context, p *Proposal) error
	ListProposals(ctx context.Context, ideaID uuid.UUID) ([]Proposal, error)

	AddLike(ctx context.Context, ideaID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, ideaID, userID uuid.UUID) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Postgres-backed trips repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) CreateWorkspace(ctx context.Context, ws *Workspace) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning workspace tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO workspaces (id, name, owner_id) VALUES ($1, $2, $3) RETURNING created_at`,
		ws.ID, ws.Name, ws.OwnerID,
	).Scan(&ws.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting workspace: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role) VALUES ($1, $2, 'owner')`,
		ws.ID, ws.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("inserting owner membership: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *postgresRepository) ListWorkspaces(ctx context.Context, userID uuid.UUID) ([]Workspace, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT w.id, w.name, w.owner_id, w.created_at
		 FROM workspaces w
		 JOIN workspace_members m ON m.workspace_id = w.id
		 WHERE m.user_id = $1
		 ORDER BY w.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer rows.Close()

	var out []Workspace
	for rows.Next() {
		var ws Workspace
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.OwnerID, &ws.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning workspace: %w", err)
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (r *postgresRepository) GetWorkspace(ctx context.Context, id uuid.UUID) (*Workspace, error) {
	var ws Workspace
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at FROM workspaces WHERE id = $1`, id,
	).Scan(&ws.ID, &ws.Name, &ws.OwnerID, &ws.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying workspace: %w", err)
	}
	return &ws, nil
}

func (r *postgresRepository) IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM workspace_members WHERE workspace_id = $1 AND user_id = $2)`,
		workspaceID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) AddMember(ctx context.Context, workspaceID, userID uuid.UUID, role string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (workspace_id, user_id) DO NOTHING`,
		workspaceID, userID, role,
	)
	if err != nil {
		return fmt.Errorf("adding workspace member: %w", err)
	}
	return nil
}

func (r *postgresRepository) CreateIdea(ctx context.Context, idea *Idea) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO ideas (id, workspace_id, creator_id, title, description, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		idea.ID, idea.WorkspaceID, idea.CreatorID, idea.Title, idea.Description, idea.Status,
	).Scan(&idea.CreatedAt, &idea.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting idea: %w", err)
	}
	return nil
}

const ideaColumns = `i.id, i.workspace_id, i.creator_id, i.title, i.description, i.status,
	(SELECT COUNT(*) FROM idea_likes l WHERE l.idea_id = i.id) AS like_count,
	i.created_at, i.updated_at`

func scanIdea(row pgx.Row, idea *Idea) error {
	return row.Scan(&idea.ID, &idea.WorkspaceID, &idea.CreatorID, &idea.Title,
		&idea.Description, &idea.Status, &idea.LikeCount, &idea.CreatedAt, &idea.UpdatedAt)
}

func (r *postgresRepository) ListIdeas(ctx context.Context, workspaceID uuid.UUID) ([]Idea, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ideaColumns+` FROM ideas i WHERE i.workspace_id = $1 ORDER BY i.created_at DESC`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}
	defer rows.Close()

	var out []Idea
	for rows.Next() {
		var idea Idea
		if err := scanIdea(rows, &idea); err != nil {
			return nil, fmt.Errorf("scanning idea: %w", err)
		}
		out = append(out, idea)
	}
	return out, rows.Err()
}

func (r *postgresRepository) GetIdea(ctx context.Context, id uuid.UUID) (*Idea, error) {
	var idea Idea
	err := scanIdea(r.pool.QueryRow(ctx,
		`SELECT `+ideaColumns+` FROM ideas i WHERE i.id = $1`, id), &idea)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying idea: %w", err)
	}
	return &idea, nil
}

func (r *postgresRepository) UpdateIdeaStatus(ctx context.Context, id uuid.UUID, status IdeaStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE ideas SET status = $2, updated_at = NOW() WHERE id = $1`, id, status,
	)
	if err != nil {
		return fmt.Errorf("updating idea status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteIdea(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ideas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting idea: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepository) CreateProposal(ctx context.Context, p *Proposal) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO proposals (id, idea_id, author_id, kind, content)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		p.ID, p.IdeaID, p.AuthorID, p.Kind, p.Content,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting proposal: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListProposals(ctx context.Context, ideaID uuid.UUID) ([]Proposal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, idea_id, author_id, kind, content, created_at
		 FROM proposals WHERE idea_id = $1 ORDER BY created_at ASC`,
		ideaID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	defer rows.Close()

	var out []Proposal
	for rows.Next() {
		var p Proposal
		if err := rows.Scan(&p.ID, &p.IdeaID, &p.AuthorID, &p.Kind, &p.Content, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning proposal: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postgresRepository) AddLike(ctx context.Context, ideaID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO idea_likes (idea_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (idea_id, user_id) DO NOTHING`,
		ideaID, userID,
	)
	if err != nil {
		return fmt.Errorf("adding like: %w", err)
	}
	return nil
}

func (r *postgresRepository) RemoveLike(ctx context.Context, ideaID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM idea_likes WHERE idea_id = $1 AND user_id = $2`,
		ideaID, userID,
	)
	if err != nil {
		return fmt.Errorf("removing like: %w", err)
	}
	return nil
}
