package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
	"time"

	"github.com/google/uuid"
)

// ReadService answers existence, ownership and listing questions outside of
// any unit of work. Failures are classified storage errors.
type ReadService interface {
	SolutionExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetSolutionOwner(ctx context.Context, id uuid.UUID) (string, error)
	CommentExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetCommentOwner(ctx context.Context, id uuid.UUID) (string, error)
	ProblemExists(ctx context.Context, problemID string) (bool, error)
	GetUserDisplayName(ctx context.Context, userID string) (string, error)
	UserNameExists(ctx context.Context, userName string) (bool, error)
	// TokensValidAfter returns the user's revocation watermark, or the zero
	// time when none was set or the user is unknown.
	TokensValidAfter(ctx context.Context, userID string) (time.Time, error)

	GetSolution(ctx context.Context, id uuid.UUID) (*model.SolutionDetails, error)
	ListSolutionsByProblem(ctx context.Context, problemID string, sort model.SolutionListSort) ([]model.SolutionListItem, error)
	ListSolutionsByUserName(ctx context.Context, userName string, sort model.SolutionListSort) ([]model.SolutionListItem, error)
	CountVotes(ctx context.Context, solutionID uuid.UUID) (int64, error)
	HasVoted(ctx context.Context, userID string, solutionID uuid.UUID) (bool, error)
	ListComments(ctx context.Context, solutionID uuid.UUID) ([]model.CommentView, error)
}

type pgReadService struct {
	db *sql.DB
}

func NewPgReadService(db *sql.DB) ReadService {
	return &pgReadService{db: db}
}

func (r *pgReadService) exists(ctx context.Context, op, query string, args ...interface{}) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, common.TranslateStorageError(op, err)
	}
	return ok, nil
}

func (r *pgReadService) lookupString(ctx context.Context, op, query string, args ...interface{}) (string, error) {
	var s string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&s); err != nil {
		return "", common.TranslateStorageError(op, err)
	}
	return s, nil
}

func (r *pgReadService) SolutionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, "pgReadService.SolutionExists",
		`SELECT EXISTS (SELECT 1 FROM solutions WHERE id = $1)`, id)
}

func (r *pgReadService) GetSolutionOwner(ctx context.Context, id uuid.UUID) (string, error) {
	return r.lookupString(ctx, "pgReadService.GetSolutionOwner",
		`SELECT user_id FROM solutions WHERE id = $1`, id)
}

func (r *pgReadService) CommentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, "pgReadService.CommentExists",
		`SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)`, id)
}

func (r *pgReadService) GetCommentOwner(ctx context.Context, id uuid.UUID) (string, error) {
	return r.lookupString(ctx, "pgReadService.GetCommentOwner",
		`SELECT user_id FROM comments WHERE id = $1`, id)
}

func (r *pgReadService) ProblemExists(ctx context.Context, problemID string) (bool, error) {
	return r.exists(ctx, "pgReadService.ProblemExists",
		`SELECT EXISTS (SELECT 1 FROM problems WHERE id = $1)`, problemID)
}

func (r *pgReadService) GetUserDisplayName(ctx context.Context, userID string) (string, error) {
	return r.lookupString(ctx, "pgReadService.GetUserDisplayName",
		`SELECT user_name FROM users WHERE id = $1`, userID)
}

func (r *pgReadService) UserNameExists(ctx context.Context, userName string) (bool, error) {
	return r.exists(ctx, "pgReadService.UserNameExists",
		`SELECT EXISTS (SELECT 1 FROM users WHERE user_name = $1)`, userName)
}

func (r *pgReadService) TokensValidAfter(ctx context.Context, userID string) (time.Time, error) {
	var watermark sql.NullTime
	err := r.db.QueryRowContext(ctx, `SELECT tokens_valid_after FROM users WHERE id = $1`, userID).Scan(&watermark)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, common.TranslateStorageError("pgReadService.TokensValidAfter", err)
	}
	if !watermark.Valid {
		return time.Time{}, nil
	}
	return watermark.Time, nil
}

func (r *pgReadService) GetSolution(ctx context.Context, id uuid.UUID) (*model.SolutionDetails, error) {
	const op = "pgReadService.GetSolution"
	query := `
        SELECT s.id, s.title, s.problem_id, p.title, s.user_id, u.user_name,
               s.body_md, s.submit_url, s.created_at, s.updated_at
        FROM solutions s
        JOIN users u ON s.user_id = u.id
        JOIN problems p ON s.problem_id = p.id
        WHERE s.id = $1`

	d := &model.SolutionDetails{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Title, &d.ProblemID, &d.ProblemTitle, &d.UserID, &d.UserName,
		&d.BodyMD, &d.SubmitURL, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, common.TranslateStorageError(op, err)
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT t.name FROM solution_tags st
        JOIN tags t ON t.id = st.tag_id
        WHERE st.solution_id = $1
        ORDER BY t.name`, id)
	if err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	defer rows.Close()

	d.Tags = []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, common.TranslateStorageError(op, err)
		}
		d.Tags = append(d.Tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	return d, nil
}

func solutionOrderBy(sort model.SolutionListSort) string {
	if sort == model.SortVotes {
		return "votes_count DESC, s.created_at DESC"
	}
	return "s.created_at DESC"
}

func (r *pgReadService) ListSolutionsByProblem(ctx context.Context, problemID string, sort model.SolutionListSort) ([]model.SolutionListItem, error) {
	query := fmt.Sprintf(`
        SELECT s.id, s.title, s.problem_id, p.title, s.user_id, u.user_name,
               COUNT(sv.user_id) AS votes_count, s.created_at, s.updated_at
        FROM solutions s
        JOIN users u ON s.user_id = u.id
        JOIN problems p ON s.problem_id = p.id
        LEFT JOIN solution_votes sv ON sv.solution_id = s.id
        WHERE s.problem_id = $1
        GROUP BY s.id, p.title, u.user_name
        ORDER BY %s`, solutionOrderBy(sort))
	return r.listSolutions(ctx, "pgReadService.ListSolutionsByProblem", query, problemID)
}

func (r *pgReadService) ListSolutionsByUserName(ctx context.Context, userName string, sort model.SolutionListSort) ([]model.SolutionListItem, error) {
	query := fmt.Sprintf(`
        SELECT s.id, s.title, s.problem_id, p.title, s.user_id, u.user_name,
               COUNT(sv.user_id) AS votes_count, s.created_at, s.updated_at
        FROM solutions s
        JOIN users u ON s.user_id = u.id
        JOIN problems p ON s.problem_id = p.id
        LEFT JOIN solution_votes sv ON sv.solution_id = s.id
        WHERE u.user_name = $1
        GROUP BY s.id, p.title, u.user_name
        ORDER BY %s`, solutionOrderBy(sort))
	return r.listSolutions(ctx, "pgReadService.ListSolutionsByUserName", query, userName)
}

func (r *pgReadService) listSolutions(ctx context.Context, op, query string, arg string) ([]model.SolutionListItem, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	defer rows.Close()

	items := []model.SolutionListItem{}
	for rows.Next() {
		var it model.SolutionListItem
		if err := rows.Scan(
			&it.ID, &it.Title, &it.ProblemID, &it.ProblemTitle, &it.UserID, &it.UserName,
			&it.VotesCount, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, common.TranslateStorageError(op, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	return items, nil
}

func (r *pgReadService) CountVotes(ctx context.Context, solutionID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM solution_votes WHERE solution_id = $1`, solutionID).Scan(&n)
	if err != nil {
		return 0, common.TranslateStorageError("pgReadService.CountVotes", err)
	}
	return n, nil
}

func (r *pgReadService) HasVoted(ctx context.Context, userID string, solutionID uuid.UUID) (bool, error) {
	return r.exists(ctx, "pgReadService.HasVoted",
		`SELECT EXISTS (SELECT 1 FROM solution_votes WHERE user_id = $1 AND solution_id = $2)`, userID, solutionID)
}

func (r *pgReadService) ListComments(ctx context.Context, solutionID uuid.UUID) ([]model.CommentView, error) {
	const op = "pgReadService.ListComments"
	query := `
        SELECT c.id, c.user_id, u.user_name, c.solution_id, c.body_md, c.created_at, c.updated_at
        FROM comments c
        JOIN users u ON c.user_id = u.id
        WHERE c.solution_id = $1
        ORDER BY c.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, solutionID)
	if err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	defer rows.Close()

	comments := []model.CommentView{}
	for rows.Next() {
		var c model.CommentView
		if err := rows.Scan(&c.ID, &c.UserID, &c.UserName, &c.SolutionID, &c.BodyMD, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, common.TranslateStorageError(op, err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	return comments, nil
}
