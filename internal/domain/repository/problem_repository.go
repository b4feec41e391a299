package repository

import (
	"context"
	"database/sql"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
)

// ProblemRepository reads the problem catalog. Rows are written by the
// external import job only.
type ProblemRepository interface {
	FindProblemByID(ctx context.Context, id string) (*model.Problem, error)
	FindContestByID(ctx context.Context, id string) (*model.Contest, error)
	ListProblemsByContest(ctx context.Context, contestID string) ([]model.Problem, error)
	ListContestsBySeries(ctx context.Context, series model.ContestSeries) ([]model.Contest, error)
	ListProblemsBySeries(ctx context.Context, series model.ContestSeries) ([]model.Problem, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) FindProblemByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT id, contest_id, problem_index, title FROM problems WHERE id = $1`
	p := &model.Problem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.ContestID, &p.ProblemIndex, &p.Title)
	if err != nil {
		return nil, common.TranslateStorageError("pgProblemRepository.FindProblemByID", err)
	}
	return p, nil
}

func (r *pgProblemRepository) FindContestByID(ctx context.Context, id string) (*model.Contest, error) {
	query := `SELECT id, series, title, start_epoch_second, duration_second FROM contests WHERE id = $1`
	c := &model.Contest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Series, &c.Title, &c.StartEpochSecond, &c.DurationSecond)
	if err != nil {
		return nil, common.TranslateStorageError("pgProblemRepository.FindContestByID", err)
	}
	return c, nil
}

func (r *pgProblemRepository) ListProblemsByContest(ctx context.Context, contestID string) ([]model.Problem, error) {
	const op = "pgProblemRepository.ListProblemsByContest"
	query := `SELECT id, contest_id, problem_index, title FROM problems
	          WHERE contest_id = $1 ORDER BY problem_index`
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	return scanProblems(op, rows)
}

// ListContestsBySeries returns the newest contests first.
func (r *pgProblemRepository) ListContestsBySeries(ctx context.Context, series model.ContestSeries) ([]model.Contest, error) {
	const op = "pgProblemRepository.ListContestsBySeries"
	query := `SELECT id, series, title, start_epoch_second, duration_second FROM contests
	          WHERE series = $1 ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, query, string(series))
	if err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	defer rows.Close()

	contests := []model.Contest{}
	for rows.Next() {
		var c model.Contest
		if err := rows.Scan(&c.ID, &c.Series, &c.Title, &c.StartEpochSecond, &c.DurationSecond); err != nil {
			return nil, common.TranslateStorageError(op, err)
		}
		contests = append(contests, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	return contests, nil
}

func (r *pgProblemRepository) ListProblemsBySeries(ctx context.Context, series model.ContestSeries) ([]model.Problem, error) {
	const op = "pgProblemRepository.ListProblemsBySeries"
	query := `SELECT p.id, p.contest_id, p.problem_index, p.title FROM problems p
	          JOIN contests c ON c.id = p.contest_id
	          WHERE c.series = $1 ORDER BY p.contest_id DESC`
	rows, err := r.db.QueryContext(ctx, query, string(series))
	if err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	return scanProblems(op, rows)
}

func scanProblems(op string, rows *sql.Rows) ([]model.Problem, error) {
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		var p model.Problem
		if err := rows.Scan(&p.ID, &p.ContestID, &p.ProblemIndex, &p.Title); err != nil {
			return nil, common.TranslateStorageError(op, err)
		}
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	return problems, nil
}
