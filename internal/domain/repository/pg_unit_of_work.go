package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Outcomes reported to the TxManager observer.
const (
	TxCommitted    = "committed"
	TxCommitFailed = "commit_failed"
	TxRolledBack   = "rolled_back"
)

type TxManagerOption func(*pgTxManager)

// WithTxObserver registers fn to be called once per finished unit of work.
func WithTxObserver(fn func(outcome string)) TxManagerOption {
	return func(m *pgTxManager) { m.observe = fn }
}

func WithTxLogger(l zerolog.Logger) TxManagerOption {
	return func(m *pgTxManager) { m.log = l }
}

type pgTxManager struct {
	db      *sql.DB
	observe func(outcome string)
	log     zerolog.Logger
}

func NewPgTxManager(db *sql.DB, opts ...TxManagerOption) TxManager {
	m := &pgTxManager{db: db, observe: func(string) {}, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin opens a transaction bound to ctx. If ctx is cancelled before Commit,
// database/sql rolls the transaction back on its own.
func (m *pgTxManager) Begin(ctx context.Context) (UnitOfWork, error) {
	const op = "pgTxManager.Begin"
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		translated := common.TranslateStorageError(op, err)
		kind, _ := common.StorageKindOf(translated)
		// unclassified begin failures come from the pool failing to hand out a connection
		if kind == common.StorageUnexpected && !errors.Is(err, context.Canceled) {
			return nil, common.NewStorageError(common.StorageConnection, op, err)
		}
		return nil, translated
	}
	return &pgUnitOfWork{tx: tx, observe: m.observe, log: m.log}, nil
}

type pgUnitOfWork struct {
	tx      *sql.Tx
	done    bool
	observe func(outcome string)
	log     zerolog.Logger
}

func (u *pgUnitOfWork) Solutions() SolutionTxRepository { return pgSolutionTx{uow: u} }
func (u *pgUnitOfWork) Tags() TagTxRepository           { return pgTagTx{uow: u} }
func (u *pgUnitOfWork) Votes() VoteTxRepository         { return pgVoteTx{uow: u} }
func (u *pgUnitOfWork) Comments() CommentTxRepository   { return pgCommentTx{uow: u} }

func (u *pgUnitOfWork) active(op string) (*sql.Tx, error) {
	if u.done {
		return nil, common.NewStorageError(common.StorageUnexpected, op, ErrUnitOfWorkClosed)
	}
	return u.tx, nil
}

func (u *pgUnitOfWork) Commit() error {
	const op = "pgUnitOfWork.Commit"
	tx, err := u.active(op)
	if err != nil {
		return err
	}
	u.done = true
	if err := tx.Commit(); err != nil {
		u.observe(TxCommitFailed)
		translated := common.TranslateStorageError(op, err)
		if kind, _ := common.StorageKindOf(translated); kind == common.StorageUnexpected {
			return common.NewStorageError(common.StorageQuery, op, err)
		}
		return translated
	}
	u.observe(TxCommitted)
	return nil
}

func (u *pgUnitOfWork) Rollback() {
	if u.done {
		return
	}
	u.done = true
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		u.log.Warn().Err(err).Msg("unit of work rollback failed")
	}
	u.observe(TxRolledBack)
}

type pgSolutionTx struct{ uow *pgUnitOfWork }

func (r pgSolutionTx) Create(ctx context.Context, s *model.Solution) (uuid.UUID, error) {
	const op = "pgSolutionTx.Create"
	tx, err := r.uow.active(op)
	if err != nil {
		return uuid.Nil, err
	}
	query := `INSERT INTO solutions (id, problem_id, user_id, title, body_md, submit_url)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, query, s.ID, s.ProblemID, s.UserID, s.Title, s.BodyMD, s.SubmitURL); err != nil {
		return uuid.Nil, common.TranslateStorageError(op, err)
	}
	return s.ID, nil
}

func (r pgSolutionTx) Update(ctx context.Context, id uuid.UUID, title, bodyMD, submitURL string) error {
	const op = "pgSolutionTx.Update"
	tx, err := r.uow.active(op)
	if err != nil {
		return err
	}
	query := `UPDATE solutions SET title = $1, body_md = $2, submit_url = $3, updated_at = now()
	          WHERE id = $4`
	res, err := tx.ExecContext(ctx, query, title, bodyMD, submitURL, id)
	if err != nil {
		return common.TranslateStorageError(op, err)
	}
	return requireAffected(op, res)
}

func (r pgSolutionTx) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "pgSolutionTx.Delete"
	tx, err := r.uow.active(op)
	if err != nil {
		return err
	}
	// tags, votes and comments go with it through ON DELETE CASCADE
	res, err := tx.ExecContext(ctx, `DELETE FROM solutions WHERE id = $1`, id)
	if err != nil {
		return common.TranslateStorageError(op, err)
	}
	return requireAffected(op, res)
}

func (r pgSolutionTx) ReplaceTags(ctx context.Context, solutionID uuid.UUID, tagIDs []uuid.UUID) error {
	const op = "pgSolutionTx.ReplaceTags"
	tx, err := r.uow.active(op)
	if err != nil {
		return err
	}

	tagIDs = uniqueIDs(tagIDs)
	if len(tagIDs) == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM solution_tags WHERE solution_id = $1`, solutionID); err != nil {
			return common.TranslateStorageError(op, err)
		}
		return nil
	}

	args := make([]interface{}, 0, len(tagIDs)+1)
	args = append(args, solutionID)
	inList := make([]string, len(tagIDs))
	rows := make([]string, len(tagIDs))
	for i, id := range tagIDs {
		args = append(args, id)
		inList[i] = fmt.Sprintf("$%d", i+2)
		rows[i] = fmt.Sprintf("($1, $%d)", i+2)
	}

	deleteQuery := fmt.Sprintf(`DELETE FROM solution_tags WHERE solution_id = $1 AND tag_id NOT IN (%s)`,
		strings.Join(inList, ", "))
	if _, err := tx.ExecContext(ctx, deleteQuery, args...); err != nil {
		return common.TranslateStorageError(op, err)
	}

	insertQuery := fmt.Sprintf(`INSERT INTO solution_tags (solution_id, tag_id) VALUES %s
	          ON CONFLICT (solution_id, tag_id) DO NOTHING`, strings.Join(rows, ", "))
	if _, err := tx.ExecContext(ctx, insertQuery, args...); err != nil {
		return common.TranslateStorageError(op, err)
	}
	return nil
}

type pgTagTx struct{ uow *pgUnitOfWork }

func (r pgTagTx) Upsert(ctx context.Context, names []string) ([]uuid.UUID, error) {
	const op = "pgTagTx.Upsert"
	tx, err := r.uow.active(op)
	if err != nil {
		return nil, err
	}

	candidates := model.NormalizeTags(names)
	if len(candidates) == 0 {
		return []uuid.UUID{}, nil
	}

	args := make([]interface{}, len(candidates))
	values := make([]string, len(candidates))
	for i, name := range candidates {
		args[i] = name
		values[i] = fmt.Sprintf("($%d::text)", i+1)
	}
	query := fmt.Sprintf(`
        WITH input(name) AS (VALUES %s),
        ins AS (
            INSERT INTO tags (name)
            SELECT name FROM input
            ON CONFLICT (name) DO NOTHING
            RETURNING id, name
        )
        SELECT id, name FROM ins
        UNION ALL
        SELECT t.id, t.name FROM tags t JOIN input i ON t.name = i.name`, strings.Join(values, ", "))

	found := make(map[string]uuid.UUID, len(candidates))
	if err := queryTagIDs(ctx, tx, query, args, found); err != nil {
		return nil, common.TranslateStorageError(op, err)
	}

	// A name committed by a concurrent transaction after this statement's
	// snapshot is skipped by ON CONFLICT and invisible to the join. A fresh
	// statement sees it.
	var missing []string
	for _, name := range candidates {
		if _, ok := found[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		args = args[:0]
		inList := make([]string, len(missing))
		for i, name := range missing {
			args = append(args, name)
			inList[i] = fmt.Sprintf("$%d", i+1)
		}
		query = fmt.Sprintf(`SELECT id, name FROM tags WHERE name IN (%s)`, strings.Join(inList, ", "))
		if err := queryTagIDs(ctx, tx, query, args, found); err != nil {
			return nil, common.TranslateStorageError(op, err)
		}
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, name := range candidates {
		id, ok := found[name]
		if !ok {
			return nil, common.NewStorageError(common.StorageUnexpected, op, fmt.Errorf("tag %q was not resolved", name))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func queryTagIDs(ctx context.Context, tx *sql.Tx, query string, args []interface{}, into map[string]uuid.UUID) error {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return err
		}
		into[tag.Name] = tag.ID
	}
	return rows.Err()
}

type pgVoteTx struct{ uow *pgUnitOfWork }

func (r pgVoteTx) Like(ctx context.Context, userID string, solutionID uuid.UUID) error {
	const op = "pgVoteTx.Like"
	tx, err := r.uow.active(op)
	if err != nil {
		return err
	}
	query := `INSERT INTO solution_votes (user_id, solution_id) VALUES ($1, $2)
	          ON CONFLICT (user_id, solution_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, query, userID, solutionID); err != nil {
		return common.TranslateStorageError(op, err)
	}
	return nil
}

func (r pgVoteTx) Unlike(ctx context.Context, userID string, solutionID uuid.UUID) error {
	const op = "pgVoteTx.Unlike"
	tx, err := r.uow.active(op)
	if err != nil {
		return err
	}
	query := `DELETE FROM solution_votes WHERE user_id = $1 AND solution_id = $2`
	if _, err := tx.ExecContext(ctx, query, userID, solutionID); err != nil {
		return common.TranslateStorageError(op, err)
	}
	return nil
}

type pgCommentTx struct{ uow *pgUnitOfWork }

const commentColumns = `id, user_id, solution_id, body_md, created_at, updated_at`

func (r pgCommentTx) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	const op = "pgCommentTx.Create"
	tx, err := r.uow.active(op)
	if err != nil {
		return nil, err
	}
	query := `INSERT INTO comments (user_id, solution_id, body_md) VALUES ($1, $2, $3)
	          RETURNING ` + commentColumns
	created, err := scanComment(tx.QueryRowContext(ctx, query, c.UserID, c.SolutionID, c.BodyMD))
	if err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	return created, nil
}

func (r pgCommentTx) Update(ctx context.Context, id uuid.UUID, bodyMD string) (*model.Comment, error) {
	const op = "pgCommentTx.Update"
	tx, err := r.uow.active(op)
	if err != nil {
		return nil, err
	}
	query := `UPDATE comments SET body_md = $1, updated_at = now() WHERE id = $2
	          RETURNING ` + commentColumns
	updated, err := scanComment(tx.QueryRowContext(ctx, query, bodyMD, id))
	if err != nil {
		return nil, common.TranslateStorageError(op, err)
	}
	return updated, nil
}

func (r pgCommentTx) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "pgCommentTx.Delete"
	tx, err := r.uow.active(op)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return common.TranslateStorageError(op, err)
	}
	return requireAffected(op, res)
}

func scanComment(row *sql.Row) (*model.Comment, error) {
	c := &model.Comment{}
	if err := row.Scan(&c.ID, &c.UserID, &c.SolutionID, &c.BodyMD, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return common.TranslateStorageError(op, err)
	}
	if n == 0 {
		return common.NewStorageError(common.StorageNotFound, op, sql.ErrNoRows)
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
