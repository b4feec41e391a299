package service

import (
	"context"
	"fmt"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
	"solution_share/internal/domain/repository"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type voteKey struct {
	userID     string
	solutionID uuid.UUID
}

type storeState struct {
	solutions    map[uuid.UUID]model.Solution
	tags         map[string]uuid.UUID
	solutionTags map[uuid.UUID]map[uuid.UUID]bool
	votes        map[voteKey]bool
	comments     map[uuid.UUID]model.Comment
	problems     map[string]bool
	users        map[string]string
}

func newStoreState() storeState {
	return storeState{
		solutions:    map[uuid.UUID]model.Solution{},
		tags:         map[string]uuid.UUID{},
		solutionTags: map[uuid.UUID]map[uuid.UUID]bool{},
		votes:        map[voteKey]bool{},
		comments:     map[uuid.UUID]model.Comment{},
		problems:     map[string]bool{},
		users:        map[string]string{},
	}
}

func (s storeState) clone() storeState {
	c := newStoreState()
	for k, v := range s.solutions {
		c.solutions[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = v
	}
	for k, set := range s.solutionTags {
		cp := map[uuid.UUID]bool{}
		for id := range set {
			cp[id] = true
		}
		c.solutionTags[k] = cp
	}
	for k := range s.votes {
		c.votes[k] = true
	}
	for k, v := range s.comments {
		c.comments[k] = v
	}
	for k := range s.problems {
		c.problems[k] = true
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// fakeStore is an in-memory database. A unit of work edits a private copy
// that replaces the committed state only on Commit.
type fakeStore struct {
	mu        sync.Mutex
	state     storeState
	begins    int
	commits   int
	rollbacks int
	// failOn names a sub-repository call ("solutions.replaceTags", ...) that
	// fails with a query error.
	failOn   string
	failRead error
}

func newFakeStore() *fakeStore {
	return &fakeStore{state: newStoreState()}
}

func (f *fakeStore) addProblem(id string) {
	f.state.problems[id] = true
}

func (f *fakeStore) addUser(id, name string) {
	f.state.users[id] = name
}

func (f *fakeStore) snapshot() storeState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

func (f *fakeStore) tagNames(solutionID uuid.UUID) []string {
	st := f.snapshot()
	names := []string{}
	for name, id := range st.tags {
		if st.solutionTags[solutionID][id] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (f *fakeStore) Begin(context.Context) (repository.UnitOfWork, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.begins++
	return &fakeUnitOfWork{store: f, work: f.state.clone()}, nil
}

type fakeUnitOfWork struct {
	store *fakeStore
	work  storeState
	done  bool
}

func (u *fakeUnitOfWork) check(call string) error {
	if u.done {
		return common.NewStorageError(common.StorageUnexpected, call, repository.ErrUnitOfWorkClosed)
	}
	if u.store.failOn == call {
		return common.NewStorageError(common.StorageQuery, call, fmt.Errorf("injected failure"))
	}
	return nil
}

func (u *fakeUnitOfWork) Solutions() repository.SolutionTxRepository { return fakeSolutionTx{u} }
func (u *fakeUnitOfWork) Tags() repository.TagTxRepository           { return fakeTagTx{u} }
func (u *fakeUnitOfWork) Votes() repository.VoteTxRepository         { return fakeVoteTx{u} }
func (u *fakeUnitOfWork) Comments() repository.CommentTxRepository   { return fakeCommentTx{u} }

func (u *fakeUnitOfWork) Commit() error {
	if err := u.check("commit"); err != nil {
		return err
	}
	u.done = true
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.state = u.work
	u.store.commits++
	return nil
}

func (u *fakeUnitOfWork) Rollback() {
	if u.done {
		return
	}
	u.done = true
	u.store.mu.Lock()
	u.store.rollbacks++
	u.store.mu.Unlock()
}

type fakeSolutionTx struct{ u *fakeUnitOfWork }

func (r fakeSolutionTx) Create(_ context.Context, s *model.Solution) (uuid.UUID, error) {
	if err := r.u.check("solutions.create"); err != nil {
		return uuid.Nil, err
	}
	if _, ok := r.u.work.solutions[s.ID]; ok {
		return uuid.Nil, common.NewStorageError(common.StorageUniqueViolation, "solutions.create", fmt.Errorf("duplicate id"))
	}
	r.u.work.solutions[s.ID] = *s
	return s.ID, nil
}

func (r fakeSolutionTx) Update(_ context.Context, id uuid.UUID, title, bodyMD, submitURL string) error {
	if err := r.u.check("solutions.update"); err != nil {
		return err
	}
	s, ok := r.u.work.solutions[id]
	if !ok {
		return common.NewStorageError(common.StorageNotFound, "solutions.update", fmt.Errorf("no rows"))
	}
	s.Title, s.BodyMD, s.SubmitURL = title, bodyMD, submitURL
	s.UpdatedAt = time.Now().UTC()
	r.u.work.solutions[id] = s
	return nil
}

func (r fakeSolutionTx) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.u.check("solutions.delete"); err != nil {
		return err
	}
	if _, ok := r.u.work.solutions[id]; !ok {
		return common.NewStorageError(common.StorageNotFound, "solutions.delete", fmt.Errorf("no rows"))
	}
	delete(r.u.work.solutions, id)
	delete(r.u.work.solutionTags, id)
	for k := range r.u.work.votes {
		if k.solutionID == id {
			delete(r.u.work.votes, k)
		}
	}
	for cid, c := range r.u.work.comments {
		if c.SolutionID == id {
			delete(r.u.work.comments, cid)
		}
	}
	return nil
}

func (r fakeSolutionTx) ReplaceTags(_ context.Context, solutionID uuid.UUID, tagIDs []uuid.UUID) error {
	if err := r.u.check("solutions.replaceTags"); err != nil {
		return err
	}
	set := map[uuid.UUID]bool{}
	for _, id := range tagIDs {
		set[id] = true
	}
	r.u.work.solutionTags[solutionID] = set
	return nil
}

type fakeTagTx struct{ u *fakeUnitOfWork }

func (r fakeTagTx) Upsert(_ context.Context, names []string) ([]uuid.UUID, error) {
	if err := r.u.check("tags.upsert"); err != nil {
		return nil, err
	}
	ids := []uuid.UUID{}
	for _, name := range model.NormalizeTags(names) {
		id, ok := r.u.work.tags[name]
		if !ok {
			id = uuid.New()
			r.u.work.tags[name] = id
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeVoteTx struct{ u *fakeUnitOfWork }

func (r fakeVoteTx) Like(_ context.Context, userID string, solutionID uuid.UUID) error {
	if err := r.u.check("votes.like"); err != nil {
		return err
	}
	r.u.work.votes[voteKey{userID, solutionID}] = true
	return nil
}

func (r fakeVoteTx) Unlike(_ context.Context, userID string, solutionID uuid.UUID) error {
	if err := r.u.check("votes.unlike"); err != nil {
		return err
	}
	delete(r.u.work.votes, voteKey{userID, solutionID})
	return nil
}

type fakeCommentTx struct{ u *fakeUnitOfWork }

func (r fakeCommentTx) Create(_ context.Context, c *model.Comment) (*model.Comment, error) {
	if err := r.u.check("comments.create"); err != nil {
		return nil, err
	}
	created := *c
	created.ID = uuid.New()
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	r.u.work.comments[created.ID] = created
	return &created, nil
}

func (r fakeCommentTx) Update(_ context.Context, id uuid.UUID, bodyMD string) (*model.Comment, error) {
	if err := r.u.check("comments.update"); err != nil {
		return nil, err
	}
	c, ok := r.u.work.comments[id]
	if !ok {
		return nil, common.NewStorageError(common.StorageNotFound, "comments.update", fmt.Errorf("no rows"))
	}
	c.BodyMD = bodyMD
	c.UpdatedAt = time.Now().UTC()
	r.u.work.comments[id] = c
	return &c, nil
}

func (r fakeCommentTx) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.u.check("comments.delete"); err != nil {
		return err
	}
	if _, ok := r.u.work.comments[id]; !ok {
		return common.NewStorageError(common.StorageNotFound, "comments.delete", fmt.Errorf("no rows"))
	}
	delete(r.u.work.comments, id)
	return nil
}

// fakeReads answers from the committed state only.
type fakeReads struct {
	store *fakeStore
	calls []string
}

func (r *fakeReads) state(call string) (storeState, error) {
	r.calls = append(r.calls, call)
	if r.store.failRead != nil {
		return storeState{}, r.store.failRead
	}
	return r.store.snapshot(), nil
}

func (r *fakeReads) SolutionExists(_ context.Context, id uuid.UUID) (bool, error) {
	st, err := r.state("SolutionExists")
	if err != nil {
		return false, err
	}
	_, ok := st.solutions[id]
	return ok, nil
}

func (r *fakeReads) GetSolutionOwner(_ context.Context, id uuid.UUID) (string, error) {
	st, err := r.state("GetSolutionOwner")
	if err != nil {
		return "", err
	}
	s, ok := st.solutions[id]
	if !ok {
		return "", common.NewStorageError(common.StorageNotFound, "GetSolutionOwner", fmt.Errorf("no rows"))
	}
	return s.UserID, nil
}

func (r *fakeReads) CommentExists(_ context.Context, id uuid.UUID) (bool, error) {
	st, err := r.state("CommentExists")
	if err != nil {
		return false, err
	}
	_, ok := st.comments[id]
	return ok, nil
}

func (r *fakeReads) GetCommentOwner(_ context.Context, id uuid.UUID) (string, error) {
	st, err := r.state("GetCommentOwner")
	if err != nil {
		return "", err
	}
	c, ok := st.comments[id]
	if !ok {
		return "", common.NewStorageError(common.StorageNotFound, "GetCommentOwner", fmt.Errorf("no rows"))
	}
	return c.UserID, nil
}

func (r *fakeReads) ProblemExists(_ context.Context, problemID string) (bool, error) {
	st, err := r.state("ProblemExists")
	if err != nil {
		return false, err
	}
	return st.problems[problemID], nil
}

func (r *fakeReads) GetUserDisplayName(_ context.Context, userID string) (string, error) {
	st, err := r.state("GetUserDisplayName")
	if err != nil {
		return "", err
	}
	name, ok := st.users[userID]
	if !ok {
		return "", common.NewStorageError(common.StorageNotFound, "GetUserDisplayName", fmt.Errorf("no rows"))
	}
	return name, nil
}

func (r *fakeReads) UserNameExists(_ context.Context, userName string) (bool, error) {
	st, err := r.state("UserNameExists")
	if err != nil {
		return false, err
	}
	for _, name := range st.users {
		if name == userName {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReads) TokensValidAfter(context.Context, string) (time.Time, error) {
	return time.Time{}, nil
}

func (r *fakeReads) GetSolution(_ context.Context, id uuid.UUID) (*model.SolutionDetails, error) {
	st, err := r.state("GetSolution")
	if err != nil {
		return nil, err
	}
	s, ok := st.solutions[id]
	if !ok {
		return nil, common.NewStorageError(common.StorageNotFound, "GetSolution", fmt.Errorf("no rows"))
	}
	return &model.SolutionDetails{
		ID: s.ID, Title: s.Title, ProblemID: s.ProblemID, UserID: s.UserID,
		UserName: st.users[s.UserID], Tags: r.store.tagNames(id), BodyMD: s.BodyMD,
		SubmitURL: s.SubmitURL, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}, nil
}

func (r *fakeReads) list(st storeState, keep func(model.Solution) bool) []model.SolutionListItem {
	items := []model.SolutionListItem{}
	for _, s := range st.solutions {
		if !keep(s) {
			continue
		}
		var votes int64
		for k := range st.votes {
			if k.solutionID == s.ID {
				votes++
			}
		}
		items = append(items, model.SolutionListItem{ID: s.ID, Title: s.Title, ProblemID: s.ProblemID,
			UserID: s.UserID, UserName: st.users[s.UserID], VotesCount: votes, CreatedAt: s.CreatedAt})
	}
	return items
}

func (r *fakeReads) ListSolutionsByProblem(_ context.Context, problemID string, _ model.SolutionListSort) ([]model.SolutionListItem, error) {
	st, err := r.state("ListSolutionsByProblem")
	if err != nil {
		return nil, err
	}
	return r.list(st, func(s model.Solution) bool { return s.ProblemID == problemID }), nil
}

func (r *fakeReads) ListSolutionsByUserName(_ context.Context, userName string, _ model.SolutionListSort) ([]model.SolutionListItem, error) {
	st, err := r.state("ListSolutionsByUserName")
	if err != nil {
		return nil, err
	}
	return r.list(st, func(s model.Solution) bool { return st.users[s.UserID] == userName }), nil
}

func (r *fakeReads) CountVotes(_ context.Context, solutionID uuid.UUID) (int64, error) {
	st, err := r.state("CountVotes")
	if err != nil {
		return 0, err
	}
	var n int64
	for k := range st.votes {
		if k.solutionID == solutionID {
			n++
		}
	}
	return n, nil
}

func (r *fakeReads) HasVoted(_ context.Context, userID string, solutionID uuid.UUID) (bool, error) {
	st, err := r.state("HasVoted")
	if err != nil {
		return false, err
	}
	return st.votes[voteKey{userID, solutionID}], nil
}

func (r *fakeReads) ListComments(_ context.Context, solutionID uuid.UUID) ([]model.CommentView, error) {
	st, err := r.state("ListComments")
	if err != nil {
		return nil, err
	}
	views := []model.CommentView{}
	for _, c := range st.comments {
		if c.SolutionID == solutionID {
			views = append(views, model.CommentView{Comment: c, UserName: st.users[c.UserID]})
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.Before(views[j].CreatedAt) })
	return views, nil
}

type sequentialIDs struct{}

func (sequentialIDs) NewSolutionID() (uuid.UUID, error) { return uuid.NewV7() }
