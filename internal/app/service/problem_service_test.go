package service

import (
	"context"
	"fmt"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProblemRepo struct {
	contests   map[string]model.Contest
	problems   []model.Problem
	lastSeries model.ContestSeries
	seriesErr  error
}

func (r *fakeProblemRepo) FindProblemByID(_ context.Context, id string) (*model.Problem, error) {
	for _, p := range r.problems {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, common.NewStorageError(common.StorageNotFound, "find problem", fmt.Errorf("no rows"))
}

func (r *fakeProblemRepo) FindContestByID(_ context.Context, id string) (*model.Contest, error) {
	c, ok := r.contests[id]
	if !ok {
		return nil, common.NewStorageError(common.StorageNotFound, "find contest", fmt.Errorf("no rows"))
	}
	return &c, nil
}

func (r *fakeProblemRepo) ListProblemsByContest(_ context.Context, contestID string) ([]model.Problem, error) {
	out := []model.Problem{}
	for _, p := range r.problems {
		if p.ContestID == contestID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProblemRepo) ListContestsBySeries(_ context.Context, series model.ContestSeries) ([]model.Contest, error) {
	r.lastSeries = series
	out := []model.Contest{}
	for _, c := range r.contests {
		if c.Series == string(series) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeProblemRepo) ListProblemsBySeries(_ context.Context, series model.ContestSeries) ([]model.Problem, error) {
	r.lastSeries = series
	if r.seriesErr != nil {
		return nil, r.seriesErr
	}
	out := []model.Problem{}
	for _, p := range r.problems {
		if c, ok := r.contests[p.ContestID]; ok && c.Series == string(series) {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestProblemService(t *testing.T) {
	repo := &fakeProblemRepo{
		contests: map[string]model.Contest{"abc001": {ID: "abc001", Series: "ABC", Title: "AtCoder Beginner Contest 001"}},
		problems: []model.Problem{
			{ID: "abc001_a", ContestID: "abc001", ProblemIndex: "A", Title: "Snow depth"},
			{ID: "abc001_b", ContestID: "abc001", ProblemIndex: "B", Title: "Visibility"},
		},
	}
	svc := NewProblemService(repo)
	ctx := context.Background()

	p, err := svc.GetProblem(ctx, "abc001_b")
	require.NoError(t, err)
	assert.Equal(t, "Visibility", p.Title)

	_, err = svc.GetProblem(ctx, "abc999_z")
	assert.ErrorIs(t, err, common.ErrNotFound)

	contest, problems, err := svc.ListProblemsByContest(ctx, "abc001")
	require.NoError(t, err)
	assert.Equal(t, "ABC", contest.Series)
	assert.Len(t, problems, 2)

	_, _, err = svc.ListProblemsByContest(ctx, "arc001")
	var de *common.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, common.AggregateContest, de.Aggregate)
}

func TestListProblemsBySeriesGroupsNewestContestFirst(t *testing.T) {
	repo := &fakeProblemRepo{
		contests: map[string]model.Contest{
			"abc300": {ID: "abc300", Series: "ABC"},
			"abc301": {ID: "abc301", Series: "ABC"},
			"arc170": {ID: "arc170", Series: "ARC"},
		},
		problems: []model.Problem{
			{ID: "abc300_h", ContestID: "abc300", ProblemIndex: "Ex"},
			{ID: "abc300_b", ContestID: "abc300", ProblemIndex: "B"},
			{ID: "abc300_a", ContestID: "abc300", ProblemIndex: "A"},
			{ID: "abc301_g", ContestID: "abc301", ProblemIndex: "G"},
			{ID: "abc301_a", ContestID: "abc301", ProblemIndex: "a"},
			{ID: "arc170_a", ContestID: "arc170", ProblemIndex: "A"},
		},
	}
	svc := NewProblemService(repo)

	groups, err := svc.ListProblemsBySeries(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, model.SeriesABC, repo.lastSeries)
	require.Len(t, groups, 2)
	assert.Equal(t, "abc301", groups[0].ContestID)
	assert.Equal(t, "abc300", groups[1].ContestID)

	var ids []string
	for _, p := range groups[1].Problems {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"abc300_a", "abc300_b", "abc300_h"}, ids)
	assert.Equal(t, "abc301_a", groups[0].Problems[0].ID)
}

func TestListBySeriesRequiresSeries(t *testing.T) {
	svc := NewProblemService(&fakeProblemRepo{})
	ctx := context.Background()

	_, err := svc.ListContestsBySeries(ctx, "  ")
	assert.ErrorIs(t, err, common.ErrBadRequest)
	_, err = svc.ListProblemsBySeries(ctx, "")
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestListContestsBySeries(t *testing.T) {
	repo := &fakeProblemRepo{contests: map[string]model.Contest{
		"agc001":    {ID: "agc001", Series: "AGC"},
		"typical90": {ID: "typical90", Series: "OTHER"},
	}}
	svc := NewProblemService(repo)

	contests, err := svc.ListContestsBySeries(context.Background(), "whatever")
	require.NoError(t, err)
	assert.Equal(t, model.SeriesOther, repo.lastSeries)
	require.Len(t, contests, 1)
	assert.Equal(t, "typical90", contests[0].ID)
}

func TestListProblemsBySeriesStorageFailure(t *testing.T) {
	repo := &fakeProblemRepo{seriesErr: common.NewStorageError(common.StorageConnection, "list", fmt.Errorf("refused"))}
	_, err := NewProblemService(repo).ListProblemsBySeries(context.Background(), "ARC")
	assert.ErrorIs(t, err, common.ErrInternalServer)
}
