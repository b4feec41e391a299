package service

import (
	"context"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
	"solution_share/internal/domain/repository"
	"sort"
	"strings"
)

// ProblemService serves the read-only catalog that the import job fills.
type ProblemService struct {
	problemRepo repository.ProblemRepository
}

func NewProblemService(problemRepo repository.ProblemRepository) *ProblemService {
	return &ProblemService{problemRepo: problemRepo}
}

func (s *ProblemService) GetProblem(ctx context.Context, problemID string) (*model.Problem, error) {
	problem, err := s.problemRepo.FindProblemByID(ctx, problemID)
	if err != nil {
		return nil, common.FromStorage(common.AggregateProblem, err)
	}
	return problem, nil
}

// ListProblemsByContest returns the contest's problems ordered by index.
func (s *ProblemService) ListProblemsByContest(ctx context.Context, contestID string) (*model.Contest, []model.Problem, error) {
	contest, err := s.problemRepo.FindContestByID(ctx, contestID)
	if err != nil {
		return nil, nil, common.FromStorage(common.AggregateContest, err)
	}
	problems, err := s.problemRepo.ListProblemsByContest(ctx, contest.ID)
	if err != nil {
		return nil, nil, common.FromStorage(common.AggregateProblem, err)
	}
	sortByProblemIndex(problems)
	return contest, problems, nil
}

func parseSeries(raw string) (model.ContestSeries, error) {
	if strings.TrimSpace(raw) == "" {
		return "", common.BadRequest(common.AggregateContest, "series is required")
	}
	return model.ParseContestSeries(raw), nil
}

// ListContestsBySeries returns the series' contests, newest first.
func (s *ProblemService) ListContestsBySeries(ctx context.Context, rawSeries string) ([]model.Contest, error) {
	series, err := parseSeries(rawSeries)
	if err != nil {
		return nil, err
	}
	contests, err := s.problemRepo.ListContestsBySeries(ctx, series)
	if err != nil {
		return nil, common.FromStorage(common.AggregateContest, err)
	}
	return contests, nil
}

// ListProblemsBySeries groups the series' problems by contest. Contests come
// newest first and each contest's problems are ordered by index.
func (s *ProblemService) ListProblemsBySeries(ctx context.Context, rawSeries string) ([]model.ContestProblems, error) {
	series, err := parseSeries(rawSeries)
	if err != nil {
		return nil, err
	}
	problems, err := s.problemRepo.ListProblemsBySeries(ctx, series)
	if err != nil {
		return nil, common.FromStorage(common.AggregateProblem, err)
	}

	byContest := map[string][]model.Problem{}
	for _, p := range problems {
		byContest[p.ContestID] = append(byContest[p.ContestID], p)
	}
	groups := make([]model.ContestProblems, 0, len(byContest))
	for contestID, ps := range byContest {
		sortByProblemIndex(ps)
		groups = append(groups, model.ContestProblems{ContestID: contestID, Problems: ps})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ContestID > groups[j].ContestID })
	return groups, nil
}

// sortByProblemIndex orders case-insensitively with "Ex" always last.
func sortByProblemIndex(problems []model.Problem) {
	sort.SliceStable(problems, func(i, j int) bool {
		a := strings.ToLower(problems[i].ProblemIndex)
		b := strings.ToLower(problems[j].ProblemIndex)
		if a == "ex" || b == "ex" {
			return b == "ex" && a != "ex"
		}
		return a < b
	})
}
