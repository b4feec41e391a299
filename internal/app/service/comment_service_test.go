package service

import (
	"context"
	"solution_share/internal/common"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentFixture(t *testing.T) (*CommentService, uuid.UUID, *fakeStore) {
	t.Helper()
	solutions, store, reads := newSolutionFixture(t)
	id, err := solutions.CreateSolution(context.Background(), createReq("user-a", "dp"))
	require.NoError(t, err)
	return NewCommentService(store, reads), id, store
}

func TestCreateComment(t *testing.T) {
	svc, solutionID, store := newCommentFixture(t)

	view, err := svc.CreateComment(context.Background(), CreateCommentRequest{
		SolutionID: solutionID, UserID: "user-b", BodyMD: "nice trick",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, view.ID)
	assert.Equal(t, "bob", view.UserName)
	assert.Equal(t, "nice trick", view.BodyMD)
	assert.Len(t, store.snapshot().comments, 1)
}

func TestCreateCommentOnMissingSolutionIsBadRequest(t *testing.T) {
	svc, _, store := newCommentFixture(t)
	begins := store.begins

	_, err := svc.CreateComment(context.Background(), CreateCommentRequest{
		SolutionID: uuid.New(), UserID: "user-b", BodyMD: "hello",
	})
	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Equal(t, begins, store.begins)
}

func TestCreateCommentUnknownUser(t *testing.T) {
	svc, solutionID, _ := newCommentFixture(t)

	_, err := svc.CreateComment(context.Background(), CreateCommentRequest{
		SolutionID: solutionID, UserID: "ghost", BodyMD: "hello",
	})
	var de *common.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, common.AggregateUser, de.Aggregate)
	assert.Equal(t, common.KindNotFound, de.Kind)
}

func TestCreateCommentValidation(t *testing.T) {
	svc, solutionID, _ := newCommentFixture(t)
	for _, body := range []string{"", "  \n ", strings.Repeat("x", 2001)} {
		_, err := svc.CreateComment(context.Background(), CreateCommentRequest{
			SolutionID: solutionID, UserID: "user-b", BodyMD: body,
		})
		assert.ErrorIs(t, err, common.ErrBadRequest)
	}
}

func TestUpdateAndDeleteCommentGating(t *testing.T) {
	svc, solutionID, store := newCommentFixture(t)
	ctx := context.Background()
	view, err := svc.CreateComment(ctx, CreateCommentRequest{SolutionID: solutionID, UserID: "user-b", BodyMD: "first"})
	require.NoError(t, err)
	begins := store.begins

	_, err = svc.UpdateComment(ctx, UpdateCommentRequest{CommentID: uuid.New(), UserID: "user-a", BodyMD: "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.UpdateComment(ctx, UpdateCommentRequest{CommentID: view.ID, UserID: "user-a", BodyMD: "x"})
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = svc.DeleteComment(ctx, DeleteCommentRequest{CommentID: uuid.New(), UserID: "user-a"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.DeleteComment(ctx, DeleteCommentRequest{CommentID: view.ID, UserID: "user-a"})
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.Equal(t, begins, store.begins)

	updated, err := svc.UpdateComment(ctx, UpdateCommentRequest{CommentID: view.ID, UserID: "user-b", BodyMD: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.BodyMD)
	assert.Equal(t, "bob", updated.UserName)

	deleted, err := svc.DeleteComment(ctx, DeleteCommentRequest{CommentID: view.ID, UserID: "user-b"})
	require.NoError(t, err)
	assert.Equal(t, view.ID, deleted)
	assert.Empty(t, store.snapshot().comments)
}

func TestListComments(t *testing.T) {
	svc, solutionID, _ := newCommentFixture(t)
	ctx := context.Background()
	for _, body := range []string{"one", "two"} {
		_, err := svc.CreateComment(ctx, CreateCommentRequest{SolutionID: solutionID, UserID: "user-a", BodyMD: body})
		require.NoError(t, err)
	}

	comments, err := svc.ListComments(ctx, solutionID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	_, err = svc.ListComments(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}
