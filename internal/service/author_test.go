package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorService_CreateAssignsFreshIDs(t *testing.T) {
	env := newTestEnv(t)

	a1 := env.author(t, "Ursula Le Guin")
	a2 := env.author(t, "Iain Banks")

	assert.NotZero(t, a1.ID)
	assert.NotEqual(t, a1.ID, a2.ID)
	assert.Zero(t, a1.BookCount)
}

func TestAuthorService_CreateValidates(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authors.Create(context.Background(), CreateAuthorInput{
		FullName:  "X",
		Biography: "short",
	})

	requireValidationOn(t, err, "FullName")
	requireValidationOn(t, err, "Biography")
}

func TestAuthorService_CreateRejectsWhitespaceOnly(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authors.Create(context.Background(), CreateAuthorInput{
		FullName:  "   ",
		Biography: "            ",
	})

	requireValidationOn(t, err, "FullName")
	requireValidationOn(t, err, "Biography")

	authors, err := env.authors.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestAuthorService_GetByIDIncludesBooks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.author(t, "Iain Banks")
	g := env.genre(t, "Space Opera")
	b := env.book(t, "Consider Phlebas", a.ID, 1987, g.ID)
	u := env.user(t, "reader")
	env.review(t, b.ID, u.ID, 4)

	got, err := env.authors.GetByID(ctx, a.ID)
	require.NoError(t, err)

	require.Len(t, got.Books, 1)
	assert.Equal(t, "Consider Phlebas", got.Books[0].Title)
	assert.Equal(t, "Iain Banks", got.Books[0].AuthorName)
	assert.Equal(t, []string{"Space Opera"}, got.Books[0].Genres)
	assert.Equal(t, 4.0, got.Books[0].AverageRating)
	assert.EqualValues(t, 1, got.Books[0].ReviewCount)
}

func TestAuthorService_UpdateRecomputesBookCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.author(t, "Iain Banks")
	g := env.genre(t, "Space Opera")
	env.book(t, "Consider Phlebas", a.ID, 1987, g.ID)
	env.book(t, "Excession", a.ID, 1996, g.ID)

	got, err := env.authors.Update(ctx, UpdateAuthorInput{
		ID:        a.ID,
		FullName:  "Iain M. Banks",
		Biography: "Scottish writer of the Culture series.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Iain M. Banks", got.FullName)
	assert.EqualValues(t, 2, got.BookCount)
}

func TestAuthorService_UpdateMissing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authors.Update(context.Background(), UpdateAuthorInput{
		ID:        404,
		FullName:  "Nobody Here",
		Biography: "A biography long enough to pass.",
	})

	requireNotFound(t, err, "Author")
}

func TestAuthorService_DeleteWithBooksIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.author(t, "Iain Banks")
	g := env.genre(t, "Space Opera")
	env.book(t, "Excession", a.ID, 1996, g.ID)

	err := env.authors.Delete(ctx, a.ID)
	requireBusinessRule(t, err)
	assert.True(t, strings.Contains(err.Error(), "1 book(s)"), err.Error())

	_, err = env.authors.GetByID(ctx, a.ID)
	assert.NoError(t, err)
}

func TestAuthorService_DeleteThenGetIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.author(t, "Iain Banks")

	require.NoError(t, env.authors.Delete(ctx, a.ID))

	_, err := env.authors.GetByID(ctx, a.ID)
	requireNotFound(t, err, "Author")

	requireNotFound(t, env.authors.Delete(ctx, a.ID), "Author")
}

func TestAuthorService_ListOrdersByName(t *testing.T) {
	env := newTestEnv(t)

	env.author(t, "Zadie Smith")
	env.author(t, "Anne Carson")

	got, err := env.authors.List(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Anne Carson", got[0].FullName)
	assert.Equal(t, "Zadie Smith", got[1].FullName)
}
