package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreService_SciFiLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	g, err := env.genres.Create(ctx, CreateGenreInput{Name: "Sci-Fi"})
	require.NoError(t, err)
	assert.Zero(t, g.BookCount)

	_, err = env.genres.Create(ctx, CreateGenreInput{Name: "Sci-Fi"})
	requireValidationOn(t, err, "Name")

	a := env.author(t, "Stanislaw Lem")
	env.book(t, "Solaris", a.ID, 1961, g.ID)

	err = env.genres.Delete(ctx, g.ID)
	requireBusinessRule(t, err)

	inUse, err := env.genres.IsInUse(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestGenreService_NameUniquenessIsCaseSensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.genre(t, "Horror")

	_, err := env.genres.Create(ctx, CreateGenreInput{Name: "horror"})
	assert.NoError(t, err)
}

func TestGenreService_CreateValidatesName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"", "A", "Sci-Fi 2", "Noir!"} {
		_, err := env.genres.Create(ctx, CreateGenreInput{Name: name})
		requireValidationOn(t, err, "Name")
	}

	_, err := env.genres.Create(ctx, CreateGenreInput{Name: "Научная фантастика"})
	assert.NoError(t, err)
}

func TestGenreService_DeleteUnusedThenNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	g := env.genre(t, "Poetry")

	require.NoError(t, env.genres.Delete(ctx, g.ID))

	_, err := env.genres.GetByID(ctx, g.ID)
	requireNotFound(t, err, "Genre")
}

func TestGenreService_UpdateKeepsOwnName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	g := env.genre(t, "Poetry")
	env.genre(t, "Drama")

	got, err := env.genres.Update(ctx, UpdateGenreInput{ID: g.ID, Name: "Poetry"})
	require.NoError(t, err)
	assert.Equal(t, "Poetry", got.Name)

	_, err = env.genres.Update(ctx, UpdateGenreInput{ID: g.ID, Name: "Drama"})
	requireValidationOn(t, err, "Name")

	_, err = env.genres.Update(ctx, UpdateGenreInput{ID: 999, Name: "Essay"})
	requireNotFound(t, err, "Genre")
}

func TestGenreService_PopularOrdersByBookCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.author(t, "Some Author")
	fantasy := env.genre(t, "Fantasy")
	mystery := env.genre(t, "Mystery")
	env.genre(t, "Western")

	env.book(t, "Book One", a.ID, 2001, fantasy.ID, mystery.ID)
	env.book(t, "Book Two", a.ID, 2002, fantasy.ID)

	got, err := env.genres.Popular(ctx, 2)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Fantasy", got[0].Name)
	assert.EqualValues(t, 2, got[0].BookCount)
	assert.Equal(t, "Mystery", got[1].Name)
	assert.EqualValues(t, 1, got[1].BookCount)

	_, err = env.genres.Popular(ctx, 0)
	requireValidationOn(t, err, "Count")
	_, err = env.genres.Popular(ctx, 21)
	requireValidationOn(t, err, "Count")
}

func TestGenreService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.genre(t, "Science Fiction")
	env.genre(t, "Political Science")
	env.genre(t, "Romance")

	got, err := env.genres.Search(ctx, "  SCIENCE ")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Political Science", got[0].Name)
	assert.Equal(t, "Science Fiction", got[1].Name)

	_, err = env.genres.Search(ctx, "s")
	requireValidationOn(t, err, "SearchTerm")
	_, err = env.genres.Search(ctx, "   ")
	requireValidationOn(t, err, "SearchTerm")
}

func TestGenreService_GetByIDListsBooks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.author(t, "Some Author")
	g := env.genre(t, "Fantasy")
	env.book(t, "Book One", a.ID, 2001, g.ID)

	got, err := env.genres.GetByID(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, got.Books, 1)
	assert.Equal(t, "Some Author", got.Books[0].AuthorName)

	byName, err := env.genres.GetByName(ctx, "Fantasy")
	require.NoError(t, err)
	assert.EqualValues(t, 1, byName.BookCount)

	_, err = env.genres.GetByName(ctx, "fantasy")
	requireNotFound(t, err, "Genre")
}

func TestGenreService_ListIsAlphabetical(t *testing.T) {
	env := newTestEnv(t)

	env.genre(t, "Thriller")
	env.genre(t, "Biography")

	got, err := env.genres.List(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Biography", got[0].Name)
	assert.Equal(t, "Thriller", got[1].Name)
}
