package child_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/child"
	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/core/progress"
	inmemdb "github.com/bassiony1/public-ANEES/storage/database/inmem"
	"github.com/bassiony1/public-ANEES/tests"
)

func setup(t *testing.T) (*child.Service, *progress.Service) {
	db := inmemdb.Open()
	validate, _ := testutil.NewValidator()

	childRepo := inmemdb.NewChildRepository(db)
	levelSvc := level.NewService(nil, inmemdb.NewLevelRepository(db), validate)
	prg := progress.NewService(nil, inmemdb.NewChildLevelRepository(db), levelSvc, childRepo, validate, testutil.NewLogger(t))
	return child.NewService(nil, childRepo, prg, levelSvc, validate), prg
}

func submit(t *testing.T, prg *progress.Service, childID string, num int, cat level.Category, score int) {
	t.Helper()
	_, err := prg.Submit(context.Background(), childID, num, cat, progress.ScoreSubmission{Score: &score})
	require.NoError(t, err)
}

func TestService_Create(t *testing.T) {
	svc, prg := setup(t)
	ctx := context.Background()
	testutil.CreateLevel(t, prg.AddLevel, 1, testutil.Games(true, true, true))

	c, err := svc.Create(ctx, child.NewChild{Username: "  hero ", Email: "HERO@test.eg", Gender: "f"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "hero", c.Username)
	assert.Equal(t, "hero@test.eg", c.Email)
	assert.Equal(t, child.GenderFemale, c.Gender)

	// level 1 was opened
	_, err = prg.Get(ctx, c.ID, 1)
	assert.NoError(t, err)

	tests := []struct {
		name  string
		nc    child.NewChild
		field string
	}{
		{name: "duplicate username", nc: child.NewChild{Username: "hero"}, field: "username"},
		{name: "duplicate ID", nc: child.NewChild{ID: c.ID, Username: "other"}, field: "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.nc)
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			require.True(t, ok, "Create() error = %v", err)
			assert.Equal(t, tt.field, vErr.Fields[0].Field)
		})
	}

	invalid := []child.NewChild{
		{Username: ""},
		{Username: "not valid"},
		{Username: "kid", ID: "not-a-uuid"},
		{Username: "kid", Gender: "X"},
		{Username: "kid", Email: "nope"},
	}
	for _, nc := range invalid {
		_, err = svc.Create(ctx, nc)
		assert.Error(t, err, nc)
	}
}

func TestService_Get(t *testing.T) {
	svc, _ := setup(t)
	c := testutil.CreateChild(t, svc, "kid")

	got, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = svc.Get(context.Background(), "lol")
	assert.Equal(t, child.ErrNotFound, errors.Cause(err))
	_, err = svc.Get(context.Background(), "5e7f7e4c-4b0e-4b5e-9a3e-5d7b0b6f1c11")
	assert.Equal(t, child.ErrNotFound, errors.Cause(err))
}

func TestService_Update(t *testing.T) {
	svc, _ := setup(t)
	c := testutil.CreateChild(t, svc, "kid")

	got, err := svc.Update(context.Background(), c.ID, child.UpdateChild{Picture: " https://cdn.test/kid.png "})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/kid.png", got.Picture)

	_, err = svc.Update(context.Background(), c.ID, child.UpdateChild{Picture: "not a url"})
	assert.Error(t, err)
}

func TestService_ProfileAndWords(t *testing.T) {
	svc, prg := setup(t)
	ctx := context.Background()

	testutil.CreateLevel(t, prg.AddLevel, 1, testutil.Games(true, true, true))
	lvl2 := testutil.Games(true, false, true)
	lvl2.Receptive.Answer = "banana"
	testutil.CreateLevel(t, prg.AddLevel, 2, lvl2)
	testutil.CreateLevel(t, prg.AddLevel, 3, testutil.Games(true, true, true))

	c := testutil.CreateChild(t, svc, "kid")

	p, err := svc.Profile(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CurrentLevel)
	assert.Equal(t, child.Accuracy{}, p.Accuracy)
	assert.Zero(t, p.JoinDurationInDays)

	words, err := svc.Words(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, child.Words{Receptive: []string{}, Expressive: []string{}}, words)

	submit(t, prg, c.ID, 1, level.Receptive, 90)
	submit(t, prg, c.ID, 1, level.Expressive, 60)
	submit(t, prg, c.ID, 1, level.Social, 30)
	submit(t, prg, c.ID, 2, level.Receptive, 70)
	submit(t, prg, c.ID, 2, level.Social, 50)
	submit(t, prg, c.ID, 3, level.Receptive, 10) // level 3 is still open

	p, err = svc.Profile(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, 3, p.CurrentLevel)
	assert.Equal(t, child.Accuracy{Receptive: 80, Expressive: 80, Social: 40}, p.Accuracy)

	words, err = svc.Words(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana", "apple"}, words.Receptive)
	assert.Equal(t, []string{"cat"}, words.Expressive) // level 2 has no expressive game
}
