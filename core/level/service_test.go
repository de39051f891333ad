package level_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassiony1/public-ANEES/core/level"
	inmemdb "github.com/bassiony1/public-ANEES/storage/database/inmem"
	"github.com/bassiony1/public-ANEES/tests"
)

func setup() *level.Service {
	validate, _ := testutil.NewValidator()
	return level.NewService(nil, inmemdb.NewLevelRepository(inmemdb.Open()), validate)
}

func TestService_Create(t *testing.T) {
	svc := setup()
	ctx := context.Background()

	lvl, err := svc.Create(ctx, level.NewLevel{Num: 1, Games: testutil.Games(true, false, true)})
	require.NoError(t, err)
	assert.Equal(t, 1, lvl.Num)
	assert.False(t, lvl.CreatedAt.IsZero())
	assert.True(t, lvl.HasGame(level.Receptive))
	assert.False(t, lvl.HasGame(level.Expressive))
	assert.True(t, lvl.HasGame(level.Social))
	assert.Nil(t, lvl.Game(level.Expressive))

	// images & messages are numbered in order
	require.Len(t, lvl.Receptive.Images, 2)
	assert.Equal(t, 1, lvl.Receptive.Images[0].ID)
	assert.Equal(t, 2, lvl.Receptive.Images[1].ID)
	assert.Equal(t, 2, lvl.Social.Messages[1].ID)

	_, err = svc.Create(ctx, level.NewLevel{Num: 1})
	assert.Equal(t, level.ErrExists, errors.Cause(err))

	tests := []struct {
		name  string
		nl    level.NewLevel
		field string
	}{
		{name: "no number", nl: level.NewLevel{}, field: "level_num"},
		{name: "negative number", nl: level.NewLevel{Num: -1}, field: "level_num"},
		{name: "receptive without answer", nl: level.NewLevel{Num: 2, Games: level.Games{Receptive: &level.ReceptiveGame{}}}, field: "answer"},
		{name: "expressive without image", nl: level.NewLevel{Num: 2, Games: level.Games{Expressive: &level.ExpressiveGame{Answer: "cat"}}}, field: "img"},
		{name: "social without video", nl: level.NewLevel{Num: 2, Games: level.Games{Social: &level.SocialGame{}}}, field: "video"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.nl)
			vErrs, ok := errors.Cause(err).(validator.ValidationErrors)
			require.True(t, ok, "Create() error = %v", err)
			assert.Equal(t, tt.field, vErrs[0].Field())
		})
	}
}

func TestService_NextAndQuery(t *testing.T) {
	svc := setup()
	ctx := context.Background()

	for _, num := range []int{3, 1, 7} {
		_, err := svc.Create(ctx, level.NewLevel{Num: num})
		require.NoError(t, err)
	}

	levels, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	nums := make([]int, 0, len(levels))
	for _, lvl := range levels {
		nums = append(nums, lvl.Num)
	}
	assert.Equal(t, []int{1, 3, 7}, nums)

	next, err := svc.Next(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, next.Num)

	next, err = svc.Next(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, next.Num)

	_, err = svc.Next(ctx, 7)
	assert.Equal(t, level.ErrNotFound, errors.Cause(err))

	_, err = svc.Get(ctx, 2)
	assert.Equal(t, level.ErrNotFound, errors.Cause(err))
}

func TestService_SetGames(t *testing.T) {
	svc := setup()
	ctx := context.Background()

	_, err := svc.Create(ctx, level.NewLevel{Num: 1, Games: testutil.Games(true, true, true)})
	require.NoError(t, err)

	lvl, err := svc.SetGames(ctx, 1, level.UpdateGames{Games: testutil.Games(false, true, false)})
	require.NoError(t, err)
	assert.False(t, lvl.HasGame(level.Receptive))
	assert.True(t, lvl.HasGame(level.Expressive))
	assert.False(t, lvl.HasGame(level.Social))

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, lvl, got)

	_, err = svc.SetGames(ctx, 2, level.UpdateGames{})
	assert.Equal(t, level.ErrNotFound, errors.Cause(err))
}

func TestParseCategory(t *testing.T) {
	for _, cat := range level.Categories {
		got, err := level.ParseCategory(string(cat))
		require.NoError(t, err)
		assert.Equal(t, cat, got)
	}
	_, err := level.ParseCategory("lol")
	assert.Equal(t, level.ErrUnknownCategory, err)
}
