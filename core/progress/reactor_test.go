package progress_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/core/progress"
	"github.com/bassiony1/public-ANEES/tests"
)

func TestService_AddLevel(t *testing.T) {
	d := setup(t)
	ctx := context.Background()

	kid1 := testutil.CreateChild(t, d.children, "kid1")
	kid2 := testutil.CreateChild(t, d.children, "kid2")

	// no level yet: nothing was opened
	rows, err := d.progress.QueryForChild(ctx, kid1.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	// level 1 is opened for every child
	_, n, err := d.progress.AddLevel(ctx, level.NewLevel{Num: 1, Games: testutil.Games(true, true, true)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	getRow(t, d, kid1.ID, 1)
	getRow(t, d, kid2.ID, 1)
	assert.Contains(t, d.logger.Messages, "[INFO] level 1 opened for 2 children")

	// children created afterwards get level 1 straight away
	kid3 := testutil.CreateChild(t, d.children, "kid3")
	getRow(t, d, kid3.ID, 1)

	for _, cat := range level.Categories {
		submit(t, d, kid1.ID, 1, cat, 100)
	}

	// level 2 is opened for the children who completed level 1 only
	_, n, err = d.progress.AddLevel(ctx, level.NewLevel{Num: 2, Games: testutil.Games(true, true, true)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	getRow(t, d, kid1.ID, 2)
	_, err = d.progress.Get(ctx, kid2.ID, 2)
	assert.Equal(t, progress.ErrNotFound, errors.Cause(err))

	// duplicates are refused
	_, _, err = d.progress.AddLevel(ctx, level.NewLevel{Num: 2})
	assert.Equal(t, level.ErrExists, errors.Cause(err))
}

func TestService_AddLevel_outOfOrder(t *testing.T) {
	d := setup(t)
	ctx := context.Background()

	testutil.CreateLevel(t, d.progress.AddLevel, 1, testutil.Games(true, true, true))
	kid := testutil.CreateChild(t, d.children, "kid")
	submit(t, d, kid.ID, 1, level.Receptive, 100)
	submit(t, d, kid.ID, 1, level.Expressive, 100)
	assert.Equal(t, progress.AllLevelsFinished, submit(t, d, kid.ID, 1, level.Social, 100).Outcome)

	// level 3 only looks at level 2, which does not exist
	_, n, err := d.progress.AddLevel(ctx, level.NewLevel{Num: 3, Games: testutil.Games(true, true, true)})
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = d.progress.Get(ctx, kid.ID, 3)
	assert.Equal(t, progress.ErrNotFound, errors.Cause(err))
}

func TestService_AddLevel_skipsExistingRows(t *testing.T) {
	d := setup(t)
	ctx := context.Background()

	testutil.CreateLevel(t, d.progress.AddLevel, 1, testutil.Games(true, false, false))
	kid := testutil.CreateChild(t, d.children, "kid")

	// level 5 is opened for kid when they pass level 1
	testutil.CreateLevel(t, d.progress.AddLevel, 5, testutil.Games(true, false, false))
	submit(t, d, kid.ID, 1, level.Receptive, 100)
	getRow(t, d, kid.ID, 5)

	// level 2 is then created: kid gets it, even though level 5 was opened before
	_, n, err := d.progress.AddLevel(ctx, level.NewLevel{Num: 2, Games: testutil.Games(true, false, false)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	created, err := d.progress.ChildCreated(ctx, kid.ID)
	require.Error(t, err)
	assert.False(t, created)
	assert.Equal(t, progress.ErrDuplicateKey, errors.Cause(err))
}
