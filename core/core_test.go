package core

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Hero", CleanString("  Hero\n"))
	assert.Equal(t, "hero", CleanString(" HeRo ", true /* lower */))
}

func TestTodayAndDaysBetween(t *testing.T) {
	cairo := time.FixedZone("EET", 2*60*60)
	now := time.Date(2021, time.January, 1, 1, 30, 0, 0, cairo) // still Dec 31st in UTC

	assert.Equal(t, time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC), Today(now))

	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{name: "same instant", from: now, to: now, want: 0},
		{name: "same day", from: Today(now), to: Today(now).Add(23 * time.Hour), want: 0},
		{name: "next day", from: Today(now).Add(23 * time.Hour), to: Today(now).Add(25 * time.Hour), want: 1},
		{name: "a year", from: time.Date(2019, time.March, 1, 12, 0, 0, 0, time.UTC), to: time.Date(2020, time.March, 1, 1, 0, 0, 0, time.UTC), want: 366},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.from, tt.to))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(nil, FieldError{Field: "score", Error: "a valid integer is required"})
	assert.Equal(t, "score: a valid integer is required", err.Error())

	err = NewValidationError(errors.New("boom"), FieldError{Field: "score", Error: "lol"})
	assert.Equal(t, "boom", err.Error())
}

func TestRunInTx_noDB(t *testing.T) {
	var called bool
	err := RunInTx(context.Background(), nil, func(exec DBExecutor) error {
		called = true
		assert.Nil(t, exec)
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	err = RunInTx(context.Background(), nil, func(DBExecutor) error { return boom })
	assert.Equal(t, boom, err)
}

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_DATABASE_ENGINE", "sqlite")
	t.Setenv("TEST_SERVER_JWTAUTHSCHEME", "Bearer")

	conf := NewConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, "sqlite", conf.Database.Engine)
	assert.Equal(t, "Bearer", conf.Server.JWTAuthScheme)
	assert.Equal(t, 24*time.Hour, conf.Server.JWTExpirationDelta)
	assert.Equal(t, "localhost:5432", conf.Database.Address())
}

func TestDBOrdering(t *testing.T) {
	assert.Equal(t, "level_num ASC", DBOrdering{Field: "level_num", Ascending: true}.String())
	assert.Equal(t, "created_at DESC", DBOrdering{Field: "created_at"}.String())
}
