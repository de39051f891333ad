package echoapi

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/bassiony1/public-ANEES/core/child"
	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/core/progress"
)

const dateLayout = "2006-01-02"

type (
	SuccessResponse struct {
		Success string `json:"success"`
	}

	LevelSummary struct {
		LevelNum int    `json:"level_num"`
		Level    string `json:"level"` // URL
	}

	LevelDetail struct {
		LevelNum           int     `json:"level_num"`
		Receptive          *string `json:"receptive"`  // URL, if the level has this game
		Expressive         *string `json:"expressive"` // URL, if the level has this game
		Social             *string `json:"social"`     // URL, if the level has this game
		ReceptiveComplete  bool    `json:"receptive_complete"`
		ExpressiveComplete bool    `json:"expressive_complete"`
		SocialComplete     bool    `json:"social_complete"`
		ReceptiveScore     int     `json:"receptive_score"`
		ExpressiveScore    int     `json:"expressive_score"`
		SocialScore        int     `json:"social_score"`
		Score              float64 `json:"score"`
		Completed          bool    `json:"completed"`
		JoinedDate         string  `json:"joined_date"`
		CompletedDate      *string `json:"completed_date"`
	}

	GameResponse struct {
		LevelNum int            `json:"level_num"`
		Category level.Category `json:"category"`
		Game     interface{}    `json:"game"`
	}

	NewLevelResponse struct {
		Level      level.Level `json:"level"`
		Backfilled int         `json:"backfilled"`
	}

	ChildInfo struct {
		ID          string    `json:"id"`
		Username    string    `json:"username"`
		Email       string    `json:"email"`
		FirstName   string    `json:"first_name"`
		LastName    string    `json:"last_name"`
		Gender      string    `json:"gender"`
		DateOfBirth *string   `json:"date_of_birth"`
		DateJoined  time.Time `json:"date_joined"`
	}

	ProfileResponse struct {
		UserInfo           ChildInfo      `json:"user_info"`
		Picture            string         `json:"picture"`
		Age                int            `json:"age"`
		CurrentLevel       int            `json:"current_level"`
		JoinDurationInDays int            `json:"join_duration_in_days"`
		Accuracy           child.Accuracy `json:"accuracy"`
		Words              string         `json:"words"` // URL
	}

	WordsResponse struct {
		Words child.Words `json:"words"`
	}
)

// absURL builds an absolute URL on the requested host.
func absURL(ctx echo.Context, format string, args ...interface{}) string {
	return ctx.Scheme() + "://" + ctx.Request().Host + fmt.Sprintf(format, args...)
}

func formatDate(t null.Time) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.Format(dateLayout)
	return &s
}

func newLevelDetail(ctx echo.Context, row progress.ChildLevel, lvl level.Level) LevelDetail {
	gameURL := func(cat level.Category) *string {
		if !lvl.HasGame(cat) {
			return nil
		}
		u := absURL(ctx, "/api/levels/%d/%s", lvl.Num, cat)
		return &u
	}
	return LevelDetail{
		LevelNum:           row.LevelNum,
		Receptive:          gameURL(level.Receptive),
		Expressive:         gameURL(level.Expressive),
		Social:             gameURL(level.Social),
		ReceptiveComplete:  row.ReceptiveComplete,
		ExpressiveComplete: row.ExpressiveComplete,
		SocialComplete:     row.SocialComplete,
		ReceptiveScore:     row.ReceptiveScore,
		ExpressiveScore:    row.ExpressiveScore,
		SocialScore:        row.SocialScore,
		Score:              row.Score(),
		Completed:          row.Completed(),
		JoinedDate:         row.JoinedDate.Format(dateLayout),
		CompletedDate:      formatDate(row.CompletedDate),
	}
}

func newProfileResponse(ctx echo.Context, p child.Profile, wordsPath string) ProfileResponse {
	c := p.Child
	return ProfileResponse{
		UserInfo: ChildInfo{
			ID:          c.ID,
			Username:    c.Username,
			Email:       c.Email,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			Gender:      c.Gender,
			DateOfBirth: formatDate(c.DateOfBirth),
			DateJoined:  c.DateJoined,
		},
		Picture:            c.Picture,
		Age:                p.Age,
		CurrentLevel:       p.CurrentLevel,
		JoinDurationInDays: p.JoinDurationInDays,
		Accuracy:           p.Accuracy,
		Words:              absURL(ctx, "%s", wordsPath),
	}
}
