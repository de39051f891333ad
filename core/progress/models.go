package progress

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/level"
)

// autoCompleteScore is the score given to a category its level has no game for.
const autoCompleteScore = 100

// ChildLevel is a child's progress through one level.
type ChildLevel struct {
	ChildID            string    `json:"child_id"`
	LevelNum           int       `json:"level_num"`
	ReceptiveComplete  bool      `json:"receptive_complete"`
	ExpressiveComplete bool      `json:"expressive_complete"`
	SocialComplete     bool      `json:"social_complete"`
	ReceptiveScore     int       `json:"receptive_score"`
	ExpressiveScore    int       `json:"expressive_score"`
	SocialScore        int       `json:"social_score"`
	JoinedDate         time.Time `json:"joined_date"`    // UTC date
	CompletedDate      null.Time `json:"completed_date"` // UTC date
}

// newChildLevel opens lvl for a child: every category lvl has no game for starts complete.
func newChildLevel(childID string, lvl level.Level, today time.Time) ChildLevel {
	cl := ChildLevel{
		ChildID:    childID,
		LevelNum:   lvl.Num,
		JoinedDate: today,
	}
	for _, cat := range level.Categories {
		if !lvl.HasGame(cat) {
			cl.record(cat, autoCompleteScore)
		}
	}
	if cl.Completed() {
		cl.CompletedDate = null.TimeFrom(today)
	}
	return cl
}

// Completed tells whether all three categories are complete.
func (cl ChildLevel) Completed() bool {
	return cl.ReceptiveComplete && cl.ExpressiveComplete && cl.SocialComplete
}

// Score is the mean of the three category scores.
func (cl ChildLevel) Score() float64 {
	return float64(cl.ReceptiveScore+cl.ExpressiveScore+cl.SocialScore) / 3
}

func (cl ChildLevel) IsComplete(cat level.Category) bool {
	switch cat {
	case level.Receptive:
		return cl.ReceptiveComplete
	case level.Expressive:
		return cl.ExpressiveComplete
	case level.Social:
		return cl.SocialComplete
	}
	return false
}

func (cl ChildLevel) ScoreFor(cat level.Category) int {
	switch cat {
	case level.Receptive:
		return cl.ReceptiveScore
	case level.Expressive:
		return cl.ExpressiveScore
	case level.Social:
		return cl.SocialScore
	}
	return 0
}

// record marks cat complete and keeps the best score; it reports whether score beat the stored one.
func (cl *ChildLevel) record(cat level.Category, score int) bool {
	var complete *bool
	var best *int
	switch cat {
	case level.Receptive:
		complete, best = &cl.ReceptiveComplete, &cl.ReceptiveScore
	case level.Expressive:
		complete, best = &cl.ExpressiveComplete, &cl.ExpressiveScore
	case level.Social:
		complete, best = &cl.SocialComplete, &cl.SocialScore
	default:
		return false
	}

	*complete = true
	if score > *best {
		*best = score
		return true
	}
	return false
}

// Outcome is what a successful submission led to.
type Outcome int

const (
	GameCompleted Outcome = iota
	LevelPassed
	LevelPassedWithHighScore
	AllLevelsFinished
)

var outcomeMessages = map[Outcome]string{
	GameCompleted:            "You Have Completed This Game",
	LevelPassed:              "You Have Passed This Level",
	LevelPassedWithHighScore: "You Have Passed This Level With New High Score",
	AllLevelsFinished:        "You Have Finished All Levels",
}

func (o Outcome) String() string {
	return outcomeMessages[o]
}

type Result struct {
	Outcome      Outcome
	Row          ChildLevel
	NewHighScore bool
}

// ScoreSubmission is the payload of a game submission.
type ScoreSubmission struct {
	Score *int `json:"score" validate:"required"`

	// Malformed is set when the payload could not be decoded at all (e.g. a non-integer score).
	Malformed bool `json:"-"`
}

func (sub ScoreSubmission) Validate(validate *validator.Validate) error {
	if sub.Malformed {
		return core.NewIntegerError("score")
	}
	return validate.Struct(sub)
}
