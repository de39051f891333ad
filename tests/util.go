package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/child"
	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/storage/database"
)

// NewConfig returns the configuration tests run with.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:   "Anees",
		SecretKey: "test-secret",
		Build:     "test",
		Env:       "TEST",
		TestMode:  true,
		Server: core.ServerConfig{
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
			JWTAuthScheme:      "JWT",
		},
		Database: core.DatabaseConfig{Engine: database.SQLite},
		Predict:  core.PredictConfig{Timeout: 5 * time.Second},
	}
}

// PrepareDB opens a fresh, migrated SQLite database, closed at the end of the test.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "anees.db"))
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("db.Close() failed: %v", err)
		}
	})
	return db
}

// NewValidator returns a validator & translator initialized like the API's.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate, translator
}

// Logger records the messages logged during a test.
type Logger struct {
	t        *testing.T
	Messages []string
}

var _ core.Logger = (*Logger)(nil)

func NewLogger(t *testing.T) *Logger {
	return &Logger{t: t}
}

func (l *Logger) log(level, msg string, args []interface{}) {
	entry := fmt.Sprintf("[%s] %s", level, msg)
	l.Messages = append(l.Messages, entry)
	l.t.Log(append([]interface{}{entry}, args...)...)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }

func CreateChild(t *testing.T, svc *child.Service, uname string) child.Child {
	t.Helper()

	c, err := svc.Create(context.Background(), child.NewChild{
		Username:  uname,
		Email:     uname + "@test.eg",
		FirstName: "Test",
		LastName:  uname,
		Gender:    child.GenderFemale,
	})
	if err != nil {
		t.Fatalf("CreateChild() failed: %v", err)
	}
	return c
}

// Games builds the games of a level; a false flag leaves the game out.
func Games(receptive, expressive, social bool) level.Games {
	var g level.Games
	if receptive {
		g.Receptive = &level.ReceptiveGame{
			Answer: "apple",
			Images: []level.Image{{Img: "https://cdn.test/apple.png", Name: "apple"}, {Img: "https://cdn.test/pear.png", Name: "pear"}},
		}
	}
	if expressive {
		g.Expressive = &level.ExpressiveGame{Img: "https://cdn.test/cat.png", Answer: "cat"}
	}
	if social {
		g.Social = &level.SocialGame{
			Video:    "https://cdn.test/hello.mp4",
			Messages: []level.Message{{Message: "hello"}, {Message: "how are you?"}},
		}
	}
	return g
}

// AddLevel is a level creation hook; progress.Service.AddLevel satisfies it.
type AddLevel func(ctx context.Context, nl level.NewLevel) (level.Level, int, error)

func CreateLevel(t *testing.T, add AddLevel, num int, games level.Games) level.Level {
	t.Helper()

	lvl, _, err := add(context.Background(), level.NewLevel{Num: num, Games: games})
	if err != nil {
		t.Fatalf("CreateLevel() failed: %v", err)
	}
	return lvl
}
