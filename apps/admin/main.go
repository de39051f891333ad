package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/child"
	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/core/progress"
	logsvc "github.com/bassiony1/public-ANEES/services/logger"
	"github.com/bassiony1/public-ANEES/storage/database"
	sqlxrepos "github.com/bassiony1/public-ANEES/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(false)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)

	childRepo := sqlxrepos.NewChildRepository(db)
	levelSvc := level.NewService(db, sqlxrepos.NewLevelRepository(db), validate)
	progressSvc := progress.NewService(db, sqlxrepos.NewChildLevelRepository(db), levelSvc, childRepo, validate, logger)

	// start CLI
	cli := commandLine{
		db:          db,
		conf:        conf,
		levelSvc:    levelSvc,
		progressSvc: progressSvc,
		childSvc:    child.NewService(db, childRepo, progressSvc, levelSvc, validate),
		out:         os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}
