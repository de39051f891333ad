package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/level"
)

type (
	levelRow struct {
		Num       int       `db:"level_num"`
		CreatedAt time.Time `db:"created_at"`
	}

	receptiveRow struct {
		LevelNum int    `db:"level_num"`
		Answer   string `db:"answer"`
	}

	imageRow struct {
		LevelNum int    `db:"level_num"`
		Position int    `db:"position"`
		Img      string `db:"img"`
		Name     string `db:"name"`
	}

	expressiveRow struct {
		LevelNum int    `db:"level_num"`
		Img      string `db:"img"`
		Answer   string `db:"answer"`
	}

	socialRow struct {
		LevelNum int    `db:"level_num"`
		Video    string `db:"video"`
	}

	messageRow struct {
		LevelNum int    `db:"level_num"`
		Position int    `db:"position"`
		Message  string `db:"message"`
	}
)

type levelRepository struct {
	repository
}

var _ level.Repository = (*levelRepository)(nil) // interface compliance check

func NewLevelRepository(db *sqlx.DB) *levelRepository {
	return &levelRepository{repository: newRepository(db)}
}

func (repo levelRepository) CreateLevel(ctx context.Context, lvl level.Level, exec ...core.DBExecutor) (level.Level, error) {
	ex := repo.getExec(exec)
	lvl.CreatedAt = lvl.CreatedAt.UTC()

	q := repo.sb.Insert("levels").Columns("level_num", "created_at").Values(lvl.Num, lvl.CreatedAt)
	if _, err := execAffected(ctx, ex, q); err != nil {
		if isUniqueViolation(err) {
			return level.Level{}, level.ErrExists
		}
		return level.Level{}, errors.Wrap(err, "inserting level")
	}

	games := level.Games{Receptive: lvl.Receptive, Expressive: lvl.Expressive, Social: lvl.Social}
	if err := repo.insertGames(ctx, ex, lvl.Num, games); err != nil {
		return level.Level{}, err
	}
	return lvl, nil
}

func (repo levelRepository) insertGames(ctx context.Context, ex core.DBExecutor, num int, games level.Games) error {
	if g := games.Receptive; g != nil {
		q := repo.sb.Insert("receptive_games").Columns("level_num", "answer").Values(num, g.Answer)
		if _, err := execAffected(ctx, ex, q); err != nil {
			return errors.Wrap(err, "inserting receptive game")
		}
		if len(g.Images) > 0 {
			iq := repo.sb.Insert("receptive_images").Columns("level_num", "position", "img", "name")
			for i, img := range g.Images {
				iq = iq.Values(num, i+1, img.Img, img.Name)
			}
			if _, err := execAffected(ctx, ex, iq); err != nil {
				return errors.Wrap(err, "inserting receptive images")
			}
		}
	}

	if g := games.Expressive; g != nil {
		q := repo.sb.Insert("expressive_games").Columns("level_num", "img", "answer").Values(num, g.Img, g.Answer)
		if _, err := execAffected(ctx, ex, q); err != nil {
			return errors.Wrap(err, "inserting expressive game")
		}
	}

	if g := games.Social; g != nil {
		q := repo.sb.Insert("social_games").Columns("level_num", "video").Values(num, g.Video)
		if _, err := execAffected(ctx, ex, q); err != nil {
			return errors.Wrap(err, "inserting social game")
		}
		if len(g.Messages) > 0 {
			mq := repo.sb.Insert("social_messages").Columns("level_num", "position", "message")
			for i, msg := range g.Messages {
				mq = mq.Values(num, i+1, msg.Message)
			}
			if _, err := execAffected(ctx, ex, mq); err != nil {
				return errors.Wrap(err, "inserting social messages")
			}
		}
	}
	return nil
}

func (repo levelRepository) GetLevel(ctx context.Context, num int, exec ...core.DBExecutor) (level.Level, error) {
	ex := repo.getExec(exec)

	q := repo.sb.Select("level_num", "created_at").From("levels").Where(sq.Eq{"level_num": num})
	row, err := getOne[levelRow](ctx, ex, q)
	if err != nil {
		return level.Level{}, trapNoRowsErr(err, level.ErrNotFound)
	}

	levels, err := repo.withGames(ctx, ex, []levelRow{row})
	if err != nil {
		return level.Level{}, err
	}
	return levels[0], nil
}

func (repo levelRepository) NextLevel(ctx context.Context, num int, exec ...core.DBExecutor) (level.Level, error) {
	ex := repo.getExec(exec)

	q := repo.sb.Select("level_num", "created_at").
		From("levels").
		Where(sq.Gt{"level_num": num}).
		OrderBy(byLevelNum.String()).
		Limit(1)
	row, err := getOne[levelRow](ctx, ex, q)
	if err != nil {
		return level.Level{}, trapNoRowsErr(err, level.ErrNotFound)
	}

	levels, err := repo.withGames(ctx, ex, []levelRow{row})
	if err != nil {
		return level.Level{}, err
	}
	return levels[0], nil
}

func (repo levelRepository) QueryLevels(ctx context.Context, exec ...core.DBExecutor) ([]level.Level, error) {
	ex := repo.getExec(exec)

	var rows []levelRow
	q := repo.sb.Select("level_num", "created_at").From("levels").OrderBy(byLevelNum.String())
	if err := selectInto(ctx, ex, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting levels")
	}
	return repo.withGames(ctx, ex, rows)
}

func (repo levelRepository) SetGames(ctx context.Context, num int, games level.Games, exec ...core.DBExecutor) (level.Level, error) {
	ex := repo.getExec(exec)

	if _, err := repo.GetLevel(ctx, num, ex); err != nil {
		return level.Level{}, err
	}
	for _, table := range []string{"receptive_images", "receptive_games", "expressive_games", "social_messages", "social_games"} {
		if _, err := execAffected(ctx, ex, repo.sb.Delete(table).Where(sq.Eq{"level_num": num})); err != nil {
			return level.Level{}, errors.Wrapf(err, "clearing %s", table)
		}
	}
	if err := repo.insertGames(ctx, ex, num, games); err != nil {
		return level.Level{}, err
	}
	return repo.GetLevel(ctx, num, ex)
}

// withGames loads the games of the given levels, keeping their order.
func (repo levelRepository) withGames(ctx context.Context, ex core.DBExecutor, rows []levelRow) ([]level.Level, error) {
	levels := make([]level.Level, 0, len(rows))
	if len(rows) == 0 {
		return levels, nil
	}

	nums := make([]int, 0, len(rows))
	for _, row := range rows {
		nums = append(nums, row.Num)
	}
	inLevels := sq.Eq{"level_num": nums}

	var receptives []receptiveRow
	if err := selectInto(ctx, ex, &receptives, repo.sb.Select("level_num", "answer").From("receptive_games").Where(inLevels)); err != nil {
		return nil, errors.Wrap(err, "selecting receptive games")
	}
	var images []imageRow
	iq := repo.sb.Select("level_num", "position", "img", "name").
		From("receptive_images").
		Where(inLevels).
		OrderBy(byLevelNum.String(), byPosition.String())
	if err := selectInto(ctx, ex, &images, iq); err != nil {
		return nil, errors.Wrap(err, "selecting receptive images")
	}
	var expressives []expressiveRow
	if err := selectInto(ctx, ex, &expressives, repo.sb.Select("level_num", "img", "answer").From("expressive_games").Where(inLevels)); err != nil {
		return nil, errors.Wrap(err, "selecting expressive games")
	}
	var socials []socialRow
	if err := selectInto(ctx, ex, &socials, repo.sb.Select("level_num", "video").From("social_games").Where(inLevels)); err != nil {
		return nil, errors.Wrap(err, "selecting social games")
	}
	var messages []messageRow
	mq := repo.sb.Select("level_num", "position", "message").
		From("social_messages").
		Where(inLevels).
		OrderBy(byLevelNum.String(), byPosition.String())
	if err := selectInto(ctx, ex, &messages, mq); err != nil {
		return nil, errors.Wrap(err, "selecting social messages")
	}

	receptiveByNum := make(map[int]*level.ReceptiveGame, len(receptives))
	for _, r := range receptives {
		receptiveByNum[r.LevelNum] = &level.ReceptiveGame{Answer: r.Answer, Images: []level.Image{}}
	}
	for _, img := range images {
		if g, ok := receptiveByNum[img.LevelNum]; ok {
			g.Images = append(g.Images, level.Image{ID: img.Position, Img: img.Img, Name: img.Name})
		}
	}
	expressiveByNum := make(map[int]*level.ExpressiveGame, len(expressives))
	for _, e := range expressives {
		expressiveByNum[e.LevelNum] = &level.ExpressiveGame{Img: e.Img, Answer: e.Answer}
	}
	socialByNum := make(map[int]*level.SocialGame, len(socials))
	for _, s := range socials {
		socialByNum[s.LevelNum] = &level.SocialGame{Video: s.Video, Messages: []level.Message{}}
	}
	for _, msg := range messages {
		if g, ok := socialByNum[msg.LevelNum]; ok {
			g.Messages = append(g.Messages, level.Message{ID: msg.Position, Message: msg.Message})
		}
	}

	for _, row := range rows {
		levels = append(levels, level.Level{
			Num:        row.Num,
			Receptive:  receptiveByNum[row.Num],
			Expressive: expressiveByNum[row.Num],
			Social:     socialByNum[row.Num],
			CreatedAt:  row.CreatedAt.UTC(),
		})
	}
	return levels, nil
}
