package level

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Category is a game kind.
type Category string

const (
	Receptive  Category = "receptive"
	Expressive Category = "expressive"
	Social     Category = "social"
)

// Categories lists every game kind, in display order.
var Categories = []Category{Receptive, Expressive, Social}

var ErrUnknownCategory = errors.New("unknown game category")

func ParseCategory(s string) (Category, error) {
	for _, cat := range Categories {
		if string(cat) == s {
			return cat, nil
		}
	}
	return "", ErrUnknownCategory
}

type (
	Level struct {
		Num        int             `json:"level_num"`
		Receptive  *ReceptiveGame  `json:"receptive"`
		Expressive *ExpressiveGame `json:"expressive"`
		Social     *SocialGame     `json:"social"`
		CreatedAt  time.Time       `json:"created_at"` // UTC
	}

	ReceptiveGame struct {
		Answer string  `json:"answer" validate:"required,max=255"`
		Images []Image `json:"images" validate:"dive"`
	}

	// Image is one of a receptive game's choices; ID is its 1-based position.
	Image struct {
		ID   int    `json:"id"`
		Img  string `json:"img" validate:"required,max=255"`
		Name string `json:"name" validate:"required,max=255"`
	}

	ExpressiveGame struct {
		Img    string `json:"img" validate:"required,max=255"`
		Answer string `json:"answer" validate:"required,max=255"`
	}

	SocialGame struct {
		Video    string    `json:"video" validate:"required,max=255"`
		Messages []Message `json:"messages" validate:"dive"`
	}

	// Message is one of a social game's conversation prompts; ID is its 1-based position.
	Message struct {
		ID      int    `json:"id"`
		Message string `json:"message" validate:"required,max=100"`
	}
)

// HasGame tells whether the level owns a game of kind cat.
func (l Level) HasGame(cat Category) bool {
	switch cat {
	case Receptive:
		return l.Receptive != nil
	case Expressive:
		return l.Expressive != nil
	case Social:
		return l.Social != nil
	}
	return false
}

// Game returns the level's game of kind cat, or nil.
func (l Level) Game(cat Category) interface{} {
	switch cat {
	case Receptive:
		if l.Receptive != nil {
			return *l.Receptive
		}
	case Expressive:
		if l.Expressive != nil {
			return *l.Expressive
		}
	case Social:
		if l.Social != nil {
			return *l.Social
		}
	}
	return nil
}

// Games are the contents a level may own.
type Games struct {
	Receptive  *ReceptiveGame  `json:"receptive"`
	Expressive *ExpressiveGame `json:"expressive"`
	Social     *SocialGame     `json:"social"`
}

// position numbers images & messages in their submitted order.
func (g *Games) position() {
	if g.Receptive != nil {
		if g.Receptive.Images == nil {
			g.Receptive.Images = []Image{}
		}
		for i := range g.Receptive.Images {
			g.Receptive.Images[i].ID = i + 1
		}
	}
	if g.Social != nil {
		if g.Social.Messages == nil {
			g.Social.Messages = []Message{}
		}
		for i := range g.Social.Messages {
			g.Social.Messages[i].ID = i + 1
		}
	}
}

type NewLevel struct {
	Num int `json:"level_num" validate:"required,min=1"`
	Games
}

func (nl *NewLevel) Validate(validate *validator.Validate) error {
	nl.position()
	return validate.Struct(nl)
}

// UpdateGames replaces every game of a level; a nil game is removed.
type UpdateGames struct {
	Games
}

func (ug *UpdateGames) Validate(validate *validator.Validate) error {
	ug.position()
	return validate.Struct(ug)
}
