package inmemdb

import (
	"sync"

	"github.com/bassiony1/public-ANEES/core/child"
	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/core/progress"
)

type (
	DB struct {
		level      *levelTable
		child      *childTable
		childLevel *childLevelTable
	}

	levelTable struct {
		sync.RWMutex
		table map[int]*level.Level
	}

	childTable struct {
		sync.RWMutex
		table map[string]*child.Child
	}

	childLevelKey struct {
		childID  string
		levelNum int
	}

	childLevelTable struct {
		sync.RWMutex
		table map[childLevelKey]*progress.ChildLevel
	}
)

func Open() *DB {
	return &DB{
		level:      &levelTable{table: make(map[int]*level.Level)},
		child:      &childTable{table: make(map[string]*child.Child)},
		childLevel: &childLevelTable{table: make(map[childLevelKey]*progress.ChildLevel)},
	}
}
