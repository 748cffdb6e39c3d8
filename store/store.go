package store

import (
	"database/sql"
	"sync"
)

type Store struct {
	db *sql.DB

	UserCache          sync.Map // map[int32]*model.User
	UserSettingCache   sync.Map // map[string]*model.UserSetting
	SystemSettingCache sync.Map // map[string]*model.SystemSetting
	BookCache          sync.Map // map[int32]*model.Book
	MemberCache        sync.Map // map[int32]*model.Member
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) DBStats() sql.DBStats {
	return s.db.Stats()
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// MigrationHistory is a record of a schema version application.
type MigrationHistory struct {
	Version   string
	CreatedTs int64
}

type UpsertMigrationHistory struct {
	Version string
}

type FindMigrationHistory struct {
}
