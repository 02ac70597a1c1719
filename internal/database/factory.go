package database

import (
	"time"

	"gorm.io/gorm"
)

// RepositoryFactory vends the three repositories bound to one shared handle,
// so repositories taken from the same factory see the same transaction.
type RepositoryFactory interface {
	Rooms() RoomRepository
	Messages() MessageRepository
	Members() MemberRepository
}

type repositoryFactory struct {
	db  *gorm.DB
	now func() time.Time
}

func newRepositoryFactory(db *gorm.DB, now func() time.Time) *repositoryFactory {
	return &repositoryFactory{db: db, now: now}
}

func (f *repositoryFactory) Rooms() RoomRepository {
	return &roomRepository{db: f.db, now: f.now}
}

func (f *repositoryFactory) Messages() MessageRepository {
	return &messageRepository{db: f.db, now: f.now}
}

func (f *repositoryFactory) Members() MemberRepository {
	return &memberRepository{db: f.db}
}
