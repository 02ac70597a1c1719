package database

import (
	"time"

	"gorm.io/gorm"
)

// Database owns the gorm handle every repository is bound to.
type Database struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db, now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// SetClock replaces the time source used for new rooms and messages. Its
// readings are converted to UTC.
func (d *Database) SetClock(now func() time.Time) {
	d.now = func() time.Time {
		return now().UTC()
	}
}

// Factory returns repositories bound to the root handle. Every call is its
// own implicit transaction.
func (d *Database) Factory() RepositoryFactory {
	return newRepositoryFactory(d.db, d.now)
}

// WithCommit runs fn with repositories bound to a single transaction and
// commits when fn returns nil.
func (d *Database) WithCommit(fn func(f RepositoryFactory) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(newRepositoryFactory(tx, d.now))
	})
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
