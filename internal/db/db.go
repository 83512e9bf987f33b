package db

import (
	"log"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/marketsafe/bot/internal/answer"
	"github.com/marketsafe/bot/internal/entitlement"
)

func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gdb.AutoMigrate(&entitlement.Record{}, &answer.Job{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	return gdb
}

// Lazy defers the connection until a component first asks for it.
// Deployments served entirely by the embedded entitlement store, with the
// broker down or absent, never touch the database and must be able to run
// without one.
type Lazy struct {
	dsn  string
	once sync.Once
	db   *gorm.DB
}

func NewLazy(dsn string) *Lazy {
	return &Lazy{dsn: dsn}
}

// Get connects and migrates on first call. Exits the process when the
// database is unreachable, same as Connect.
func (l *Lazy) Get() *gorm.DB {
	l.once.Do(func() {
		l.db = Connect(l.dsn)
	})
	return l.db
}
