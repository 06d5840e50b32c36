package db

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteDriverName is the database/sql driver used for SQLite. It replaces
// the built-in ASCII-only lower() with full Unicode case folding so text
// search folds names the same way on SQLite and Postgres.
const SQLiteDriverName = "sqlite3_shiptracker"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

// SQLite returns a dialector for dsn on the Unicode-aware driver.
func SQLite(dsn string) gorm.Dialector {
	return sqlite.Dialector{DriverName: SQLiteDriverName, DSN: dsn}
}
