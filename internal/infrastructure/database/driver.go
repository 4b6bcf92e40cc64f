package database

import (
	"database/sql"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// driverName identifies the sqlite3 driver variant registered with the
// foreign-key connect hook. The stock "sqlite3" driver is left untouched.
const driverName = "sqlite3_fk"

var registerDriverOnce sync.Once

// registerDriver installs the sqlite3 driver with a connect hook that
// enables foreign-key enforcement. SQLite ships with enforcement off, and
// the setting is per-connection, so the hook must fire for every new
// physical connection the pool opens. It never fires per query.
func registerDriver() {
	registerDriverOnce.Do(func() {
		sql.Register(driverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				_, err := conn.Exec("PRAGMA foreign_keys = ON", nil)
				return err
			},
		})
	})
}
