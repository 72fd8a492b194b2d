package database

import "strings"

// SQLite pragmas applied to every file-backed connection. Blob and metadata
// stores may open the same file through separate pools, so writers wait for
// the lock instead of failing with SQLITE_BUSY.
var sqliteFilePragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

// SQLiteConnectionString adds the file pragmas to a modernc sqlite DSN.
// In-memory databases and pragmas already present are left alone.
func SQLiteConnectionString(connectionString string) string {
	if isSQLiteInMemory(connectionString) {
		return connectionString
	}

	dsn := connectionString
	for _, pragma := range sqliteFilePragmas {
		name := pragma[:strings.IndexByte(pragma, '(')]
		if strings.Contains(dsn, "_pragma="+name) {
			continue
		}
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "_pragma=" + pragma
	}
	return dsn
}

func isSQLiteInMemory(connectionString string) bool {
	return connectionString == "" ||
		strings.Contains(connectionString, ":memory:") ||
		strings.Contains(connectionString, "mode=memory")
}
