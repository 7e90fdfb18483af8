// Package storage defines the interface for the workout storage backend
// and the handful of helpers shared by every implementation.
package storage

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// EnvLockTimeout overrides the busy-wait timeout, mirroring the teacher's
// BD_LOCK_TIMEOUT env var.
const EnvLockTimeout = "WORKOUT_LOCK_TIMEOUT"

// SQLiteConnString builds a SQLite DSN with the standard pragmas this
// single-connection service relies on: busy_timeout (so a concurrent
// writer never sees a bare "database is locked"), and foreign_keys(ON)
// (the schema itself declares no FOREIGN KEY constraints, so alias and
// workout rows are not checked against exercises by the database). The
// service holds the sole connection for its lifetime (§5), so there is no
// read-only mode to support here.
func SQLiteConnString(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}

	busy := 30 * time.Second
	if v := strings.TrimSpace(os.Getenv(EnvLockTimeout)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			busy = d
		}
	}
	busyMs := int64(busy / time.Millisecond)

	if strings.HasPrefix(path, "file:") {
		conn := path
		sep := "?"
		if strings.Contains(conn, "?") {
			sep = "&"
		}
		if !strings.Contains(conn, "_pragma=busy_timeout") {
			conn += fmt.Sprintf("%s_pragma=busy_timeout(%d)", sep, busyMs)
			sep = "&"
		}
		if !strings.Contains(conn, "_pragma=foreign_keys") {
			conn += sep + "_pragma=foreign_keys(ON)"
		}
		return conn
	}

	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(ON)", path, busyMs)
}
