package sqlite

import (
	"github.com/example/course-scheduler/internal/persistence/sqlite/migration"
)

// SchemaMigrations returns the ordered schema for the scheduling database.
// All timestamps are stored as RFC3339 UTC strings so that lexicographic
// comparison in SQL matches chronological order.
func SchemaMigrations() []migration.Migration {
	return []migration.Migration{
		{
			Version:     "001",
			Description: "accounts and sessions",
			SQL: `
				CREATE TABLE users (
					id TEXT PRIMARY KEY,
					email TEXT NOT NULL UNIQUE,
					display_name TEXT NOT NULL,
					is_admin INTEGER NOT NULL DEFAULT 0,
					password_hash TEXT NOT NULL,
					disabled INTEGER NOT NULL DEFAULT 0,
					failed_attempts INTEGER NOT NULL DEFAULT 0,
					last_failed_at TEXT,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				);

				CREATE TABLE sessions (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					token TEXT NOT NULL UNIQUE,
					fingerprint TEXT NOT NULL,
					expires_at TEXT NOT NULL,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL,
					revoked_at TEXT
				);

				CREATE INDEX idx_sessions_user_id ON sessions(user_id);
				CREATE INDEX idx_sessions_expires_at ON sessions(expires_at)
			`,
		},
		{
			Version:     "002",
			Description: "catalog tables",
			SQL: `
				CREATE TABLE rooms (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					location TEXT NOT NULL DEFAULT '',
					capacity INTEGER NOT NULL DEFAULT 0,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				);

				CREATE TABLE teachers (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					email TEXT NOT NULL UNIQUE,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				);

				CREATE TABLE subjects (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					code TEXT NOT NULL UNIQUE,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				)
			`,
		},
		{
			Version:     "003",
			Description: "holiday calendar",
			SQL: `
				CREATE TABLE holidays (
					id TEXT PRIMARY KEY,
					date TEXT NOT NULL UNIQUE,
					name TEXT NOT NULL
				)
			`,
		},
		{
			Version:     "004",
			Description: "courses and occurrences",
			SQL: `
				CREATE TABLE courses (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					subject_id TEXT NOT NULL REFERENCES subjects(id),
					teacher_id TEXT NOT NULL REFERENCES teachers(id),
					room_id TEXT NOT NULL REFERENCES rooms(id),
					start_time TEXT NOT NULL,
					duration_minutes INTEGER NOT NULL CHECK (duration_minutes BETWEEN 15 AND 480),
					is_recurring INTEGER NOT NULL DEFAULT 0,
					pattern_json TEXT,
					recurrence_end_date TEXT,
					exclude_holidays INTEGER NOT NULL DEFAULT 0,
					recurrence_id TEXT,
					description TEXT,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				);

				CREATE TABLE occurrences (
					id TEXT PRIMARY KEY,
					course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
					recurrence_id TEXT,
					room_id TEXT NOT NULL REFERENCES rooms(id),
					teacher_id TEXT NOT NULL REFERENCES teachers(id),
					start_time TEXT NOT NULL,
					end_time TEXT NOT NULL,
					created_at TEXT NOT NULL,
					CHECK (end_time > start_time)
				);

				CREATE INDEX idx_occurrences_course ON occurrences(course_id);
				CREATE INDEX idx_occurrences_recurrence ON occurrences(recurrence_id);
				CREATE INDEX idx_occurrences_room_start ON occurrences(room_id, start_time);
				CREATE INDEX idx_occurrences_teacher_start ON occurrences(teacher_id, start_time)
			`,
		},
		{
			Version:     "005",
			Description: "link staff accounts to teacher directory",
			SQL: `
				ALTER TABLE users ADD COLUMN teacher_id TEXT REFERENCES teachers(id) ON DELETE SET NULL
			`,
		},
	}
}
