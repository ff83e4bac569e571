package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per run of the control loop
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			exit_reason TEXT NOT NULL DEFAULT '',
			frames INTEGER NOT NULL DEFAULT 0
		)`,

		// Transitions table - applied gesture changes within a session
		`CREATE TABLE IF NOT EXISTS transitions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			from_state TEXT NOT NULL,
			to_state TEXT NOT NULL CHECK(to_state IN ('GAS', 'BRAKE', 'NEUTRAL')),
			fingers INTEGER NOT NULL,
			at DATETIME NOT NULL,
			UNIQUE(session_id, seq)
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_transitions_session_id ON transitions(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
