package store

import (
	"database/sql"
	"time"
)

// Transition is a change of the applied gesture within a session.
type Transition struct {
	SessionID string
	Seq       int
	From      string
	To        string
	Fingers   int
	At        time.Time
}

// TransitionRepository provides access to the transitions table.
type TransitionRepository struct {
	db *sql.DB
}

// Transitions returns the transition repository for this store.
func (s *Store) Transitions() *TransitionRepository {
	return &TransitionRepository{db: s.db}
}

// Create appends a transition to its session.
func (r *TransitionRepository) Create(t *Transition) error {
	_, err := r.db.Exec(
		`INSERT INTO transitions (session_id, seq, from_state, to_state, fingers, at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.SessionID, t.Seq, t.From, t.To, t.Fingers, t.At,
	)
	return err
}

// ListBySession returns a session's transitions in order. It returns
// ErrNotFound if the session does not exist.
func (r *TransitionRepository) ListBySession(sessionID string) ([]*Transition, error) {
	var exists int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	rows, err := r.db.Query(
		`SELECT session_id, seq, from_state, to_state, fingers, at
		 FROM transitions WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transitions []*Transition
	for rows.Next() {
		t := &Transition{}
		if err := rows.Scan(&t.SessionID, &t.Seq, &t.From, &t.To, &t.Fingers, &t.At); err != nil {
			return nil, err
		}
		transitions = append(transitions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transitions, nil
}

// CountByState returns how many transitions entered each state in a session.
func (r *TransitionRepository) CountByState(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT to_state, COUNT(*) FROM transitions WHERE session_id = ? GROUP BY to_state`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, err
		}
		counts[state] = n
	}

	return counts, rows.Err()
}
