package app

import (
	"log/slog"
	"time"

	"github.com/ayusman/palmdrive/internal/store"
)

// journal writes a session and its transitions to the store. A nil journal
// or one without a store does nothing. Write failures are logged and never
// stop the loop.
type journal struct {
	store   *store.Store
	logger  *slog.Logger
	session *store.Session
}

func (a *App) beginJournal() *journal {
	j := &journal{store: a.config.Store, logger: a.logger}
	if j.store == nil {
		return j
	}

	sess := &store.Session{StartedAt: time.Now()}
	if err := j.store.Sessions().Create(sess); err != nil {
		a.logger.Warn("journal disabled for this run", "err", err)
		j.store = nil
		return j
	}
	j.session = sess

	a.updateStatus(func(s *Status) { s.Session = sess.ID })
	a.logger.Debug("journal session started", "session", sess.ID)
	return j
}

func (j *journal) record(t Transition) {
	if j == nil || j.store == nil {
		return
	}
	err := j.store.Transitions().Create(&store.Transition{
		SessionID: j.session.ID,
		Seq:       t.Seq,
		From:      string(t.From),
		To:        string(t.To),
		Fingers:   t.Fingers,
		At:        t.At,
	})
	if err != nil {
		j.logger.Warn("failed to journal transition", "seq", t.Seq, "err", err)
	}
}

func (j *journal) finish(summary Summary) {
	if j == nil || j.store == nil {
		return
	}
	if err := j.store.Sessions().Finish(j.session.ID, time.Now(), string(summary.Reason), summary.Frames); err != nil {
		j.logger.Warn("failed to close journal session", "session", j.session.ID, "err", err)
	}
}
