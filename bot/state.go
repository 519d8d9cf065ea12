package bot

// Stage represents the step of the booking flow a user is currently in.
type Stage int

const (
	StageIdle Stage = iota
	StageEnteringPatientName
	StageChoosingDoctor
	StageChoosingProcedure
	StageChoosingDate
	StageChoosingTime
	StageConfirming
)

// Session holds the in-progress booking draft of one user. It lives only
// in memory and is discarded on confirmation, cancellation or restart.
type Session struct {
	Stage       Stage
	PatientName string
	Doctor      string
	Procedure   string
	Date        string
	Time        string
}

// sessionStore maps user ids to their conversation sessions. Updates are
// delivered one at a time by the bot loop, so no locking is needed.
type sessionStore struct {
	sessions map[int64]*Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]*Session)}
}

// get returns the session for a user, creating an idle one on first touch.
func (s *sessionStore) get(userID int64) *Session {
	session, ok := s.sessions[userID]
	if !ok {
		session = &Session{Stage: StageIdle}
		s.sessions[userID] = session
	}
	return session
}

// reset discards the user's draft and returns the session to idle.
func (s *sessionStore) reset(userID int64) {
	s.sessions[userID] = &Session{Stage: StageIdle}
}
