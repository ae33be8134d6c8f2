package usecase

import "context"

// Session carries the caller identity and the lead selected in the UI for
// the duration of one request.
type Session struct {
	ID           string
	User         string
	SelectedLead string
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
