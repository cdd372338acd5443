package flows

import "context"

// Service is the centralized flow runner built once by the authority.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Authenticate.Lookup != nil &&
		s.deps.Restore.Load != nil &&
		s.deps.End.Clear != nil
}

func (s Service) Authenticate(ctx context.Context, email, secret string) (*AuthenticateResult, error) {
	return RunAuthenticate(ctx, email, secret, s.deps.Authenticate)
}

func (s Service) Restore(ctx context.Context) RestoreResult {
	return RunRestore(ctx, s.deps.Restore)
}

func (s Service) End(ctx context.Context, subject EndSubject) error {
	return RunEnd(ctx, subject, s.deps.End)
}
