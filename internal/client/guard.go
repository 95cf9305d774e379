package client

// DecisionKind is what a route guard tells the UI to do.
type DecisionKind int

const (
	// Pending means the session is still being restored.
	Pending DecisionKind = iota
	// RedirectLogin sends an anonymous visitor to the login screen.
	RedirectLogin
	// RedirectHome sends a user whose role may not see the route home.
	RedirectHome
	// Render shows the requested route.
	Render
)

func (k DecisionKind) String() string {
	switch k {
	case Pending:
		return "pending"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case Render:
		return "render"
	}
	return "unknown"
}

// Decision is the outcome of Guard. From is the requested location to come
// back to after logging in.
type Decision struct {
	Kind DecisionKind
	From string
}

// Guard decides whether a route restricted to allowedRoles may render. An
// empty allowedRoles admits any logged-in user.
func Guard(session *Session, loading bool, allowedRoles []string, requested string) Decision {
	if loading {
		return Decision{Kind: Pending}
	}
	if session == nil || session.Token == "" {
		return Decision{Kind: RedirectLogin, From: requested}
	}
	if len(allowedRoles) == 0 {
		return Decision{Kind: Render}
	}
	for _, role := range allowedRoles {
		if role == session.User.UserType {
			return Decision{Kind: Render}
		}
	}
	return Decision{Kind: RedirectHome}
}
