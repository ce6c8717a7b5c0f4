package domain

// Session is the client's record of the currently authenticated user.
// A session is either fully absent or fully populated; no partial state is
// ever observable. Only the session manager mutates it, every other component
// reads snapshots.
type Session struct {
	User User
}

// Scope is the set of realtime events a session is entitled to receive.
type Scope struct {
	// AllStores is true for admins; they receive every store's events.
	AllStores bool
	// StoreID keys a manager's single-store scope.
	StoreID string
}

// ScopeFor derives the realtime subscription scope from a session.
func ScopeFor(s Session) Scope {
	if s.User.Role == RoleAdmin {
		return Scope{AllStores: true}
	}
	var storeID string
	if s.User.Store != nil {
		storeID = s.User.Store.ID
	}
	return Scope{StoreID: storeID}
}

// Allows reports whether an order event with the given store id may be
// rendered under this scope. Admin scopes accept everything; store scopes
// accept only their own store.
func (sc Scope) Allows(storeID string) bool {
	return sc.AllStores || sc.StoreID == storeID
}
