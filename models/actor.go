package models

// Actor identifies the user behind the current request. A nil *Actor is
// the anonymous viewer. Handlers receive it explicitly instead of reading
// identity out of shared state.
type Actor struct {
	ID       uint
	Username string
}

// Owned is anything with a single owning user.
type Owned interface {
	OwnerID() uint
}

// CanMutate is the ownership guard: only the authenticated owner may edit
// or delete an entity. How a denial is answered (redirect for posts, hard
// 403 for comments) is decided by the caller, not here.
func CanMutate(actor *Actor, target Owned) bool {
	return actor != nil && actor.ID == target.OwnerID()
}
