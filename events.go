package filetree

// EventOp identifies what kind of mutation an Event describes.
type EventOp string

const (
	EventCreate EventOp = "create"
	EventRename EventOp = "rename"
	// EventDelete is emitted once per removed node; a cascading directory
	// delete produces one event per descendant plus the directory itself.
	EventDelete EventOp = "delete"
	// EventReset signals that the whole table was replaced; subscribers
	// holding per-id state should drop all of it.
	EventReset EventOp = "reset"
)

// Event is a change notification emitted by the store after a mutation
// commits. Caching collaborators invalidate the named id on rename/delete so
// they never serve stale reads.
type Event struct {
	Op EventOp `json:"op"`
	// ID of the affected node; empty for EventReset.
	ID string `json:"id,omitempty"`
	// Name carries the new name for create/rename events.
	Name string `json:"name,omitempty"`
}
