package diff

// Op is the change classification for one item id.
type Op string

// Change operations.
const (
	OpAdded    Op = "added"
	OpRemoved  Op = "removed"
	OpModified Op = "modified"
	OpMoved    Op = "moved"
)

// LinkDelta reports the linkTo edges gained and lost by one item.
// Order follows the owning tree's attribute order, so output is stable.
type LinkDelta struct {
	Added   []string `json:"added,omitempty" bson:"added,omitempty"`
	Removed []string `json:"removed,omitempty" bson:"removed,omitempty"`
}

// Change is one record of the changeset. Path is the human-readable
// walk from the map root through effective titles; it exists for
// display and grouping only and has no effect on classification.
//
// Field-level deltas are filled as applicable: title and instanceOf
// old/new pairs, the link delta, and for moves the old and new parent
// ids (empty string meaning "a map root").
type Change struct {
	Op   Op     `json:"op" bson:"op"`
	ID   string `json:"id" bson:"id"`
	Map  string `json:"map" bson:"map"`
	Path string `json:"path" bson:"path"`

	TitleChanged bool   `json:"title_changed,omitempty" bson:"title_changed,omitempty"`
	OldTitle     string `json:"old_title,omitempty" bson:"old_title,omitempty"`
	NewTitle     string `json:"new_title,omitempty" bson:"new_title,omitempty"`

	Links *LinkDelta `json:"links,omitempty" bson:"links,omitempty"`

	InstanceChanged bool   `json:"instance_changed,omitempty" bson:"instance_changed,omitempty"`
	OldInstanceOf   string `json:"old_instance_of,omitempty" bson:"old_instance_of,omitempty"`
	NewInstanceOf   string `json:"new_instance_of,omitempty" bson:"new_instance_of,omitempty"`

	OldParent string `json:"old_parent,omitempty" bson:"old_parent,omitempty"`
	NewParent string `json:"new_parent,omitempty" bson:"new_parent,omitempty"`
}
