package gitcore

// ObjectType mirrors git_object_t.
type ObjectType int32

const (
	ObjectAny     ObjectType = -2
	ObjectInvalid ObjectType = -1
	ObjectCommit  ObjectType = 1
	ObjectTree    ObjectType = 2
	ObjectBlob    ObjectType = 3
	ObjectTag     ObjectType = 4
)

func (t ObjectType) String() string {
	switch t {
	case ObjectCommit:
		return "commit"
	case ObjectTree:
		return "tree"
	case ObjectBlob:
		return "blob"
	case ObjectTag:
		return "tag"
	case ObjectAny:
		return "any"
	default:
		return "invalid"
	}
}
