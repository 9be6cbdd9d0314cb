package storage

type Serializable interface {
	Serialize() ([]byte, error)
}

type IterItem struct {
	N     uint64
	Key   []byte
	Value []byte
}
