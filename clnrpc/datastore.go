package clnrpc

// DatastoreMode selects the write semantics of the `datastore` RPC.
type DatastoreMode string

const (
	// ModeMustCreate fails if the key already exists.
	ModeMustCreate DatastoreMode = "must-create"

	// ModeMustReplace fails if the key does not already exist, and
	// (when Generation is set) if the existing generation doesn't
	// match, implementing compare-and-set.
	ModeMustReplace DatastoreMode = "must-replace"

	// ModeCreateOrReplace always succeeds, overwriting any existing
	// value regardless of generation.
	ModeCreateOrReplace DatastoreMode = "create-or-replace"
)

type datastoreParams struct {
	Key        []string      `json:"key"`
	String     string        `json:"string"`
	Mode       DatastoreMode `json:"mode"`
	Generation *uint64       `json:"generation,omitempty"`
}

// DatastoreResult is the host's response to `datastore`.
type DatastoreResult struct {
	Key        []string `json:"key"`
	Generation uint64   `json:"generation"`
	String     string   `json:"string"`
}

// Datastore writes key to value with the given mode. When generation is
// non-nil, it's passed through for compare-and-set semantics under
// ModeMustReplace.
func (c *Client) Datastore(key []string, value string, mode DatastoreMode, generation *uint64) (*DatastoreResult, error) {
	params := datastoreParams{
		Key:        key,
		String:     value,
		Mode:       mode,
		Generation: generation,
	}

	var res DatastoreResult
	if err := c.call("datastore", params, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

type listDatastoreParams struct {
	Key []string `json:"key"`
}

// ListDatastoreEntry is a single key/value pair as returned by
// `listdatastore`.
type ListDatastoreEntry struct {
	Key        []string `json:"key"`
	Generation uint64   `json:"generation"`
	String     string   `json:"string"`
}

type listDatastoreResult struct {
	Datastore []ListDatastoreEntry `json:"datastore"`
}

// ListDatastore lists every entry whose key has prefix (or every entry, if
// prefix is nil).
func (c *Client) ListDatastore(prefix []string) ([]ListDatastoreEntry, error) {
	var res listDatastoreResult
	if err := c.call("listdatastore", listDatastoreParams{Key: prefix}, &res); err != nil {
		return nil, err
	}
	return res.Datastore, nil
}

type delDatastoreParams struct {
	Key []string `json:"key"`
}

// DelDatastore deletes a single key. Any error the host returns, including
// one for a key that doesn't exist, is passed back as KindRPC.
func (c *Client) DelDatastore(key []string) error {
	return c.call("deldatastore", delDatastoreParams{Key: key}, nil)
}
