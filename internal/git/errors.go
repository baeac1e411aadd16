package git

import "errors"

// ErrNotRepository is returned when a snapshot folder is not inside a git work tree.
var ErrNotRepository = errors.New("snapshot folder is not a git repository")
