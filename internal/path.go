package internal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Path is the decoded form of an item tree entry name: "{millis}_{id}".
type Path struct {
	Timestamp int64
	ID        string
}

// GeneratePath encodes id with the insertion time at.
func GeneratePath(id string, at time.Time) string {
	return Path{Timestamp: at.UnixMilli(), ID: id}.String()
}

// ParsePath splits name on its first underscore. Names that were not produced
// by GeneratePath yield ErrMalformedPath.
func ParsePath(name string) (Path, error) {
	prefix, id, ok := strings.Cut(name, "_")
	if !ok || id == "" {
		return Path{}, fmt.Errorf("%w: %q", ErrMalformedPath, name)
	}
	ts, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || ts < 0 {
		return Path{}, fmt.Errorf("%w: %q", ErrMalformedPath, name)
	}
	return Path{Timestamp: ts, ID: id}, nil
}

func (p Path) String() string {
	return strconv.FormatInt(p.Timestamp, 10) + "_" + p.ID
}

// Less orders paths by insertion time, then id.
func (p Path) Less(o Path) bool {
	if p.Timestamp != o.Timestamp {
		return p.Timestamp < o.Timestamp
	}
	return p.ID < o.ID
}
