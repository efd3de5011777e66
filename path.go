package formz

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPath is returned when a value path cannot be parsed.
	ErrInvalidPath = errors.New("invalid value path")

	// ErrPathConflict is returned when a path addresses a sequence with a
	// non-numeric segment.
	ErrPathConflict = errors.New("value path conflicts with existing tree")
)

// Segment is one step of a parsed value path.
type Segment struct {
	// Key is the raw segment text. Mappings are always addressed by Key.
	Key string

	// Index is the numeric value of Key, or -1 when Key is not a
	// non-negative integer. Sequences are addressed by Index.
	Index int
}

// IsIndex reports whether the segment can address a sequence element.
func (s Segment) IsIndex() bool {
	return s.Index >= 0
}

func newSegment(key string) Segment {
	idx := -1
	if n, err := strconv.Atoi(key); err == nil && n >= 0 && key == strconv.Itoa(n) {
		idx = n
	}
	return Segment{Key: key, Index: idx}
}

// ParsePath splits a dotted/bracketed path into segments.
//
//	"user.email"        -> user, email
//	"items[2].name"     -> items, 2, name
//	"items.2.name"      -> items, 2, name
func ParsePath(path string) ([]Segment, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var (
		segs []Segment
		cur  strings.Builder
	)
	flush := func(pos int) error {
		if cur.Len() == 0 {
			return fmt.Errorf("%w: empty segment at %d in %q", ErrInvalidPath, pos, path)
		}
		segs = append(segs, newSegment(cur.String()))
		cur.Reset()
		return nil
	}

	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '.':
			if err := flush(i); err != nil {
				return nil, err
			}
		case '[':
			if cur.Len() > 0 {
				if err := flush(i); err != nil {
					return nil, err
				}
			} else if i > 0 && path[i-1] != ']' {
				return nil, fmt.Errorf("%w: unexpected '[' at %d in %q", ErrInvalidPath, i, path)
			}
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated '[' in %q", ErrInvalidPath, path)
			}
			seg := newSegment(path[i+1 : i+end])
			if !seg.IsIndex() {
				return nil, fmt.Errorf("%w: non-numeric index %q in %q", ErrInvalidPath, seg.Key, path)
			}
			segs = append(segs, seg)
			i += end
			// a bracket must be followed by end of path, '.' or another '['
			if i+1 < len(path) {
				switch path[i+1] {
				case '.':
					i++
					if i+1 >= len(path) {
						return nil, fmt.Errorf("%w: trailing '.' in %q", ErrInvalidPath, path)
					}
				case '[':
				default:
					return nil, fmt.Errorf("%w: unexpected %q after index in %q", ErrInvalidPath, path[i+1], path)
				}
			}
		case ']':
			return nil, fmt.Errorf("%w: unexpected ']' at %d in %q", ErrInvalidPath, i, path)
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		segs = append(segs, newSegment(cur.String()))
	} else if path[len(path)-1] == '.' {
		return nil, fmt.Errorf("%w: trailing '.' in %q", ErrInvalidPath, path)
	}
	return segs, nil
}

// GetAt returns the value stored at path inside tree. Missing branches,
// out-of-range indices and unparsable paths report false.
func GetAt(tree any, path string) (any, bool) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, false
	}
	return getSegments(tree, segs)
}

func getSegments(node any, segs []Segment) (any, bool) {
	for _, seg := range segs {
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[seg.Key]
			if !ok {
				return nil, false
			}
			node = v
		case []any:
			if !seg.IsIndex() || seg.Index >= len(n) {
				return nil, false
			}
			node = n[seg.Index]
		default:
			return nil, false
		}
	}
	return node, true
}

// SetAt returns a copy of tree with value stored at path. Every container on
// the path is rebuilt; containers off the path are shared with tree. Missing
// intermediates are created as a sequence when the following segment is an
// index and as a mapping otherwise. Scalars in the way are replaced. A
// sequence grows by at most maxIndexGap past its end; writes further out fail
// with ErrPathConflict.
func SetAt(tree map[string]any, path string, value any) (map[string]any, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		tree = map[string]any{}
	}
	out, err := setMapping(tree, segs, value, path)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func setSegments(node any, segs []Segment, value any, path string) (any, error) {
	if len(segs) == 0 {
		return value, nil
	}
	switch n := node.(type) {
	case map[string]any:
		return setMapping(n, segs, value, path)
	case []any:
		return setSequence(n, segs, value, path)
	default:
		if segs[0].IsIndex() {
			return setSequence(nil, segs, value, path)
		}
		return setMapping(nil, segs, value, path)
	}
}

func setMapping(m map[string]any, segs []Segment, value any, path string) (map[string]any, error) {
	seg := segs[0]
	child, err := setSegments(m[seg.Key], segs[1:], value, path)
	if err != nil {
		return nil, err
	}
	out := maps.Clone(m)
	if out == nil {
		out = make(map[string]any, 1)
	}
	out[seg.Key] = child
	return out, nil
}

func setSequence(s []any, segs []Segment, value any, path string) ([]any, error) {
	seg := segs[0]
	if !seg.IsIndex() {
		return nil, fmt.Errorf("%w: %q addresses a sequence with key %q", ErrPathConflict, path, seg.Key)
	}
	if seg.Index > len(s)+maxIndexGap {
		return nil, fmt.Errorf("%w: index %d out of range in %q", ErrPathConflict, seg.Index, path)
	}
	var existing any
	if seg.Index < len(s) {
		existing = s[seg.Index]
	}
	child, err := setSegments(existing, segs[1:], value, path)
	if err != nil {
		return nil, err
	}
	out := make([]any, max(len(s), seg.Index+1))
	copy(out, s)
	out[seg.Index] = child
	return out, nil
}

// maxIndexGap bounds how far past the end of a sequence SetAt may write.
const maxIndexGap = 1 << 10

// CloneTree returns a deep copy of the mappings and sequences in v. Leaf
// values are copied by assignment.
func CloneTree(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, child := range n {
			out[k] = CloneTree(child)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, child := range n {
			out[i] = CloneTree(child)
		}
		return out
	default:
		return v
	}
}
