package messages

import "context"

// fallbackMessages is the built-in list used whenever the model is unavailable.
var fallbackMessages = []string{
	"深呼吸，慢下来。",
	"你已经做得很好了。",
	"休息一下也没关系。",
	"擦去烦恼。",
	"保持柔软。",
	"一步一个脚印。",
	"一切都会好起来的。",
	"生活原本沉闷，但跑起来就有风。",
	"今日宜：发呆。",
	"把不开心都丢掉。",
}

// Static serves messages from a fixed list.
type Static struct {
	lines []string
}

// NewStatic returns a Static source over the built-in fallback list.
func NewStatic() *Static {
	return &Static{lines: fallbackMessages}
}

// NewStaticFrom returns a Static source over custom lines.
// An empty list falls back to the built-in one.
func NewStaticFrom(lines []string) *Static {
	if len(lines) == 0 {
		return NewStatic()
	}
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &Static{lines: cp}
}

// Request returns the first count lines of the list.
func (s *Static) Request(_ context.Context, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}
	if count > len(s.lines) {
		count = len(s.lines)
	}
	out := make([]string, count)
	copy(out, s.lines[:count])
	return out, nil
}

// Len returns the number of lines available.
func (s *Static) Len() int {
	return len(s.lines)
}
