package dag

import "strings"

// Kind is the shape family of a process element. Every category maps to
// exactly one kind; the kind decides the element's display size.
type Kind int

const (
	// KindUnknown is any category not recognised below.
	KindUnknown Kind = iota
	// KindEvent covers start, end, intermediate and boundary events.
	KindEvent
	// KindTask covers plain tasks and every task subtype.
	KindTask
	// KindGateway covers every gateway subtype.
	KindGateway
	// KindSubProcess covers embedded sub-processes and transactions.
	KindSubProcess
	// KindCallActivity is a call to a reusable process.
	KindCallActivity
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindEvent:        "event",
	KindTask:         "task",
	KindGateway:      "gateway",
	KindSubProcess:   "sub-process",
	KindCallActivity: "call-activity",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnknown]
}

// Size is a display size in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Display sizes per kind. These are the contract with the renderer and with
// diagram-interchange consumers; keep them bit-exact.
var (
	SizeEvent        = Size{Width: 36, Height: 36}
	SizeTask         = Size{Width: 100, Height: 80}
	SizeGateway      = Size{Width: 50, Height: 50}
	SizeSubProcess   = Size{Width: 150, Height: 120}
	SizeCallActivity = Size{Width: 100, Height: 80}
	SizeDefault      = Size{Width: 100, Height: 80}
)

// Classify maps a category name to its kind. Matching ignores case, '-' and
// '_', so "startEvent", "start-event" and "START_EVENT" are equivalent.
func Classify(category string) Kind {
	c := normalizeCategory(category)
	switch {
	case c == "":
		return KindUnknown
	case c == "callactivity":
		return KindCallActivity
	case strings.HasSuffix(c, "subprocess"), c == "transaction":
		return KindSubProcess
	case strings.HasSuffix(c, "event"):
		return KindEvent
	case strings.HasSuffix(c, "gateway"):
		return KindGateway
	case strings.HasSuffix(c, "task"):
		return KindTask
	}
	return KindUnknown
}

// SizeOf returns the display size for a category. Unknown categories get
// [SizeDefault].
func SizeOf(category string) Size {
	switch Classify(category) {
	case KindEvent:
		return SizeEvent
	case KindTask:
		return SizeTask
	case KindGateway:
		return SizeGateway
	case KindSubProcess:
		return SizeSubProcess
	case KindCallActivity:
		return SizeCallActivity
	}
	return SizeDefault
}

func normalizeCategory(category string) string {
	var b strings.Builder
	b.Grow(len(category))
	for _, r := range strings.ToLower(strings.TrimSpace(category)) {
		if r == '-' || r == '_' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
