package motion

import (
	"bytes"
	"encoding/json"
)

// Evaluate compares the current raw motion reading against the
// previous one for the same source: any change reads as motion. The
// returned previous value always advances to the current reading.
// Callers must seed previous with current on a source's first
// observation so a cold start never reports motion.
func Evaluate(current, previous json.RawMessage) (int, json.RawMessage) {
	if bytes.Equal(current, previous) {
		return 0, current
	}
	return 1, current
}
