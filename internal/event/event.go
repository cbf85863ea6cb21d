package event

import "time"

// TimestampLayout is the human-readable capture time format used in API payloads.
const TimestampLayout = "2006-01-02 15:04:05"

// FilenameLayout is the timestamp portion of snapshot filenames, second precision.
// The microsecond suffix is appended separately because Go's reference layout
// has no bare microsecond verb.
const FilenameLayout = "20060102_150405"

// Event records one frame in which the tracked class was detected.
type Event struct {
	Timestamp string `json:"timestamp"` // capture time, TimestampLayout
	Filename  string `json:"filename"`  // unique join key to the stored snapshot
	Path      string `json:"path"`      // snapshot location on disk, owned by this event
	Count     int    `json:"count"`     // matching detections in the frame, >= 1
}

// Filename builds the snapshot filename for a capture time, unique down to
// the microsecond.
func Filename(t time.Time) string {
	return "cat_" + t.Format(FilenameLayout) + "_" + microSuffix(t) + ".jpg"
}

func microSuffix(t time.Time) string {
	us := t.Nanosecond() / 1000
	buf := [6]byte{'0', '0', '0', '0', '0', '0'}
	for i := 5; i >= 0 && us > 0; i-- {
		buf[i] = byte('0' + us%10)
		us /= 10
	}
	return string(buf[:])
}
