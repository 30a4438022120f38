package view

import "time"

// FormatDate renders a millisecond timestamp as a short UTC date. The shell
// replaces it with the viewer's local date via the data-ts attribute.
func FormatDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("Jan 2, 2006")
}
