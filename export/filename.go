// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import "strings"

var unsafeFilenameChars = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// SanitizeFilename replaces characters that are not allowed in file names
// on common filesystems with underscores.
func SanitizeFilename(s string) string {
	return unsafeFilenameChars.Replace(s)
}

// BoardFilename is the download name for a participant's exported board:
// "<name>_<title>_tier.png". A blank name becomes "you" and a blank title
// becomes "Tier".
func BoardFilename(name, title string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "you"
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Tier"
	}
	return SanitizeFilename(name + "_" + title + "_tier.png")
}
