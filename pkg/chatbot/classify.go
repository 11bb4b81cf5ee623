package chatbot

import "strings"

// qualityMarker prefixes a message the backend wants rendered specially:
// one marker hides the message, two pin it to the top list.
const qualityMarker = "#"

// Classify derives the display quality from the text's marker prefix. It is
// applied to bot replies and user-submitted text alike, so a user typing the
// marker is treated exactly like a bot message carrying it.
func Classify(text string) Quality {
	switch {
	case strings.HasPrefix(text, qualityMarker+qualityMarker):
		return QualityToplist
	case strings.HasPrefix(text, qualityMarker):
		return QualityInvisible
	default:
		return QualityNormal
	}
}
