package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Quality
	}{
		{"double marker is toplist", "##best answer", QualityToplist},
		{"bare double marker is toplist", "##", QualityToplist},
		{"single marker is invisible", "#internal note", QualityInvisible},
		{"bare single marker is invisible", "#", QualityInvisible},
		{"plain text is normal", "hello there", QualityNormal},
		{"empty string is normal", "", QualityNormal},
		{"marker inside text is normal", "price #1", QualityNormal},
		{"user-typed marker classifies like bot text", "#whisper", QualityInvisible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}
