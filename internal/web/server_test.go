package web

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func TestModeFor(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", gin.DebugMode},
		{" DEBUG ", gin.DebugMode},
		{"info", gin.ReleaseMode},
		{"warn", gin.ReleaseMode},
		{"", gin.ReleaseMode},
	}
	for _, tt := range tests {
		if got := ModeFor(tt.level); got != tt.want {
			t.Errorf("ModeFor(%q) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
