package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevelsAndFormats(t *testing.T) {
	tests := []struct {
		level, format string
		want          zapcore.Level
		wantErr       bool
	}{
		{level: "", format: "", want: zapcore.InfoLevel},
		{level: "debug", format: "console", want: zapcore.DebugLevel},
		{level: "WARN", format: "json", want: zapcore.WarnLevel},
		{level: "loud", format: "json", wantErr: true},
		{level: "info", format: "xml", wantErr: true},
	}
	for _, tt := range tests {
		logger, err := New(tt.level, tt.format)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("New(%q,%q): expected error", tt.level, tt.format)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%q,%q): %v", tt.level, tt.format, err)
		}
		if !logger.Core().Enabled(tt.want) {
			t.Fatalf("New(%q,%q): level %s disabled", tt.level, tt.format, tt.want)
		}
		if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
			t.Fatalf("New(%q,%q): level below %s enabled", tt.level, tt.format, tt.want)
		}
	}
}
