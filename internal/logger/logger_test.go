package logger

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		wantErr bool
	}{
		{"prod", "prod", "", false},
		{"local", "local", "", false},
		{"empty env falls back to dev", "", "", false},
		{"level override", "prod", "debug", false},
		{"bad level", "prod", "loud", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.env, tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q, %q) error = %v, wantErr %v", tt.env, tt.level, err, tt.wantErr)
			}
			if err == nil && l == nil {
				t.Fatal("expected a logger")
			}
		})
	}
}
