package middleware

import "testing"

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"case insensitive scheme", "bearer abc", "abc", true},
		{"empty header", "", "", false},
		{"scheme only", "Bearer ", "", false},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", false},
		{"no scheme", "abc.def.ghi", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := bearerToken(tt.header)
			if ok != tt.ok {
				t.Fatalf("bearerToken(%q) ok = %v, want %v", tt.header, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
