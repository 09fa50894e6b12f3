package storage

import "testing"

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{"", "index.html", "index.html"},
		{"", "/hello/index.html", "hello/index.html"},
		{"site", "index.html", "site/index.html"},
		{"site/v1", "blog/2/index.html", "site/v1/blog/2/index.html"},
	}

	for _, tt := range tests {
		if got := ObjectKey(tt.prefix, tt.key); got != tt.want {
			t.Errorf("ObjectKey(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
		}
	}
}
