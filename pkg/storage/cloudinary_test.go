package storage

import "testing"

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712345678/educonnect/sample.jpg", "educonnect/sample"},
		{"https://res.cloudinary.com/demo/image/upload/educonnect/posts/photo.webp", "educonnect/posts/photo"},
		{"https://res.cloudinary.com/demo/image/upload/video.mp4", "video"},
		{"https://res.cloudinary.com/demo/image/upload/", ""},
		{"https://example.com/no-upload-segment.png", ""},
		{"://bad", ""},
	}

	for _, tt := range tests {
		if got := PublicIDFromURL(tt.url); got != tt.want {
			t.Errorf("PublicIDFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
