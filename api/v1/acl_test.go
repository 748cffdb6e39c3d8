package v1

import "testing"

func TestIsUnauthorizeAllowed(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{"POST", "/api/v1/signup", true},
		{"POST", "/api/v1/signin", true},
		{"GET", "/api/v1/books", true},
		{"GET", "/api/v1/books/12", true},
		{"GET", "/api/v1/categories", true},
		{"GET", "/api/v1/posts/3", true},
		{"GET", "/api/v1/scan/resolve", true},
		{"POST", "/api/v1/posts/3/like", true},
		{"POST", "/api/v1/posts/3/comments", true},
		{"POST", "/api/v1/posts/3/share", true},
		{"GET", "/api/v1/posts/3/comments", true},

		{"POST", "/api/v1/books", false},
		{"DELETE", "/api/v1/books/12", false},
		{"POST", "/api/v1/admin/posts", false},
		{"GET", "/api/v1/members", false},
		{"GET", "/api/v1/me", false},
		{"POST", "/api/v1/circulation/issue", false},
		{"POST", "/api/v1/feedback", false},
	}
	for _, tt := range tests {
		if got := isUnauthorizeAllowed(tt.method, tt.path); got != tt.want {
			t.Errorf("isUnauthorizeAllowed(%s %s) = %v, want %v", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestIsOnlyForStaffPath(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{"GET", "/api/v1/members", true},
		{"POST", "/api/v1/circulation/issue", true},
		{"POST", "/api/v1/feedback/moderate/4", true},
		{"GET", "/api/v1/reports/summary", true},
		{"POST", "/api/v1/settings/general", true},
		{"POST", "/api/v1/admin/posts", true},
		{"POST", "/api/v1/books", true},
		{"DELETE", "/api/v1/categories/2", true},

		{"GET", "/api/v1/books", false},
		{"GET", "/api/v1/categories", false},
		{"GET", "/api/v1/me", false},
		{"GET", "/api/v1/me/loans", false},
		{"POST", "/api/v1/feedback", false},
		{"POST", "/api/v1/posts/3/like", false},
	}
	for _, tt := range tests {
		if got := isOnlyForStaffPath(tt.method, tt.path); got != tt.want {
			t.Errorf("isOnlyForStaffPath(%s %s) = %v, want %v", tt.method, tt.path, got, tt.want)
		}
	}
}
