package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"student", "quiz:view", true},
		{"student", "quiz:create", false},
		{"student", "attempt:view-all", false},
		{"faculty", "quiz:view-keys", true},
		{"faculty", "attempt:create", false},
		{"admin", "quiz:delete", true},
		{"admin", "anything:at-all", true},
		{"", "quiz:view", false},
		{"ghost-role", "quiz:view", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestMatchPermWildcard(t *testing.T) {
	c := NewChecker(map[string][]string{"grader": {"attempt:*"}})
	if !c.Has("grader", "attempt:view-all") {
		t.Error("trailing-* prefix should match")
	}
	if c.Has("grader", "quiz:view") {
		t.Error("prefix must not match a different namespace")
	}
	if !c.Any("grader", "quiz:view", "attempt:save") {
		t.Error("Any should pass when one permission matches")
	}
}

func TestRequireMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require("quiz:create")(next)

	cases := []struct {
		name string
		role string
		want int
	}{
		{"faculty allowed", "faculty", http.StatusNoContent},
		{"student forbidden", "student", http.StatusForbidden},
		{"no role forbidden", "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/quizzes", nil)
			if tc.role != "" {
				req = req.WithContext(WithRole(req.Context(), tc.role))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
