package auth

import "testing"

func TestSession_IsAuthenticated(t *testing.T) {
	if (Session{AccessToken: "A1"}).IsAuthenticated() {
		t.Fatalf("token without user should not be authenticated")
	}
	if (Session{User: &User{ID: 1}}).IsAuthenticated() {
		t.Fatalf("user without token should not be authenticated")
	}
	if !(Session{AccessToken: "A1", User: &User{ID: 1}}).IsAuthenticated() {
		t.Fatalf("expected authenticated")
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want string
	}{
		{name: "nil", user: nil, want: ""},
		{name: "full name wins", user: &User{FullName: "Ada L", FirstName: "A", Username: "ada"}, want: "Ada L"},
		{name: "first and last", user: &User{FirstName: "Ada", LastName: "Lovelace", Username: "ada"}, want: "Ada Lovelace"},
		{name: "first only", user: &User{FirstName: " Ada ", Username: "ada"}, want: "Ada"},
		{name: "username fallback", user: &User{Username: "ada"}, want: "ada"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FullName(tt.user); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		user *User
		want string
	}{
		{user: &User{FirstName: "ada", LastName: "lovelace"}, want: "AL"},
		{user: &User{FullName: "Grace Brewster Murray Hopper"}, want: "GB"},
		{user: &User{Username: "linus"}, want: "L"},
		{user: &User{}, want: ""},
		{user: nil, want: ""},
	}
	for _, tt := range tests {
		if got := Initials(tt.user); got != tt.want {
			t.Errorf("Initials(%+v) = %q, want %q", tt.user, got, tt.want)
		}
	}
}

func TestPermissions(t *testing.T) {
	owner := &User{ID: 7}
	staff := &User{ID: 8, IsStaff: true}
	admin := &User{ID: 9, IsSuperuser: true}

	if !CanEdit(owner, 7) || CanEdit(owner, 8) {
		t.Errorf("owner edit rules violated")
	}
	if !CanEdit(staff, 7) {
		t.Errorf("staff should edit any content")
	}
	if CanEdit(nil, 7) {
		t.Errorf("anonymous should not edit")
	}
	if CanModerate(owner) || !CanModerate(staff) || !CanModerate(admin) || CanModerate(nil) {
		t.Errorf("moderation rules violated")
	}
}
