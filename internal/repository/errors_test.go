package repository

import (
	"errors"
	"testing"
)

func TestIsDuplicate(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{errors.New("Error 1062 (23000): Duplicate entry 'admin' for key 'users.username'"), true},
		{errors.New("Error 1062 (23000): Duplicate entry '50100018' for key 'locations.venue_id'"), true},
		{errors.New("Error 1452 (23000): Cannot add or update a child row"), false},
		{errors.New("driver: bad connection"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := isDuplicate(tc.err); got != tc.want {
			t.Errorf("isDuplicate(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
