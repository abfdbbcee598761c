package repository

import (
	"testing"
)

func TestDbDialectNameNilDB(t *testing.T) {
	if got := dbDialectName(nil); got != "sqlite" {
		t.Fatalf("nil db should default to sqlite, got %s", got)
	}
}

func TestLikeOperatorNilDB(t *testing.T) {
	if got := likeOperator(nil); got != "LIKE" {
		t.Fatalf("default like operator want LIKE got %s", got)
	}
}

func TestVideoSortExpr(t *testing.T) {
	cases := []struct {
		sortBy string
		want   string
	}{
		{sortBy: "title", want: "title DESC"},
		{sortBy: "duration", want: "duration DESC"},
		{sortBy: "created_at", want: "created_at DESC"},
		{sortBy: "", want: "created_at DESC"},
		{sortBy: "id; DROP TABLE videos", want: "created_at DESC"},
	}
	for _, tc := range cases {
		if got := videoSortExpr(tc.sortBy); got != tc.want {
			t.Fatalf("videoSortExpr(%q) want %s got %s", tc.sortBy, tc.want, got)
		}
	}
}
