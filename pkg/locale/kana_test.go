package locale

import (
	"reflect"
	"testing"
)

func TestCompareKana(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"あおき", "さとう", -1},
		{"さとう", "あおき", 1},
		{"やまだ", "やまだ", 0},
		{"すずき", "たなか", -1},
	}
	for _, tt := range tests {
		if got := CompareKana(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareKana(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSortByKana_IgnoresInsertionOrder(t *testing.T) {
	type member struct{ name, kana string }

	insertions := [][]member{
		{
			{"山田太郎", "やまだたろう"},
			{"佐藤花子", "さとうはなこ"},
			{"鈴木一郎", "すずきいちろう"},
		},
		{
			{"鈴木一郎", "すずきいちろう"},
			{"山田太郎", "やまだたろう"},
			{"佐藤花子", "さとうはなこ"},
		},
	}
	want := []string{"さとうはなこ", "すずきいちろう", "やまだたろう"}

	for _, members := range insertions {
		SortByKana(members, func(m member) string { return m.kana })
		got := make([]string, len(members))
		for i, m := range members {
			got[i] = m.kana
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("sorted kana order = %v, want %v", got, want)
		}
	}
}
