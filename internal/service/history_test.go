package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupePreserveOrder(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"empty entries dropped", []string{"", "Q1", ""}, []string{"Q1"}},
		{"first occurrence wins", []string{"Q2", "Q1", "Q2", "Q3", "Q1"}, []string{"Q2", "Q1", "Q3"}},
		{"already unique", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DedupePreserveOrder(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, DedupePreserveOrder(got), "must be idempotent")
		})
	}
}

func TestMergeHistory_StoredFirst(t *testing.T) {
	got := MergeHistory([]string{"S1", "S2"}, []string{"S2", "C1", "", "S1"})
	assert.Equal(t, []string{"S1", "S2", "C1"}, got)
}

func TestUsedSet(t *testing.T) {
	used := UsedSet([]string{"Q1", "", "Q1", "Q2"})
	assert.Len(t, used, 2)
	assert.Contains(t, used, "Q1")
	assert.Contains(t, used, "Q2")
}

func TestRecentHistory(t *testing.T) {
	items := make([]string, 20)
	for i := range items {
		items[i] = string(rune('a' + i))
	}

	recent := RecentHistory(items, RecentHistoryLimit)
	assert.Len(t, recent, 12)
	assert.Equal(t, "i", recent[0])
	assert.Equal(t, "t", recent[11])

	assert.Equal(t, []string{"a", "b"}, RecentHistory([]string{"a", "b"}, 12))
	assert.Nil(t, RecentHistory(items, 0))
}

func TestQuestionKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"你最近在迷什麼歌/影片？", "你最近在迷什麼歌/影片"},
		{"（情侶）你最近在迷什麼歌/影片？", "你最近在迷什麼歌/影片"},
		{"【加碼題・情侶】你最近在迷什麼歌/影片？", "你最近在迷什麼歌/影片"},
		{" 說說你的週末 ", "說說你的週末"},
		{"Why?", "Why"},
		{"（沒有結尾", "（沒有結尾"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuestionKey(tt.in), tt.in)
	}
}
