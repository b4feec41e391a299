package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"dedupe", []string{"dp", "bitset", "dp"}, []string{"dp", "bitset"}},
		{"trim and drop blanks", []string{"  dp ", "", "   ", "dp"}, []string{"dp"}},
		{"case sensitive", []string{"DP", "dp"}, []string{"DP", "dp"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeTags(tc.in))
		})
	}
}

func TestParseSolutionListSort(t *testing.T) {
	assert.Equal(t, SortVotes, ParseSolutionListSort("votes"))
	assert.Equal(t, SortLatest, ParseSolutionListSort("latest"))
	assert.Equal(t, SortLatest, ParseSolutionListSort(""))
	assert.Equal(t, SortLatest, ParseSolutionListSort("VOTES"))
}
