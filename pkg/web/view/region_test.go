package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionDiscardsStaleTicket(t *testing.T) {
	var r Region[ListView]

	first := r.Begin()
	second := r.Begin()

	assert.True(t, r.Render(second, NewListView(nil)))
	assert.False(t, r.Render(first, ListFailed()), "older load must not overwrite newer one")
	assert.Equal(t, StateEmpty, r.Content().State)
}

func TestRegionOnRender(t *testing.T) {
	var seen []State
	r := Region[ListView]{OnRender: func(v ListView) { seen = append(seen, v.State) }}

	tk := r.Begin()
	r.Render(tk, ListLoading())
	r.Render(tk, ListFailed())

	assert.Equal(t, []State{StateLoading, StateFailed}, seen)
}
