package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal_CanManage(t *testing.T) {
	tests := []struct {
		name    string
		p       Principal
		ownerID string
		want    bool
	}{
		{"owner", Principal{UserID: "u1"}, "u1", true},
		{"stranger", Principal{UserID: "u2"}, "u1", false},
		{"admin", Principal{UserID: "u2", IsAdmin: true}, "u1", true},
		{"anonymous vs ownerless", Principal{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.CanManage(tt.ownerID))
		})
	}
}

func TestEventUpdate_Empty(t *testing.T) {
	assert.True(t, EventUpdate{}.Empty())
	title := "x"
	assert.False(t, EventUpdate{Title: &title}.Empty())
	date := time.Now()
	assert.False(t, EventUpdate{EventDate: &date}.Empty())
}
