package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore(t *testing.T) {
	s := NewSessionStore(time.Minute)

	assert.Equal(t, "", s.Get(1))

	s.Set(1, StateAwaitingWallet)
	assert.Equal(t, StateAwaitingWallet, s.Get(1))
	assert.Equal(t, "", s.Get(2))

	s.Clear(1)
	assert.Equal(t, "", s.Get(1))
}

func TestSessionStore_Expiry(t *testing.T) {
	s := NewSessionStore(10 * time.Millisecond)

	s.Set(1, StateAwaitingTwitter)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "", s.Get(1))
}
