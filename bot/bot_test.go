package bot

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBot_UnknownCommandIgnored(t *testing.T) {
	f := newBotFixture()

	f.bot.HandleCommand(context.Background(), command("nonsense", "lobby", viewer("alice")))

	assert.Empty(t, f.sender.Sent())
	f.ledger.AssertExpectations(t)
	f.duels.AssertExpectations(t)
}

func TestBot_CommandNameIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	f := newBotFixture()

	f.ledger.On("GetBalance", ctx, "alice", "lobby").Return(float64(10), nil)

	f.bot.HandleCommand(ctx, command("CREDITS", "lobby", viewer("alice")))

	assert.Equal(t, "@alice You have 10 Credits.", f.sender.LastText())
}

func TestUser_DisplayNameFallsBackToUsername(t *testing.T) {
	u := User{Username: "alice"}
	assert.Equal(t, "alice", u.DisplayName())

	u.Display = "Alice"
	assert.Equal(t, "Alice", u.DisplayName())
}

func TestUser_HasPermission(t *testing.T) {
	assert.True(t, broadcaster("a").HasPermission(PermissionEveryone))
	assert.True(t, broadcaster("a").HasPermission(PermissionBroadcaster))
	assert.False(t, viewer("a").HasPermission(PermissionModerator))
	assert.True(t, User{Username: "a", Level: PermissionModerator}.HasPermission(PermissionModerator))
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 12.5, parseAmount("12.5"))
	assert.Equal(t, float64(-3), parseAmount("-3"))
	assert.True(t, math.IsNaN(parseAmount("abc")))
	assert.True(t, math.IsNaN(parseAmount("")))
}

func TestStripMention(t *testing.T) {
	assert.Equal(t, "bob", stripMention("@bob"))
	assert.Equal(t, "bob", stripMention("bob"))
}
