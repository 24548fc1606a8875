package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSteamID64(t *testing.T) {
	assert.NoError(t, ValidateSteamID64("76561198000000001"))

	assert.Error(t, ValidateSteamID64(""))
	assert.Error(t, ValidateSteamID64("7656119800000000"))   // 16 digits
	assert.Error(t, ValidateSteamID64("765611980000000012")) // 18 digits
	assert.Error(t, ValidateSteamID64("7656119800000000x"))
	assert.Error(t, ValidateSteamID64(" 76561198000000001"))
}

func TestValidatePlayerName(t *testing.T) {
	assert.NoError(t, ValidatePlayerName("Gordon"))
	assert.NoError(t, ValidatePlayerName(strings.Repeat("a", MaxNameLength)))

	assert.Error(t, ValidatePlayerName(""))
	assert.Error(t, ValidatePlayerName("   "))
	assert.Error(t, ValidatePlayerName(strings.Repeat("a", MaxNameLength+1)))
}

func TestValidateServer(t *testing.T) {
	assert.NoError(t, ValidateServer("rust-main"))

	assert.Error(t, ValidateServer(""))
	assert.Error(t, ValidateServer(strings.Repeat("s", MaxServerLength+1)))
}

func TestValidateGiveawayName(t *testing.T) {
	assert.NoError(t, ValidateGiveawayName("Wipe Party"))

	assert.Error(t, ValidateGiveawayName(""))
	assert.Error(t, ValidateGiveawayName("  "))
	assert.Error(t, ValidateGiveawayName(strings.Repeat("n", MaxNameLength+1)))
}

func TestValidateDescription(t *testing.T) {
	assert.NoError(t, ValidateDescription(""))
	assert.NoError(t, ValidateDescription(strings.Repeat("d", MaxDescriptionLength)))

	assert.Error(t, ValidateDescription(strings.Repeat("d", MaxDescriptionLength+1)))
}
