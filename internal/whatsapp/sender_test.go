package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhoneNumber(t *testing.T) {
	// bare local numbers get the country code
	assert.Equal(t, "5511987654321", formatPhoneNumber("11987654321"))
	assert.Equal(t, "551134567890", formatPhoneNumber("1134567890"))

	// formatting characters are stripped
	assert.Equal(t, "5511987654321", formatPhoneNumber("(11) 98765-4321"))

	// already-international numbers pass through
	assert.Equal(t, "5511987654321", formatPhoneNumber("+55 11 98765-4321"))
}
