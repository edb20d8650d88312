package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilityOf(t *testing.T) {
	assert.Equal(t, CapabilityChat, CapabilityOf("chat"))
	assert.Equal(t, CapabilityBot, CapabilityOf("bot"))
	assert.Equal(t, CapabilitySEO, CapabilityOf("seo"))

	// desconhecidas colidem com o id global
	assert.Equal(t, CapabilityGlobal, CapabilityOf("unknown-tool"))
	assert.Equal(t, CapabilityGlobal, CapabilityOf(""))
	assert.Equal(t, CapabilityGlobal, CapabilityOf("Chat"))
}

func TestCapability_StringRoundTrip(t *testing.T) {
	for name, c := range capabilityNames {
		assert.Equal(t, name, c.String())
		assert.Equal(t, c, CapabilityOf(c.String()))
	}
	assert.Equal(t, "global", CapabilityGlobal.String())
	assert.Equal(t, "error", CapabilityError.String())
	assert.Equal(t, "unknown", Capability(42).String())
}
