package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte("version: 7400\nlog_level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, uint32(7400), c.Version)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, ":8000", c.Listen)
	assert.Equal(t, "fbxdoc 1.0.0", c.Creator)
}

func TestApply(t *testing.T) {
	defer SetFBXVersion(FBX2019)
	defer SetEncoding(GetEncoding().String())

	c := Default()
	c.Version = 7500
	c.Encoding = "Windows 1251"
	require.NoError(t, c.Apply())
	assert.Equal(t, FBX2016, GetFBXVersion())
	assert.Equal(t, "Windows 1251", GetEncoding().String())

	c.Version = 6100
	assert.Error(t, c.Apply())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("version: [1, 2"))
	assert.Error(t, err)
}
