package jdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredMajor(t *testing.T) {
	cases := []struct {
		version string
		major   int
	}{
		{"1.21.1", 21},
		{"1.20.6", 21},
		{"1.20.5", 21},
		{"1.20.4", 17},
		{"1.20", 17},
		{"1.18", 17},
		{"1.17.1", 16},
		{"1.16.5", 8},
		{"1.8.9", 8},
		{"garbage", 8},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.major, RequiredMajor(tc.version), "version %s", tc.version)
	}
}

func TestParseMajorModern(t *testing.T) {
	output := `openjdk version "21.0.4" 2024-07-16 LTS
OpenJDK Runtime Environment Temurin-21.0.4+7 (build 21.0.4+7-LTS)`
	major, err := ParseMajor(output)
	require.NoError(t, err)
	assert.Equal(t, 21, major)
}

func TestParseMajorLegacy(t *testing.T) {
	output := `java version "1.8.0_392"
Java(TM) SE Runtime Environment (build 1.8.0_392-b08)`
	major, err := ParseMajor(output)
	require.NoError(t, err)
	assert.Equal(t, 8, major)
}

func TestParseMajorGarbage(t *testing.T) {
	_, err := ParseMajor("command not found")
	assert.Error(t, err)
}
