package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCommandLine(t *testing.T) {
	data := map[string]string{"port": "25565"}
	command, args, err := GetCommandLine("ngrok", []string{"tcp", "{{.port}}"}, data)
	require.NoError(t, err)

	assert.Equal(t, "ngrok", command)
	assert.Equal(t, []string{"tcp", "25565"}, args)
}

func TestGetCommandLineBadTemplate(t *testing.T) {
	_, _, err := GetCommandLine("ngrok", []string{"{{.port"}, nil)
	assert.Error(t, err)
}

func TestPath2ProcessName(t *testing.T) {
	assert.Equal(t, "java", Path2ProcessName("/usr/bin/java"))
	assert.Equal(t, "java", Path2ProcessName(`java.exe`))
}
