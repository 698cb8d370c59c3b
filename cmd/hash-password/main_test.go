package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRunHashesFlag(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--password", "admin123"}, strings.NewReader(""), &out))

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("admin123")))
}

func TestRunReadsStdin(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, strings.NewReader("from-stdin\n"), &out))

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("from-stdin")))
}

func TestRunRejectsEmptyPassword(t *testing.T) {
	var out bytes.Buffer
	err := run(nil, strings.NewReader("\n"), &out)
	assert.EqualError(t, err, "password must not be empty")
	assert.Empty(t, out.String())
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	err := run([]string{"--nope"}, strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}
