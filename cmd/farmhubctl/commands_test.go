package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcomandos(t *testing.T) {
	root := rootCmd()
	for _, path := range [][]string{
		{"migrate"},
		{"bootstrap"},
		{"branch", "create"},
		{"branch", "list"},
		{"license", "status"},
		{"license", "purchase"},
		{"license", "renew"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, "%v", path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

// Los flags obligatorios se validan antes de tocar la base de datos.
func TestBootstrap_RequiereEmailYPassword(t *testing.T) {
	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"bootstrap", "--email", "admin@farmhub.example"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestBranchCreate_RequiereNombre(t *testing.T) {
	root := rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"branch", "create", "--location", "Valle"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestLicensePurchase_Defaults(t *testing.T) {
	cmd, _, err := rootCmd().Find([]string{"license", "purchase"})
	require.NoError(t, err)
	assert.Equal(t, "basic", cmd.Flag("plan").DefValue)
	assert.Equal(t, "365", cmd.Flag("days").DefValue)
}
