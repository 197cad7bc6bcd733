package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("hub.endpoint", "https://datasets-server.example.org")
	viper.Set("hub.repos", map[string]string{"arc": "user/arc-bids"})
	viper.Set("hub.split", "train")

	cfg, err := Load[Config]()
	require.NoError(t, err)
	assert.Equal(t, "https://datasets-server.example.org", cfg.Hub.Endpoint)
	assert.Equal(t, "train", cfg.Hub.Split)

	repo, err := cfg.Hub.Repo("arc")
	require.NoError(t, err)
	assert.Equal(t, "user/arc-bids", repo)

	_, err = cfg.Hub.Repo("isles24")
	assert.ErrorContains(t, err, "no hub repository configured")
}

func TestLoadRejectsRelativeEndpoint(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("hub.endpoint", "not a url")

	_, err := Load[Config]()
	require.Error(t, err)
	assert.ErrorContains(t, err, "not an absolute URL")
}
