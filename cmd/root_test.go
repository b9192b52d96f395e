package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	setDefaults()
	t.Cleanup(func() {
		viper.Reset()
		setDefaults()
	})
}

func TestGetConfigDefaults(t *testing.T) {
	resetConfig(t)

	config, err := getConfig()
	require.NoError(t, err)

	assert.Equal(t, "data/cv_applications.csv", config.Input)
	assert.Equal(t, "data/cv_with_domains.csv", config.Output)
	assert.Equal(t, "downloaded_cvs", config.CVDir)
	assert.Equal(t, 5, config.BatchSize)
	assert.Equal(t, 50, config.MinTextLength)
	assert.Equal(t, 1000, config.PreviewLength)
	require.NotNil(t, config.Contacts)
	assert.Equal(t, 20, config.Contacts.MinimumConfidence)
	assert.Equal(t, "data/contact_log.json", config.Contacts.LogFile)
	assert.Equal(t, "data/contacts.xlsx", config.Contacts.Export)

	pc := config.pipelineConfig()
	assert.Equal(t, 5, pc.BatchSize)

	fc := config.filteringConfig()
	assert.Equal(t, 20, fc.MinimumConfidence)
	assert.Equal(t, "data/contact_log.json", fc.ContactLogFile)
}

func TestGetConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "batch size below one", key: "batch-size", value: 0},
		{name: "empty input", key: "input", value: ""},
		{name: "confidence above 100", key: "contacts.minimum-confidence", value: 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetConfig(t)
			viper.Set(tt.key, tt.value)

			_, err := getConfig()
			require.Error(t, err)
		})
	}
}

func TestProfileTableOverrides(t *testing.T) {
	resetConfig(t)
	viper.Set("weights", map[string]any{"tools": 20})
	viper.Set("profiles", []any{
		map[string]any{"name": "Data Engineering", "primary": []any{"data engineer"}, "tools": []any{"spark", "airflow"}},
	})

	config, err := getConfig()
	require.NoError(t, err)

	table, err := config.profileTable()
	require.NoError(t, err)

	assert.Equal(t, []string{"Data Engineering"}, table.Names())
	assert.Equal(t, 20, table.Weight("tools"))
	assert.Equal(t, 15, table.Weight("primary"))
}

func TestProfileTableDefaults(t *testing.T) {
	resetConfig(t)

	config, err := getConfig()
	require.NoError(t, err)

	table, err := config.profileTable()
	require.NoError(t, err)
	assert.Len(t, table.Names(), 7)
}
