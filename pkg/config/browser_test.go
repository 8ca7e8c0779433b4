package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserSectionDefaults(t *testing.T) {
	s := NewBrowserSection()

	assert.False(t, s.IsEnabled())
	assert.True(t, s.IsHeadless())
	assert.Equal(t, 5, s.GetMaxSessions())
	assert.Equal(t, 5*time.Minute, s.GetIdleTimeout())
	assert.Equal(t, 4000, s.GetStateTokenBudget())

	allowed, denied := s.GetURLPatterns()
	assert.Empty(t, allowed)
	assert.Empty(t, denied)

	assert.NoError(t, s.Validate())
}

func TestBrowserSectionSetData(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]interface{}
		check   func(t *testing.T, s *BrowserSection)
		wantErr bool
	}{
		{
			name: "applies full settings",
			data: map[string]interface{}{
				"enabled":            true,
				"headless":           false,
				"max_sessions":       float64(3), // JSON numbers decode as float64
				"idle_timeout":       "2m",
				"state_token_budget": float64(8000),
				"allowed_urls":       []interface{}{"https://*.example.com/*"},
				"denied_urls":        []interface{}{"*://*/logout*"},
			},
			check: func(t *testing.T, s *BrowserSection) {
				assert.True(t, s.IsEnabled())
				assert.False(t, s.IsHeadless())
				assert.Equal(t, 3, s.GetMaxSessions())
				assert.Equal(t, 2*time.Minute, s.GetIdleTimeout())
				assert.Equal(t, 8000, s.GetStateTokenBudget())
				allowed, denied := s.GetURLPatterns()
				assert.Equal(t, []string{"https://*.example.com/*"}, allowed)
				assert.Equal(t, []string{"*://*/logout*"}, denied)
			},
		},
		{
			name:    "rejects wrong type for enabled",
			data:    map[string]interface{}{"enabled": "yes"},
			wantErr: true,
		},
		{
			name:    "rejects malformed idle_timeout",
			data:    map[string]interface{}{"idle_timeout": "soon"},
			wantErr: true,
		},
		{
			name:    "rejects non-string url pattern",
			data:    map[string]interface{}{"denied_urls": []interface{}{42}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBrowserSection()
			err := s.SetData(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestBrowserSectionSetDataAtomic(t *testing.T) {
	s := NewBrowserSection()

	err := s.SetData(map[string]interface{}{
		"enabled":      true,
		"max_sessions": float64(9),
		"idle_timeout": "soon",
	})
	require.Error(t, err)

	// A rejected update must not leave any key applied
	assert.False(t, s.IsEnabled())
	assert.Equal(t, 5, s.GetMaxSessions())
	assert.Equal(t, 5*time.Minute, s.GetIdleTimeout())
}

func TestBrowserSectionValidate(t *testing.T) {
	s := NewBrowserSection()
	require.NoError(t, s.SetData(map[string]interface{}{"max_sessions": float64(0)}))
	assert.Error(t, s.Validate())

	s.Reset()
	assert.NoError(t, s.Validate())

	require.NoError(t, s.SetData(map[string]interface{}{"state_token_budget": float64(10)}))
	assert.Error(t, s.Validate())
}

func TestBrowserSectionRoundTripThroughStore(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	store, err := NewFileStore(configPath)
	require.NoError(t, err)

	manager := NewManager(store)
	section := NewBrowserSection()
	section.SetEnabled(true)
	require.NoError(t, section.SetData(map[string]interface{}{
		"allowed_urls": []interface{}{"https://docs.example.com/*"},
	}))
	require.NoError(t, manager.RegisterSection(section))
	require.NoError(t, manager.SaveAll())

	// Reload into a fresh manager
	store2, err := NewFileStore(configPath)
	require.NoError(t, err)
	manager2 := NewManager(store2)
	section2 := NewBrowserSection()
	require.NoError(t, manager2.RegisterSection(section2))
	require.NoError(t, manager2.LoadAll())

	assert.True(t, section2.IsEnabled())
	allowed, _ := section2.GetURLPatterns()
	assert.Equal(t, []string{"https://docs.example.com/*"}, allowed)
}

func TestGlobalConfigAccessors(t *testing.T) {
	ResetForTesting()
	t.Cleanup(ResetForTesting)

	assert.Nil(t, GetBrowser())
	assert.False(t, IsBrowserEnabled())

	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Initialize(configPath))

	browser := GetBrowser()
	require.NotNil(t, browser)
	assert.False(t, IsBrowserEnabled())

	browser.SetEnabled(true)
	assert.True(t, IsBrowserEnabled())
}
