package settings_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/bind/pkg/binding"
	"github.com/go-drift/bind/pkg/settings"
)

func storeAt(t *testing.T, contents string) *settings.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if contents != "" {
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}
	return settings.NewStore(path)
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := storeAt(t, "")

	require.NoError(t, s.Load())
	assert.Equal(t, 0, s.Len())
}

func TestStore_LoadInvalidYAML(t *testing.T) {
	s := storeAt(t, "theme: [unterminated")

	assert.Error(t, s.Load())
}

func TestStore_Load(t *testing.T) {
	s := storeAt(t, "theme: dark\nfont_size: 14\nsound: true\nscale: 1.5\n")

	require.NoError(t, s.Load())

	theme, ok := s.GetString("theme")
	require.True(t, ok)
	assert.Equal(t, "dark", theme)

	size, ok := s.GetInt("font_size")
	require.True(t, ok)
	assert.Equal(t, 14, size)

	sound, ok := s.GetBool("sound")
	require.True(t, ok)
	assert.True(t, sound)

	scale, ok := s.GetFloat("scale")
	require.True(t, ok)
	assert.Equal(t, 1.5, scale)

	assert.Equal(t, []string{"font_size", "scale", "sound", "theme"}, s.Keys())
}

func TestStore_TypedGetterMismatch(t *testing.T) {
	s := storeAt(t, "theme: dark\n")
	require.NoError(t, s.Load())

	_, ok := s.GetInt("theme")
	assert.False(t, ok)
	_, ok = s.GetString("missing")
	assert.False(t, ok)
}

func TestStore_GetIntCoercesFloat(t *testing.T) {
	s := storeAt(t, "")
	s.Set("width", 800.0)

	width, ok := s.GetInt("width")
	require.True(t, ok)
	assert.Equal(t, 800, width)
}

func TestStore_SetNotifies(t *testing.T) {
	s := storeAt(t, "")

	var received []binding.PropertyChange
	s.AddPropertyListener(func(change binding.PropertyChange) {
		received = append(received, change)
	})

	s.Set("theme", "dark")
	s.Set("theme", "dark") // unchanged: no notification
	s.Set("theme", "light")

	require.Len(t, received, 2)
	assert.Equal(t, "theme", received[0].Name)
	assert.Equal(t, "dark", received[0].Value)
	assert.Equal(t, "light", received[1].Value)
}

func TestStore_DeleteNotifiesWithNilValue(t *testing.T) {
	s := storeAt(t, "")
	s.Set("theme", "dark")

	var received []binding.PropertyChange
	s.AddPropertyListener(func(change binding.PropertyChange) {
		received = append(received, change)
	})

	s.Delete("theme")
	s.Delete("theme") // absent: no notification

	require.Len(t, received, 1)
	assert.Equal(t, "theme", received[0].Name)
	assert.Nil(t, received[0].Value)

	_, ok := s.Get("theme")
	assert.False(t, ok)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	s := settings.NewStore(path)
	s.Set("theme", "dark")
	s.Set("font_size", 14)
	require.NoError(t, s.Save())

	reloaded := settings.NewStore(path)
	require.NoError(t, reloaded.Load())

	theme, ok := reloaded.GetString("theme")
	require.True(t, ok)
	assert.Equal(t, "dark", theme)

	size, ok := reloaded.GetInt("font_size")
	require.True(t, ok)
	assert.Equal(t, 14, size)
}

func TestStore_LoadRaisesDiffsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: dark\nfont_size: 14\n"), 0o644))

	s := settings.NewStore(path)
	require.NoError(t, s.Load())

	var received []binding.PropertyChange
	s.AddPropertyListener(func(change binding.PropertyChange) {
		received = append(received, change)
	})

	// theme changes, font_size stays, sound appears
	require.NoError(t, os.WriteFile(path, []byte("theme: light\nfont_size: 14\nsound: true\n"), 0o644))
	require.NoError(t, s.Load())

	require.Len(t, received, 2)
	assert.Equal(t, "sound", received[0].Name)
	assert.Equal(t, true, received[0].Value)
	assert.Equal(t, "theme", received[1].Name)
	assert.Equal(t, "light", received[1].Value)

	// removing a key raises a nil-valued change
	received = nil
	require.NoError(t, os.WriteFile(path, []byte("theme: light\nfont_size: 14\n"), 0o644))
	require.NoError(t, s.Load())

	require.Len(t, received, 1)
	assert.Equal(t, "sound", received[0].Name)
	assert.Nil(t, received[0].Value)
}

func TestStore_BindsThroughManager(t *testing.T) {
	s := storeAt(t, "")

	m := binding.NewManager()
	var received []binding.PropertyChange
	b := binding.BindProperty(m, s.Source(), "theme", func(change binding.PropertyChange) {
		received = append(received, change)
	})
	defer b.Unbind()

	s.Set("theme", "dark")
	s.Set("font_size", 14)

	require.Len(t, received, 1)
	assert.Equal(t, "dark", received[0].Value)
}

func TestStore_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: dark\n"), 0o644))

	s := settings.NewStore(path)
	require.NoError(t, s.Load())

	stop, err := s.Watch()
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("theme: light\n"), 0o644))

	assert.Eventually(t, func() bool {
		theme, ok := s.GetString("theme")
		return ok && theme == "light"
	}, 5*time.Second, 25*time.Millisecond)
}

func TestStore_WatchStopTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s := settings.NewStore(path)

	stop, err := s.Watch()
	require.NoError(t, err)

	stop()
	stop()
}
