package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type fakeFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (f *fakeFeature) Name() string    { return f.name }
func (f *fakeFeature) IsEnabled() bool { return f.enabled }
func (f *fakeFeature) Load(fiber.Router) error {
	f.loaded = true
	return f.err
}

func TestLoadAll(t *testing.T) {
	on := &fakeFeature{name: "query", enabled: true}
	off := &fakeFeature{name: "peer"}

	mgr := NewManager()
	mgr.Register(on)
	mgr.Register(off)

	assert.NoError(t, mgr.LoadAll(fiber.New()))
	assert.True(t, on.loaded)
	assert.False(t, off.loaded)
	assert.Equal(t, []string{"query"}, mgr.Loaded())
}

func TestLoadAllStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	mgr := NewManager()
	mgr.Register(&fakeFeature{name: "broken", enabled: true, err: boom})
	mgr.Register(&fakeFeature{name: "after", enabled: true})

	err := mgr.LoadAll(fiber.New())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
	assert.Empty(t, mgr.Loaded())
}
