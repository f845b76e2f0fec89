package adapter

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Type:      "excel",
		Available: []string{"duckdb", "file"},
	}

	msg := err.Error()
	assert.Contains(t, msg, `"excel"`)
	assert.Contains(t, msg, "[duckdb file]")
	assert.Contains(t, msg, "leapiqr.yaml", "error should point at the config file")
}

func TestRegister(t *testing.T) {
	info := Info{Name: "test_registry_memory", Description: "in-test adapter", Targets: "anything"}
	var gotLogger *slog.Logger
	Register(info, func(logger *slog.Logger) Adapter {
		gotLogger = logger
		return nil
	})

	assert.True(t, IsRegistered(info.Name))
	got, ok := Lookup(info.Name)
	require.True(t, ok)
	assert.Equal(t, info, got)
	assert.Contains(t, ListAdapters(), info.Name)
	assert.Contains(t, Adapters(), info)

	factory, ok := Get(info.Name)
	require.True(t, ok)
	require.NotNil(t, factory)

	_, err := NewAdapter(Config{Type: info.Name}, nil)
	require.NoError(t, err)
	assert.NotNil(t, gotLogger, "a nil logger is replaced before reaching the factory")
}

func TestRegister_Invalid(t *testing.T) {
	assert.Panics(t, func() { Register(Info{}, func(*slog.Logger) Adapter { return nil }) })
	assert.Panics(t, func() { Register(Info{Name: "no_factory"}, nil) })
}

func TestAdapters_Sorted(t *testing.T) {
	Register(Info{Name: "zz_sorted"}, func(*slog.Logger) Adapter { return nil })
	Register(Info{Name: "aa_sorted"}, func(*slog.Logger) Adapter { return nil })

	names := ListAdapters()
	assert.IsIncreasing(t, names)
}

func TestNewAdapter_EmptyType(t *testing.T) {
	_, err := NewAdapter(Config{}, nil)
	require.Error(t, err, "NewAdapter with empty type should fail")
	assert.Equal(t, "adapter type not specified", err.Error())
}
