package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanCache struct {
	Project   string         `json:"project" yaml:"project"`
	Revisions map[string]int `json:"revisions" yaml:"revisions"`
}

func sampleCache() *scanCache {
	return &scanCache{
		Project: "brotli",
		Revisions: map[string]int{
			"21ac39f7c8": 5,
			"7620b02dd2": 4,
		},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		ext   string
	}{
		{"json", NewJSONCodec(), ".json"},
		{"json compact", &JSONCodec{}, ".json"},
		{"yaml", NewYAMLCodec(), ".yaml"},
		{"lz4 over json", NewLZ4Codec(NewJSONCodec()), ".json.lz4"},
		{"lz4 over yaml", NewLZ4Codec(NewYAMLCodec()), ".yaml.lz4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ext, tt.codec.Extension())

			dir := t.TempDir()
			err := SaveState(dir, "cache", tt.codec, sampleCache())
			require.NoError(t, err)

			var got scanCache
			err = LoadState(dir, "cache", tt.codec, &got)
			require.NoError(t, err)
			assert.Equal(t, *sampleCache(), got)
		})
	}
}

func TestSaveStateLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	err := SaveState(dir, "cache", NewJSONCodec(), sampleCache())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cache.json", entries[0].Name())
}

func TestLoadStateMissingFile(t *testing.T) {
	var got scanCache
	err := LoadState(t.TempDir(), "cache", NewJSONCodec(), &got)
	assert.Error(t, err)
}

func TestLoadStateMalformed(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "cache.json"), []byte("{not json"), 0o600)
	require.NoError(t, err)

	var got scanCache
	err = LoadState(dir, "cache", NewJSONCodec(), &got)
	assert.ErrorContains(t, err, "decode state")
}

func TestPersisterSaveLoad(t *testing.T) {
	dir := t.TempDir()
	persister := NewPersister[scanCache]("cache", NewYAMLCodec())

	err := persister.Save(dir, sampleCache)
	require.NoError(t, err)

	var restored *scanCache
	err = persister.Load(dir, func(state *scanCache) { restored = state })
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, *sampleCache(), *restored)
}

func TestPersisterLoadMissing(t *testing.T) {
	persister := NewPersister[scanCache]("cache", NewJSONCodec())

	called := false
	err := persister.Load(t.TempDir(), func(*scanCache) { called = true })
	assert.Error(t, err)
	assert.False(t, called)
}
