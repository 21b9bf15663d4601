package serializer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sampleRow struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Image     string `json:"image" yaml:"image"`
	Created   int64  `json:"created" yaml:"created"`
}

func TestWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)

	err := w.Serialize(sampleRow{Namespace: "apps", Image: "repo@sha256:abc", Created: 42})
	require.NoError(t, err)

	var got sampleRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "apps", got.Namespace)
	assert.Equal(t, int64(42), got.Created)
}

func TestWriterYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)

	err := w.Serialize(sampleRow{Namespace: "apps", Image: "repo@sha256:abc"})
	require.NoError(t, err)

	var got sampleRow
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "repo@sha256:abc", got.Image)
}

func TestWriterTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	err := w.Serialize(map[string]any{"namespace": "apps", "count": 3})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "namespace")
	assert.Contains(t, out, "apps")
}

func TestWriterTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(struct{}{}))
	assert.Contains(t, buf.String(), "<empty>")
}

func TestWriterUnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("bogus"), &buf)

	require.NoError(t, w.Serialize(sampleRow{Namespace: "x"}))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestFormatIsUnknown(t *testing.T) {
	assert.False(t, FormatJSON.IsUnknown())
	assert.False(t, FormatYAML.IsUnknown())
	assert.False(t, FormatTable.IsUnknown())
	assert.True(t, Format("xml").IsUnknown())
}

func TestSupportedFormats(t *testing.T) {
	assert.ElementsMatch(t, []string{"json", "yaml", "table"}, SupportedFormats())
}
