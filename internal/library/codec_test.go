package library

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = "1,Library,1,0,0,0;" +
	"10,Explosions,1,1,0,0;" +
	"100,Boom,0,10,1000,500;" +
	"101,Click,0,10,200,100;" +
	"11,Empty,1,1,0,0;" +
	"12,Animals,1,1,0,0;" +
	"13,Birds,1,12,0,0;" +
	"42,Chirp,0,13,300,50" +
	"|Some Author,https://example.com/author;Other,https://example.com/other"

func encodeText(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return []byte(base64.URLEncoding.EncodeToString(buf.Bytes()))
}

func TestParse_BuildsTree(t *testing.T) {
	lib, err := Parse(sampleManifest)
	require.NoError(t, err)

	assert.Equal(t, sampleTree(), lib.Root)
	assert.Zero(t, lib.Orphans)
	assert.Equal(t, []Credit{
		{Name: "Some Author", Link: "https://example.com/author"},
		{Name: "Other", Link: "https://example.com/other"},
	}, lib.Credits)
}

func TestParse_ChildBeforeParent(t *testing.T) {
	lib, err := Parse("5,Late Sound,0,2,10,20;1,Library,1,0,0,0;2,Folder,1,1,0,0|")
	require.NoError(t, err)

	require.Len(t, lib.Root.Children, 1)
	assert.Equal(t, []string{"Late Sound"}, names(lib.Root.Children[0].Children))
	assert.Empty(t, lib.Credits)
}

func TestParse_NameWithSeparator(t *testing.T) {
	lib, err := Parse("1,Library,1,0,0,0;7,Hit, heavy,0,1,64,12")
	require.NoError(t, err)

	require.Len(t, lib.Root.Children, 1)
	sound := lib.Root.Children[0]
	assert.Equal(t, "Hit, heavy", sound.Name)
	assert.Equal(t, int64(64), sound.Bytes)
	assert.Equal(t, Duration(12), sound.Duration)
}

func TestParse_Orphans(t *testing.T) {
	lib, err := Parse("1,Library,1,0,0,0;2,Lost,0,77,1,1;3,Dup Root,1,0,0,0;4,Self,1,4,0,0")
	require.NoError(t, err)

	assert.Empty(t, lib.Root.Children)
	assert.Equal(t, 3, lib.Orphans)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrNoRoot)

	_, err = Parse("2,Folder,1,1,0,0")
	assert.ErrorIs(t, err, ErrNoRoot)

	_, err = Parse("1,Library,1,0,0,0;x,Bad,0,1,0,0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
	assert.Contains(t, err.Error(), "invalid id")

	_, err = Parse("1,Library,1,0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 6 fields")
}

func TestDecode(t *testing.T) {
	text, err := Decode(encodeText(t, sampleManifest))
	require.NoError(t, err)
	assert.Equal(t, sampleManifest, string(text))

	// unpadded payloads are accepted too
	padded := encodeText(t, "1,Library,1,0,0,0|")
	text, err = Decode(bytes.TrimRight(padded, "="))
	require.NoError(t, err)
	assert.Equal(t, "1,Library,1,0,0,0|", string(text))

	_, err = Decode([]byte("  "))
	assert.Error(t, err)

	_, err = Decode([]byte("!!!not base64!!!"))
	assert.Error(t, err)

	_, err = Decode([]byte(base64.URLEncoding.EncodeToString([]byte("not zlib"))))
	assert.Error(t, err)
}

func TestEncode_ParsesBack(t *testing.T) {
	lib := &Library{
		Root:    sampleTree(),
		Credits: []Credit{{Name: "A", Link: "https://a.example"}},
	}

	data, err := Encode(lib)
	require.NoError(t, err)

	text, err := Decode(data)
	require.NoError(t, err)
	parsed, err := Parse(string(text))
	require.NoError(t, err)

	assert.Equal(t, lib.Root, parsed.Root)
	assert.Equal(t, lib.Credits, parsed.Credits)

	_, err = Encode(&Library{})
	assert.True(t, errors.Is(err, ErrNoRoot))
}

func TestFormatRecord(t *testing.T) {
	assert.Equal(t, "100,Boom,0,10,1000,500", FormatRecord(NewSound(100, "Boom", 10, 500, 1000)))
	assert.Equal(t, "10,Explosions,1,1,0,0", FormatRecord(NewCategory(10, "Explosions", 1)))
}
