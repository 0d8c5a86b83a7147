package decode

import (
	"testing"

	"leitor/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chaptersBody struct {
	Chapters List[struct {
		Number string `json:"number"`
	}] `json:"chapters"`
}

func TestDecode_RemoteError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "object endpoint", body: `{"message": "x"}`},
		{name: "with other fields", body: `{"chapters": [], "message": "x"}`},
		{name: "padded", body: "  \n{\"message\":\"x\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[chaptersBody]([]byte(tt.body))

			var remote *domain.RemoteError
			require.ErrorAs(t, err, &remote)
			assert.Equal(t, "x", remote.Message)
		})
	}
}

func TestDecode_RemoteErrorOnArrayEndpoint(t *testing.T) {
	_, err := Decode[[]string]([]byte(`{"message": "rate limited"}`))

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "rate limited", remote.Message)
}

func TestDecode_EmptyMessageIsIgnored(t *testing.T) {
	body, err := Decode[chaptersBody]([]byte(`{"message": "", "chapters": false}`))
	require.NoError(t, err)
	assert.True(t, body.Chapters.IsEmpty())
}

func TestDecode_FalseSentinel(t *testing.T) {
	body, err := Decode[chaptersBody]([]byte(`{"chapters": false}`))
	require.NoError(t, err)

	assert.True(t, body.Chapters.IsEmpty())
	assert.Empty(t, body.Chapters.Items())
}

func TestDecode_List(t *testing.T) {
	body, err := Decode[chaptersBody]([]byte(`{"chapters": [{"number": "1"}, {"number": "2"}]}`))
	require.NoError(t, err)

	require.False(t, body.Chapters.IsEmpty())
	require.Len(t, body.Chapters.Items(), 2)
	assert.Equal(t, "2", body.Chapters.Items()[1].Number)
}

func TestDecode_TypeError(t *testing.T) {
	_, err := Decode[chaptersBody]([]byte(`{"chapters": "nope"}`))
	require.Error(t, err)

	var remote *domain.RemoteError
	assert.NotErrorAs(t, err, &remote)
}

type releasesBody struct {
	Releases Ordered[struct {
		Link string `json:"link"`
	}] `json:"releases"`
}

func TestOrdered(t *testing.T) {
	body, err := Decode[releasesBody]([]byte(`{"releases": {"scan_9": {"link": "/b"}, "scan_1": {"link": "/a"}}}`))
	require.NoError(t, err)

	require.Len(t, body.Releases, 2)
	assert.Equal(t, "scan_9", body.Releases[0].Key)
	assert.Equal(t, "/b", body.Releases[0].Value.Link)
	assert.Equal(t, "scan_1", body.Releases[1].Key)
}

func TestOrdered_EmptyArray(t *testing.T) {
	var o Ordered[string]
	require.NoError(t, o.UnmarshalJSON([]byte(`[]`)))
	assert.Empty(t, o)

	require.Error(t, o.UnmarshalJSON([]byte(`["a"]`)))
}
