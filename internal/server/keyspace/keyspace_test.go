package keyspace

import (
	"testing"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultPrefix(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    string
		wantErr bool
	}{
		{name: "numeric", id: "7", want: "vault_7"},
		{name: "trimmed", id: " 42 ", want: "vault_42"},
		{name: "word", id: "team-a_1", want: "vault_team-a_1"},
		{name: "empty", id: "", wantErr: true},
		{name: "slash", id: "1/2", wantErr: true},
		{name: "dots", id: "..", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VaultPrefix(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrorValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "", NormalizePath(""))
	assert.Equal(t, "", NormalizePath("///"))
	assert.Equal(t, "a/b", NormalizePath("/a//b/"))
	assert.Equal(t, "a", NormalizePath("a"))
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		key string
		ok  bool
	}{
		{"vault_1/a.txt", true},
		{"vault_1/", true},
		{"vault_1/x/y/z.png", true},
		{"vault_1", false},
		{"vault_10/a.txt", false},
		{"vault_2/a.txt", false},
		{"vault_1/../vault_2/a.txt", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := Authorize("vault_1", tt.key)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, common.ErrorForbidden)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"report 2024", "a..b.txt", "report..final.txt", "wait...what.mp4", ".env"} {
		assert.NoError(t, ValidateName(ok), ok)
	}
	for _, bad := range []string{"", "  ", "a/b", `a\b`, "..", ".", "../x", "a\x00b"} {
		assert.ErrorIs(t, ValidateName(bad), common.ErrorValidation, bad)
	}
}

func TestValidateRelativePath(t *testing.T) {
	assert.NoError(t, ValidateRelativePath("a/b/c"))
	assert.ErrorIs(t, ValidateRelativePath("a/../b"), common.ErrorValidation)
	assert.ErrorIs(t, ValidateRelativePath("a/\tb"), common.ErrorValidation)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "vault_1/", RootKey("vault_1"))
	assert.Equal(t, "vault_1/", FolderKey("vault_1", "/"))
	assert.Equal(t, "vault_1/a/b/", FolderKey("vault_1", "a//b/"))
	assert.Equal(t, "vault_1/a/x.txt", FileKey("vault_1", "a", "x.txt"))
	assert.Equal(t, "vault_1/x.txt", FileKey("vault_1", "", "x.txt"))
	assert.True(t, IsFolderKey("vault_1/a/"))
}

func TestBaseDir(t *testing.T) {
	assert.Equal(t, "x.txt", Base("vault_1/a/x.txt"))
	assert.Equal(t, "a", Base("vault_1/a/"))
	assert.Equal(t, "vault_1/a", Dir("vault_1/a/x.txt"))
	assert.Equal(t, "vault_1", Dir("vault_1/a/"))
	assert.Equal(t, "", Dir("x"))
}

func TestParentPath(t *testing.T) {
	assert.Nil(t, ParentPath(""))
	p := ParentPath("docs")
	require.NotNil(t, p)
	assert.Equal(t, "", *p)
	p = ParentPath("docs/2024/q1")
	require.NotNil(t, p)
	assert.Equal(t, "docs/2024", *p)
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "/f/vault_1%2Fmy%20file.txt", DownloadURL("vault_1/my file.txt"))
	assert.Nil(t, StreamURL("vault_1/a.txt"))
	s := StreamURL("vault_1/clip.MP4")
	require.NotNil(t, s)
	assert.Equal(t, "/stream/vault_1%2Fclip.MP4", *s)
	assert.Equal(t, "/compressed/vault_1%2Fc.jpg", CompressedURL("vault_1/c.jpg"))
}

func TestFlagsAndMime(t *testing.T) {
	f := FlagsFor("sheet.XLSX")
	assert.True(t, f.IsDocument)
	assert.True(t, f.IsSpreadsheet)
	assert.False(t, f.IsImage)

	assert.True(t, CanCompress("a.png"))
	assert.True(t, CanCompress("a.mkv"))
	assert.False(t, CanCompress("a.pdf"))

	assert.Equal(t, "video/quicktime", MimeType("a.mov"))
	assert.Equal(t, "image/jpeg", MimeType("A.JPG"))
	assert.Equal(t, DefaultContentType, MimeType("noext"))
}

func TestPreviewKindOf(t *testing.T) {
	assert.Equal(t, PreviewURL, PreviewKindOf("a.png"))
	assert.Equal(t, PreviewURL, PreviewKindOf("a.mp4"))
	assert.Equal(t, PreviewURL, PreviewKindOf("a.pdf"))
	assert.Equal(t, PreviewURL, PreviewKindOf("index.html"))
	assert.Equal(t, PreviewText, PreviewKindOf("main.go.txt"))
	assert.Equal(t, PreviewText, PreviewKindOf("app.py"))
	assert.Equal(t, PreviewText, PreviewKindOf("data.csv"))
	assert.Equal(t, PreviewNone, PreviewKindOf("a.zip"))
}
