package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortEntries(t *testing.T) {
	testCases := []struct {
		name     string
		input    []DirectoryEntry
		expected []DirectoryEntry
	}{
		{
			name: "directories before files, names ascending",
			input: []DirectoryEntry{
				{Name: "b.c", Kind: KindFile},
				{Name: "src", Kind: KindDir},
				{Name: "a.c", Kind: KindFile},
			},
			expected: []DirectoryEntry{
				{Name: "src", Kind: KindDir},
				{Name: "a.c", Kind: KindFile},
				{Name: "b.c", Kind: KindFile},
			},
		},
		{
			name: "all four kinds",
			input: []DirectoryEntry{
				{Name: "vendor", Kind: KindSubmodule},
				{Name: "link", Kind: KindSymlink},
				{Name: "README.md", Kind: KindFile},
				{Name: "docs", Kind: KindDir},
				{Name: "Makefile", Kind: KindFile},
			},
			expected: []DirectoryEntry{
				{Name: "docs", Kind: KindDir},
				{Name: "Makefile", Kind: KindFile},
				{Name: "README.md", Kind: KindFile},
				{Name: "vendor", Kind: KindSubmodule},
				{Name: "link", Kind: KindSymlink},
			},
		},
		{
			name:     "empty listing",
			input:    []DirectoryEntry{},
			expected: []DirectoryEntry{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SortEntries(tc.input))
		})
	}
}

func TestResolveAuthor(t *testing.T) {
	assert.Equal(t, "octocat", ResolveAuthor("octocat", "The Octocat"))
	assert.Equal(t, "The Octocat", ResolveAuthor("", "The Octocat"))
	assert.Equal(t, "anon", ResolveAuthor("", ""))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "fix: typo", FirstLine("fix: typo\n\nlonger body"))
	assert.Equal(t, "windows", FirstLine("windows\r\nbody"))
	assert.Equal(t, "single", FirstLine("single"))
}

func TestRepositoryRef(t *testing.T) {
	ref := RepositoryRef{Owner: "octo", Repo: "hello", Label: "hello"}
	assert.Equal(t, "octo/hello", ref.Key())
	assert.Equal(t, "https://github.com/octo/hello", ref.URL())

	entry := DirectoryEntry{Name: "main.c", Path: "src/main.c", Kind: KindFile}
	assert.Equal(t, "https://github.com/octo/hello/tree/main/src/main.c", entry.BrowseURL(ref))
}

func TestReadmePresence_JSON(t *testing.T) {
	payload := struct {
		Readme ReadmePresence `json:"readme"`
	}{Readme: ReadmeAbsent}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"readme":"absent"}`, string(data))

	payload.Readme = ReadmeUnknown
	require.NoError(t, json.Unmarshal([]byte(`{"readme":"present"}`), &payload))
	assert.Equal(t, ReadmePresent, payload.Readme)

	assert.Error(t, json.Unmarshal([]byte(`{"readme":"maybe"}`), &payload))
}
