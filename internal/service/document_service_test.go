package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"semantic-docs-be/internal/dto"
	"semantic-docs-be/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
)

var testLanguages = LanguageConfig{Primary: "en", Translated: "cs"}

func newTestDocumentService(factory *fakeRepositoryFactory, embedder *fakeEmbedder, translator *fakeTranslator) IDocumentService {
	return NewDocumentService(factory, embedder, translator, nil, testLanguages, nil)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportFileCreatesDocument(t *testing.T) {
	factory := newFakeFactory()
	embedder := &fakeEmbedder{}
	svc := newTestDocumentService(factory, embedder, &fakeTranslator{})

	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "# Title\nbody")

	res, err := svc.ImportFile(context.Background(), &dto.ImportFileRequest{
		Path:     path,
		Language: "en",
		RootPath: dir,
	})
	assert.NoError(t, err)
	assert.Equal(t, ImportStatusAdded, res.Status)
	assert.Equal(t, "a.md", res.FilePath)

	doc := factory.docs().docs["a.md"]
	if assert.NotNil(t, doc) {
		assert.Equal(t, "# Title\nbody", doc.Content)
		if assert.NotNil(t, doc.Title) {
			assert.Equal(t, "Title", *doc.Title)
		}
		assert.NotEmpty(t, doc.ContentHash)
		assert.NotNil(t, doc.Embedding)
		assert.Nil(t, doc.EmbeddingAlt, "primary import must not attach a translated vector")
	}
	assert.Equal(t, 1, embedder.calls)
}

func TestImportFileSkipsUnchangedContent(t *testing.T) {
	factory := newFakeFactory()
	embedder := &fakeEmbedder{}
	svc := newTestDocumentService(factory, embedder, &fakeTranslator{})

	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "# Title\nbody")
	req := &dto.ImportFileRequest{Path: path, Language: "en", RootPath: dir}

	_, err := svc.ImportFile(context.Background(), req)
	assert.NoError(t, err)

	res, err := svc.ImportFile(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, ImportStatusSkipped, res.Status)
	assert.Equal(t, 1, embedder.calls, "unchanged fingerprint must not re-embed")
}

func TestImportFileUpdatesChangedContent(t *testing.T) {
	factory := newFakeFactory()
	embedder := &fakeEmbedder{}
	svc := newTestDocumentService(factory, embedder, &fakeTranslator{})

	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "# Title\nbody")
	req := &dto.ImportFileRequest{Path: path, Language: "en", RootPath: dir}

	_, err := svc.ImportFile(context.Background(), req)
	assert.NoError(t, err)
	firstHash := factory.docs().docs["a.md"].ContentHash

	writeFile(t, dir, "a.md", "# New Title\nchanged body")

	res, err := svc.ImportFile(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, ImportStatusUpdated, res.Status)

	doc := factory.docs().docs["a.md"]
	assert.Equal(t, "# New Title\nchanged body", doc.Content)
	assert.NotEqual(t, firstHash, doc.ContentHash)
	if assert.NotNil(t, doc.Title) {
		assert.Equal(t, "New Title", *doc.Title)
	}
	assert.Equal(t, 2, embedder.calls)
}

func TestImportFileUniquePerPath(t *testing.T) {
	factory := newFakeFactory()
	svc := newTestDocumentService(factory, &fakeEmbedder{}, &fakeTranslator{})

	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "# Title\nbody")
	req := &dto.ImportFileRequest{Path: path, Language: "en", RootPath: dir}

	for i := 0; i < 3; i++ {
		_, err := svc.ImportFile(context.Background(), req)
		assert.NoError(t, err)
	}
	assert.Len(t, factory.docs().docs, 1)
}

func TestTranslatedEmbeddingRequiresPrimaryDocument(t *testing.T) {
	factory := newFakeFactory()
	translator := &fakeTranslator{}
	svc := newTestDocumentService(factory, &fakeEmbedder{}, translator)

	dir := t.TempDir()
	path := writeFile(t, dir, "orphan.md", "# Orphan\nbody")

	_, err := svc.ImportFile(context.Background(), &dto.ImportFileRequest{
		Path:     path,
		Language: "cs",
		RootPath: dir,
	})
	assert.True(t, apperr.IsNotFound(err), "want NotFoundError, got %v", err)
	assert.Equal(t, 0, translator.calls)
}

func TestTranslatedEmbeddingAttachesToExistingDocument(t *testing.T) {
	factory := newFakeFactory()
	embedder := &fakeEmbedder{}
	translator := &fakeTranslator{}
	svc := newTestDocumentService(factory, embedder, translator)

	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "# Title\nbody")

	_, err := svc.ImportFile(context.Background(), &dto.ImportFileRequest{
		Path: path, Language: "en", RootPath: dir,
	})
	assert.NoError(t, err)

	res, err := svc.ImportFile(context.Background(), &dto.ImportFileRequest{
		Path: path, Language: "cs", RootPath: dir,
	})
	assert.NoError(t, err)
	assert.Equal(t, ImportStatusUpdated, res.Status)
	assert.Equal(t, 1, translator.calls)

	doc := factory.docs().docs["a.md"]
	assert.NotNil(t, doc.EmbeddingAlt)
	// The translated text is discarded after embedding.
	assert.Equal(t, "# Title\nbody", doc.Content)
	assert.NotContains(t, doc.Content, "[cs]")
}

func TestTranslatedEmbeddingAttachIsIdempotent(t *testing.T) {
	factory := newFakeFactory()
	translator := &fakeTranslator{}
	svc := newTestDocumentService(factory, &fakeEmbedder{}, translator)

	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "# Title\nbody")

	_, err := svc.ImportFile(context.Background(), &dto.ImportFileRequest{Path: path, Language: "en", RootPath: dir})
	assert.NoError(t, err)

	csReq := &dto.ImportFileRequest{Path: path, Language: "cs", RootPath: dir}
	_, err = svc.ImportFile(context.Background(), csReq)
	assert.NoError(t, err)

	res, err := svc.ImportFile(context.Background(), csReq)
	assert.NoError(t, err)
	assert.Equal(t, ImportStatusSkipped, res.Status)
	assert.Equal(t, 1, translator.calls)
}

func TestImportFileWithTranslateVariant(t *testing.T) {
	factory := newFakeFactory()
	embedder := &fakeEmbedder{}
	translator := &fakeTranslator{}
	svc := newTestDocumentService(factory, embedder, translator)

	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "# Title\nbody")

	res, err := svc.ImportFile(context.Background(), &dto.ImportFileRequest{
		Path:             path,
		Language:         "en",
		RootPath:         dir,
		TranslateVariant: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, ImportStatusAdded, res.Status)
	assert.Equal(t, 1, translator.calls)

	doc := factory.docs().docs["a.md"]
	assert.NotNil(t, doc.Embedding)
	assert.NotNil(t, doc.EmbeddingAlt)
	assert.Equal(t, 2, embedder.calls, "one embedding per language variant")
}

func TestImportAllAggregatesAndTolerantOfFailures(t *testing.T) {
	factory := newFakeFactory()
	embedder := &fakeEmbedder{failOn: "poison"}
	svc := newTestDocumentService(factory, embedder, &fakeTranslator{})

	dir := t.TempDir()
	writeFile(t, dir, "good.md", "# Good\nbody")
	writeFile(t, dir, "nested/other.md", "# Other\nbody")
	writeFile(t, dir, "bad.md", "# Bad\npoison content")
	writeFile(t, dir, "ignored.txt", "not markdown")

	res, err := svc.ImportAll(context.Background(), &dto.ImportAllRequest{
		Path:     dir,
		Language: "en",
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 0, res.Skipped)
	if assert.Len(t, res.Errors, 1) {
		assert.Contains(t, res.Errors[0], "bad.md: ")
	}
	assert.NotContains(t, factory.docs().docs, "ignored.txt")
}

func TestImportAllRejectsUnknownLanguage(t *testing.T) {
	svc := newTestDocumentService(newFakeFactory(), &fakeEmbedder{}, &fakeTranslator{})

	_, err := svc.ImportAll(context.Background(), &dto.ImportAllRequest{
		Path:     t.TempDir(),
		Language: "de",
	})
	assert.True(t, apperr.IsValidation(err), "want ValidationError, got %v", err)
}

func TestImportAllMissingDirectory(t *testing.T) {
	svc := newTestDocumentService(newFakeFactory(), &fakeEmbedder{}, &fakeTranslator{})

	_, err := svc.ImportAll(context.Background(), &dto.ImportAllRequest{
		Path:     "/nonexistent/dir",
		Language: "en",
	})
	assert.True(t, apperr.IsNotFound(err), "want NotFoundError, got %v", err)
}

func TestDeleteDocument(t *testing.T) {
	factory := newFakeFactory()
	svc := newTestDocumentService(factory, &fakeEmbedder{}, &fakeTranslator{})

	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "# Title\nbody")
	_, err := svc.ImportFile(context.Background(), &dto.ImportFileRequest{Path: path, Language: "en", RootPath: dir})
	assert.NoError(t, err)

	res, err := svc.Delete(context.Background(), "a.md")
	assert.NoError(t, err)
	assert.True(t, res.Deleted)

	res, err = svc.Delete(context.Background(), "a.md")
	assert.NoError(t, err)
	assert.False(t, res.Deleted)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *string
	}{
		{
			name:    "heading on first line",
			content: "# Title\nbody",
			want:    strPtr("Title"),
		},
		{
			name:    "heading after preamble",
			content: "preamble\n# Later Title\nbody",
			want:    strPtr("Later Title"),
		},
		{
			name:    "level-2 heading ignored",
			content: "## Subheading\nbody",
			want:    nil,
		},
		{
			name:    "no heading",
			content: "just text",
			want:    nil,
		},
		{
			name:    "empty heading",
			content: "#  \nbody",
			want:    nil,
		},
		{
			name:    "crlf line endings",
			content: "# Windows Title\r\nbody",
			want:    strPtr("Windows Title"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTitle(tt.content)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestHashContentDeterministic(t *testing.T) {
	assert.Equal(t, hashContent("same content"), hashContent("same content"))
	assert.NotEqual(t, hashContent("same content"), hashContent("other content"))
	assert.Len(t, hashContent(""), 64)
}

func strPtr(s string) *string {
	return &s
}
