package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	language "github.com/farmstrong8/gqlmockgen/internal/language"
)

// DocumentMeta identifies one operation document of a run.
type DocumentMeta struct {
	Name     string
	FilePath string // informational, used in parse errors
}

// Source lists and reads the operation documents of one generation run.
type Source interface {
	ListDocuments(ctx context.Context) ([]*DocumentMeta, error)
	ReadDocument(ctx context.Context, name string) (string, error)
}

// FileSystemSource walks a root directory for .graphql/.gql operation files.
type FileSystemSource struct {
	docPaths map[string]string
	metas    []*DocumentMeta
}

// NewFileSystemSource indexes every document under rootDir. Document order
// is the sorted relative path, so runs are reproducible regardless of
// filesystem iteration order.
func NewFileSystemSource(rootDir string) (*FileSystemSource, error) {
	src := &FileSystemSource{docPaths: make(map[string]string)}

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(d.Name())
		if ext != ".graphql" && ext != ".gql" {
			return nil
		}
		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %q: %w", path, err)
		}
		name := strings.TrimSuffix(relPath, ext)
		src.docPaths[name] = path
		src.metas = append(src.metas, &DocumentMeta{Name: name, FilePath: relPath})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk document root %q: %w", rootDir, err)
	}
	sort.Slice(src.metas, func(i, j int) bool { return src.metas[i].FilePath < src.metas[j].FilePath })
	return src, nil
}

func (s *FileSystemSource) ListDocuments(ctx context.Context) ([]*DocumentMeta, error) {
	return s.metas, nil
}

func (s *FileSystemSource) ReadDocument(ctx context.Context, name string) (string, error) {
	fp, ok := s.docPaths[name]
	if !ok {
		return "", fmt.Errorf("document %q not found", name)
	}
	content, err := os.ReadFile(fp)
	if err != nil {
		return "", fmt.Errorf("failed to read document %q: %w", name, err)
	}
	return string(content), nil
}

// InMemoryDocument backs InMemorySource, mainly for tests.
type InMemoryDocument struct {
	Name    string
	Content string
}

// InMemorySource serves documents from memory in the order given.
type InMemorySource struct {
	docs []InMemoryDocument
}

func NewInMemorySource(docs []InMemoryDocument) *InMemorySource {
	return &InMemorySource{docs: docs}
}

func (s *InMemorySource) ListDocuments(ctx context.Context) ([]*DocumentMeta, error) {
	metas := make([]*DocumentMeta, len(s.docs))
	for i, d := range s.docs {
		metas[i] = &DocumentMeta{Name: d.Name, FilePath: d.Name}
	}
	return metas, nil
}

func (s *InMemorySource) ReadDocument(ctx context.Context, name string) (string, error) {
	for _, d := range s.docs {
		if d.Name == name {
			return d.Content, nil
		}
	}
	return "", fmt.Errorf("document %q not found", name)
}

// LoadDocuments parses every document a source lists.
func LoadDocuments(ctx context.Context, src Source) ([]*language.QueryDocument, error) {
	metas, err := src.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]*language.QueryDocument, 0, len(metas))
	for _, meta := range metas {
		content, err := src.ReadDocument(ctx, meta.Name)
		if err != nil {
			return nil, err
		}
		doc, err := language.ParseQuery(meta.FilePath, content)
		if err != nil {
			return nil, fmt.Errorf("parse document %s: %w", meta.FilePath, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
