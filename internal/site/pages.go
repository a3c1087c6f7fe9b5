package site

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/bmatcuk/doublestar/v4"
	slug "github.com/goliatone/go-slug"

	"github.com/goliatone/go-featuredocs/pkg/interfaces"
)

// pageMeta is the frontmatter the harness understands on regular pages.
type pageMeta struct {
	Title string `yaml:"title"`
	Slug  string `yaml:"slug"`
}

// pageSource is one discovered docs page with its markdown body already
// separated from the frontmatter.
type pageSource struct {
	file  *interfaces.File
	title string
	body  []byte
}

// discoverPages walks the docs directory and returns one entry per markdown
// file, sorted by source path. Page URLs come from the frontmatter slug when
// present, otherwise from the normalized file stem; index pages keep their
// directory URL.
func discoverPages(docsDir, siteDir string) ([]*pageSource, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(docsDir, "**", "*.md"))
	if err != nil {
		return nil, fmt.Errorf("site: list pages: %w", err)
	}
	sort.Strings(matches)

	pages := make([]*pageSource, 0, len(matches))
	for _, match := range matches {
		page, err := loadPage(docsDir, siteDir, match)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func loadPage(docsDir, siteDir, absPath string) (*pageSource, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("site: read page %s: %w", absPath, err)
	}

	var meta pageMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return nil, fmt.Errorf("site: parse frontmatter %s: %w", absPath, err)
	}

	rel, err := filepath.Rel(docsDir, absPath)
	if err != nil {
		return nil, fmt.Errorf("site: relativize page %s: %w", absPath, err)
	}
	srcURI := filepath.ToSlash(rel)

	stem := strings.TrimSuffix(path.Base(srcURI), ".md")
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = defaultTitle(stem)
	}

	return &pageSource{
		file: &interfaces.File{
			SrcURI:           srcURI,
			SrcDir:           docsDir,
			DestDir:          siteDir,
			UseDirectoryURLs: true,
			DestURI:          destURI(srcURI, stem, meta.Slug),
			Inclusion:        interfaces.Included,
		},
		title: title,
		body:  body,
	}, nil
}

// destURI maps a docs-relative source path to its directory-style output
// path. index.md collapses onto its directory; other pages get their own.
func destURI(srcURI, stem, explicitSlug string) string {
	dir := path.Dir(srcURI)
	if dir == "." {
		dir = ""
	}

	if stem == "index" {
		return path.Join(dir, "index.html")
	}

	segment := strings.TrimSpace(explicitSlug)
	if segment == "" {
		if normalized, err := slug.Normalize(stem); err == nil && normalized != "" {
			segment = normalized
		} else {
			segment = stem
		}
	}
	return path.Join(dir, segment, "index.html")
}

// defaultTitle mirrors the navigation display convention for untitled pages.
func defaultTitle(stem string) string {
	title := strings.ReplaceAll(strings.ReplaceAll(stem, "_", " "), "-", " ")
	if title == "" {
		return title
	}
	return strings.ToUpper(title[:1]) + title[1:]
}
