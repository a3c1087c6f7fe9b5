package interfaces

// InclusionLevel controls whether a file participates in site output and
// navigation.
type InclusionLevel int

const (
	// Included files are rendered and eligible for navigation.
	Included InclusionLevel = iota
	// Excluded files are skipped entirely.
	Excluded
)

// File describes one source document the site generator will materialize.
// Generated files have no on-disk source; their content is supplied through a
// PageSourceProvider at render time.
type File struct {
	// SrcURI is the slash-separated path of the file relative to the docs root.
	SrcURI string
	// SrcDir is the absolute directory SrcURI is relative to.
	SrcDir string
	// DestDir is the absolute output directory for the built site.
	DestDir string
	// UseDirectoryURLs selects pretty directory-style URLs (page/index.html).
	UseDirectoryURLs bool
	// DestURI is the output path relative to DestDir.
	DestURI string
	// Inclusion marks whether the file takes part in the build.
	Inclusion InclusionLevel
	// Generated marks files synthesized by a plugin rather than read from disk.
	Generated bool
}

// Files is the ordered collection of documents known to a build pass.
type Files []*File

// Append adds files to the collection, preserving order.
func (f Files) Append(files ...*File) Files {
	return append(f, files...)
}

// Get returns the file registered under the given source URI, or nil.
func (f Files) Get(srcURI string) *File {
	for _, file := range f {
		if file != nil && file.SrcURI == srcURI {
			return file
		}
	}
	return nil
}

// Page is one document the generator is about to render.
type Page struct {
	File  *File
	Title string
}

// SiteConfig carries the subset of the host generator's configuration that
// plugins read and mutate. Nav is the loosely-typed navigation declaration:
// an ordered list whose elements are either path strings or single-key maps
// from a group name to a nested list of the same shape.
type SiteConfig struct {
	SiteName string
	// BaseDir is the absolute directory containing the site configuration.
	// Relative plugin paths resolve against it.
	BaseDir string
	// DocsDir holds regular markdown sources, relative to BaseDir.
	DocsDir string
	// SiteDir is the output directory, relative to BaseDir.
	SiteDir string
	// Nav is mutated in place by plugins.
	Nav []any
	// Watch lists extra paths the serve loop should rebuild on.
	Watch []string
}
