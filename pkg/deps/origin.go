package deps

import (
	"strings"
)

// OriginKind classifies where a resolved package's sources come from.
type OriginKind int

const (
	// OriginUnknown is a source id cargo-ebuild does not recognize.
	OriginUnknown OriginKind = iota
	// OriginDefaultRegistry is crates.io, through the git or sparse index.
	OriginDefaultRegistry
	// OriginAlternateRegistry is any other registry index.
	OriginAlternateRegistry
	// OriginPath is a local path dependency or workspace member.
	OriginPath
	// OriginGit is a git repository.
	OriginGit
)

var originNames = [...]string{
	OriginUnknown:           "unknown",
	OriginDefaultRegistry:   "registry",
	OriginAlternateRegistry: "alternate-registry",
	OriginPath:              "path",
	OriginGit:               "git",
}

// String returns the kind's short name.
func (k OriginKind) String() string {
	if k < 0 || int(k) >= len(originNames) {
		return originNames[OriginUnknown]
	}
	return originNames[k]
}

// Default registry index URLs of crates.io.
const (
	CratesIOIndex       = "https://github.com/rust-lang/crates.io-index"
	CratesIOSparseIndex = "https://index.crates.io/"
)

// Origin is the parsed source of a resolved package.
type Origin struct {
	Kind      OriginKind
	URL       string // Index URL, repository URL or path; empty for unknown
	Reference string // Git revision/branch/tag query or fragment, if any
}

// ParseSource classifies a cargo source id. Cargo writes these in
// Cargo.lock and `cargo metadata` as "<kind>+<url>":
//
//	registry+https://github.com/rust-lang/crates.io-index
//	sparse+https://index.crates.io/
//	git+https://github.com/o/r?branch=main#<sha>
//	path+file:///home/u/src/demo
//
// Packages with no source at all are local path packages. Anything else is
// OriginUnknown with the raw id kept in URL.
func ParseSource(source string) Origin {
	source = strings.TrimSpace(source)
	if source == "" {
		return Origin{Kind: OriginPath}
	}
	kind, url, ok := strings.Cut(source, "+")
	if !ok {
		return Origin{Kind: OriginUnknown, URL: source}
	}

	switch kind {
	case "registry", "sparse":
		if isDefaultIndex(url) {
			return Origin{Kind: OriginDefaultRegistry, URL: url}
		}
		return Origin{Kind: OriginAlternateRegistry, URL: url}
	case "path":
		return Origin{Kind: OriginPath, URL: strings.TrimPrefix(url, "file://")}
	case "git":
		base, ref := splitGitRef(url)
		return Origin{Kind: OriginGit, URL: base, Reference: ref}
	default:
		return Origin{Kind: OriginUnknown, URL: source}
	}
}

func isDefaultIndex(url string) bool {
	u := strings.TrimSuffix(url, "/")
	return u == CratesIOIndex || u == strings.TrimSuffix(CratesIOSparseIndex, "/")
}

func splitGitRef(url string) (string, string) {
	cut := strings.IndexAny(url, "?#")
	if cut < 0 {
		return url, ""
	}
	return url[:cut], url[cut+1:]
}
