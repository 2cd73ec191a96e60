package ebuild

import (
	"bytes"
	_ "embed"
	"io"
	"strings"
	"text/template"

	"github.com/matzehuels/cargo-ebuild/pkg/errors"
)

//go:embed ebuild.tmpl
var ebuildTemplate string

var tmpl = template.Must(template.New("ebuild").Funcs(template.FuncMap{
	"join":    func(s []string) string { return strings.Join(s, " ") },
	"quote":   quote,
	"srcURI":  srcURI,
	"rdepend": Settings.rdepend,
}).Parse(ebuildTemplate))

// Render writes the ebuild text for rec to w. Output depends only on rec,
// so rendering the same record twice yields identical bytes.
func Render(w io.Writer, rec Record) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, rec); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to render ebuild")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Bytes renders rec into memory.
func Bytes(rec Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var bashEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")

// quote escapes s for a double-quoted bash string.
func quote(s string) string { return bashEscaper.Replace(s) }

// srcURI is the cargo eclass idiom for the crate tarballs. EAPI 8 ebuilds
// use CARGO_CRATE_URIS, set by the eclass from CRATES at inherit time.
func srcURI(eapi string) string {
	if eapi == "8" {
		return "${CARGO_CRATE_URIS}"
	}
	return "$(cargo_crate_uris)"
}
