package ebuild

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/cargo-ebuild/pkg/errors"
)

// Path returns where the ebuild for rec is written. With no output the
// file goes into the working directory; an existing directory receives
// rec.FileName(); anything else is used as the file path.
func Path(rec Record, output string) string {
	if output == "" {
		return rec.FileName()
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, rec.FileName())
	}
	return output
}

// Write renders rec and writes it to path, truncating any existing file.
// The record is rendered in memory first, so a rendering failure never
// leaves a partial file behind.
func Write(path string, rec Record) error {
	data, err := Bytes(rec)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "failed to create ebuild %s", path)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "unable to write ebuild to disk")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "unable to write ebuild to disk")
	}
	return nil
}

// CopyrightYear returns the year for the ebuild header. SOURCE_DATE_EPOCH
// (seconds since the epoch, see reproducible-builds.org) takes precedence
// over now so generated files can be reproduced bit for bit.
func CopyrightYear(getenv func(string) string, now time.Time) (int, error) {
	if v := strings.TrimSpace(getenv("SOURCE_DATE_EPOCH")); v != "" {
		secs, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid SOURCE_DATE_EPOCH %q", v)
		}
		return time.Unix(secs, 0).UTC().Year(), nil
	}
	return now.Year(), nil
}
