package patch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ErrMalformedPackageJSON is returned when package.json is not valid JSON.
var ErrMalformedPackageJSON = errors.New("malformed package.json")

// PackageOptions describes the GitHub Pages wiring added to package.json.
type PackageOptions struct {
	// Homepage is skipped when empty.
	Homepage string
	// DeployDir is the build output published to the pages branch.
	DeployDir string
	// PagesCommand publishes DeployDir, gh-pages by default.
	PagesCommand string
	// BuildScript runs before deploy.
	BuildScript string
}

func (o PackageOptions) withDefaults() PackageOptions {
	if o.DeployDir == "" {
		o.DeployDir = "dist"
	}
	if o.PagesCommand == "" {
		o.PagesCommand = "gh-pages"
	}
	if o.BuildScript == "" {
		o.BuildScript = "build"
	}
	return o
}

// prettyOptions lays package.json out the way npm writes it: two-space
// indent and arrays always expanded (Width 0 disables one-line arrays).
var prettyOptions = &pretty.Options{Indent: "  "}

type jsonField struct {
	path  string
	value string
}

func (o PackageOptions) fields() []jsonField {
	o = o.withDefaults()
	fields := []jsonField{
		{"scripts.predeploy", "npm run " + o.BuildScript},
		{"scripts.deploy", o.PagesCommand + " -d " + o.DeployDir},
	}
	if o.Homepage != "" {
		fields = append(fields, jsonField{"homepage", o.Homepage})
	}
	return fields
}

// PatchPackageJSON sets the predeploy/deploy scripts and homepage. Key order
// is preserved; the document is re-indented only when something changed.
func PatchPackageJSON(data []byte, opts PackageOptions) ([]byte, bool, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, false, ErrMalformedPackageJSON
	}

	out := data
	changed := false
	for _, f := range opts.fields() {
		cur := gjson.GetBytes(out, f.path)
		if cur.Exists() && cur.Type == gjson.String && cur.Str == f.value {
			continue
		}
		var err error
		out, err = sjson.SetBytes(out, f.path, f.value)
		if err != nil {
			return nil, false, fmt.Errorf("set %s: %w", f.path, err)
		}
		changed = true
	}
	if !changed {
		return data, false, nil
	}
	return pretty.PrettyOptions(out, prettyOptions), true, nil
}

// PatchPackageJSONFile applies PatchPackageJSON to the file at path under
// the same locking and atomic write rules as PatchFile.
func PatchPackageJSONFile(ctx context.Context, path string, opts PackageOptions, lockTimeout time.Duration) (bool, error) {
	var changed bool
	err := withFileLock(ctx, path, lockTimeout, func() error {
		data, perm, err := readFile(path)
		if err != nil {
			return err
		}
		if data == nil {
			return fmt.Errorf("%w: %s does not exist", ErrIO, path)
		}
		out, ok, err := PatchPackageJSON(data, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if !ok {
			return nil
		}
		changed = true
		return writeFile(path, out, perm)
	})
	return changed, err
}
