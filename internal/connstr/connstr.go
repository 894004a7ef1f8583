// Package connstr reads the connectionStrings section of .NET XML config
// files (web.config, app.config) and splits the connection strings into
// their key=value parts.
package connstr

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/mj1618/cslogin/internal/apperr"
	"github.com/mj1618/cslogin/internal/model"
)

// Well-known connection string keys, lower-cased.
const (
	KeyDataSource     = "data source"
	KeyInitialCatalog = "initial catalog"
	KeyUserID         = "user id"
	KeyPassword       = "password"
)

type entry struct {
	name   string
	values map[string]string
}

// File is a parsed config file.
type File struct {
	Path    string
	entries []entry
}

// Load reads and parses the config file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.Wrap(apperr.KindNotFound, err, "config file %s", path)
		}
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	file, err := Parse(f)
	if err != nil {
		return nil, err
	}
	file.Path = path
	return file, nil
}

// Parse reads every element named connectionStrings anywhere in the
// document. Each child element carrying both a name and a connectionString
// attribute becomes an entry; other children (clear, remove) are skipped.
func Parse(r io.Reader) (*File, error) {
	// BOMOverride strips a UTF-8 BOM and converts UTF-16 input to UTF-8.
	dec := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	dec.CharsetReader = charsetReader

	file := &File{}
	depth, sectionDepth := 0, 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.KindParseFailure, err, "malformed config file")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case sectionDepth == 0 && t.Name.Local == "connectionStrings":
				sectionDepth = depth
			case sectionDepth > 0 && depth == sectionDepth+1:
				name, ok1 := attr(t, "name")
				cs, ok2 := attr(t, "connectionString")
				if ok1 && ok2 {
					file.entries = append(file.entries, entry{name: name, values: ParseConnectionString(cs)})
				}
			}
		case xml.EndElement:
			if depth == sectionDepth {
				sectionDepth = 0
			}
			depth--
		}
	}
	return file, nil
}

// ParseConnectionString splits "Data Source=db1;User ID=sa;..." into a map of
// lower-cased, trimmed keys to trimmed values. Parts without '=' are skipped;
// a value may itself contain '='.
func ParseConnectionString(s string) map[string]string {
	values := make(map[string]string)
	for _, part := range strings.Split(s, ";") {
		i := strings.IndexByte(part, '=')
		if i < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(part[:i]))
		values[key] = strings.TrimSpace(part[i+1:])
	}
	return values
}

// Names returns the entry names in document order, without duplicates.
func (f *File) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range f.entries {
		if !seen[e.name] {
			seen[e.name] = true
			names = append(names, e.name)
		}
	}
	return names
}

// Values returns the merged key/value pairs of every entry called name.
// Later entries override earlier keys.
func (f *File) Values(name string) (map[string]string, bool) {
	var merged map[string]string
	for _, e := range f.entries {
		if e.name != name {
			continue
		}
		if merged == nil {
			merged = make(map[string]string)
		}
		for k, v := range e.values {
			merged[k] = v
		}
	}
	return merged, merged != nil
}

// ConnectionString returns the merged entry called name with its well-known
// keys pulled out. Keys it does not name are left empty.
func (f *File) ConnectionString(name string) (model.ConnectionString, bool) {
	values, ok := f.Values(name)
	if !ok {
		return model.ConnectionString{}, false
	}
	return model.ConnectionString{
		Name:     name,
		Hostname: values[KeyDataSource],
		Database: values[KeyInitialCatalog],
		Username: values[KeyUserID],
		Password: values[KeyPassword],
	}, true
}

// Lookup returns the login credentials of the connection string called name.
// It is NotFound when the name is absent or lacks a host, user or password.
func (f *File) Lookup(name string) (model.Credentials, error) {
	values, ok := f.Values(name)
	if !ok {
		return model.Credentials{}, apperr.New(apperr.KindNotFound, "connection string %q not found", name)
	}
	cs, _ := f.ConnectionString(name)

	var missing []string
	if _, ok := values[KeyDataSource]; !ok {
		missing = append(missing, KeyDataSource)
	}
	if _, ok := values[KeyUserID]; !ok {
		missing = append(missing, KeyUserID)
	}
	if _, ok := values[KeyPassword]; !ok {
		missing = append(missing, KeyPassword)
	}
	if len(missing) > 0 {
		return model.Credentials{}, apperr.New(apperr.KindNotFound,
			"connection string %q has no %s", name, strings.Join(missing, ", "))
	}
	return cs.Credentials(), nil
}

// Entries returns every entry that names both a host and a user, in
// document order. Entries using integrated security are left out.
func (f *File) Entries() []model.ConnectionString {
	var out []model.ConnectionString
	for _, e := range f.entries {
		host, okHost := e.values[KeyDataSource]
		user, okUser := e.values[KeyUserID]
		if !okHost || !okUser {
			continue
		}
		out = append(out, model.ConnectionString{
			Name:     e.name,
			Hostname: host,
			Database: e.values[KeyInitialCatalog],
			Username: user,
			Password: e.values[KeyPassword],
		})
	}
	return out
}

func attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

// charsetReader honours the encoding declared in the XML prolog. UTF-16 has
// already been converted by BOMOverride by the time the prolog is read.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "utf-16", "utf-16le", "utf-16be", "unicode":
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
