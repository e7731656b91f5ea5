package yarnlock

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
	"github.com/matzehuels/lockbridge/pkg/lockfile"
)

const indentWidth = 2

// Parse reads a yarn.lock v1 file into a flat table. Entries keep file
// order. Syntax errors are [errs.ErrCodeInvalidLockfile] and name the line.
func Parse(r io.Reader) (*lockfile.FlatTable, error) {
	p := &parser{table: lockfile.NewFlatTable()}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidLockfile, err, "read yarn.lock")
	}
	if err := p.flush(); err != nil {
		return nil, err
	}
	return p.table, nil
}

// ParseFile is [Parse] on the file at path.
func ParseFile(path string) (*lockfile.FlatTable, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "%s", path)
	}
	return t, nil
}

type parser struct {
	table *lockfile.FlatTable
	line  int

	// entry being read
	descs     []lockfile.Descriptor
	rec       lockfile.FlatRecord
	entryLine int
	section   string
}

func (p *parser) errorf(format string, args ...any) error {
	args = append([]any{p.line}, args...)
	return errs.New(errs.ErrCodeInvalidLockfile, "line %d: "+format, args...)
}

func (p *parser) parseLine(raw string) error {
	raw = strings.TrimRight(raw, " \t\r")
	content := strings.TrimLeft(raw, " ")
	if content == "" || strings.HasPrefix(content, "#") {
		return nil
	}
	if strings.HasPrefix(content, "\t") {
		return p.errorf("tabs are not allowed in indentation")
	}

	indent := len(raw) - len(content)
	if indent%indentWidth != 0 {
		return p.errorf("indentation of %d spaces is not a multiple of %d", indent, indentWidth)
	}

	switch level := indent / indentWidth; level {
	case 0:
		return p.startEntry(content)
	case 1:
		return p.field(content)
	default:
		return p.nested(level, content)
	}
}

func (p *parser) startEntry(content string) error {
	if err := p.flush(); err != nil {
		return err
	}
	keys, ok := strings.CutSuffix(content, ":")
	if !ok {
		return p.errorf("expected entry key ending in ':', got %q", content)
	}
	if keys == "__metadata" {
		return p.errorf("yarn berry lockfiles are not supported")
	}

	parts, err := splitKeys(keys)
	if err != nil {
		return p.errorf("%v", err)
	}
	for _, part := range parts {
		d, err := lockfile.ParseDescriptor(part)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidLockfile, err, "line %d", p.line)
		}
		p.descs = append(p.descs, d)
	}
	p.entryLine = p.line
	return nil
}

func (p *parser) field(content string) error {
	if p.descs == nil {
		return p.errorf("field outside of an entry")
	}

	if name, ok := strings.CutSuffix(content, ":"); ok {
		if tok, rest, err := nextToken(name, ' '); err == nil && rest == "" {
			p.section = tok
			return nil
		}
	}

	key, value, err := splitPair(content)
	if err != nil {
		return p.errorf("%v", err)
	}
	p.section = ""
	switch key {
	case "version":
		p.rec.Version = value
	case "resolved":
		p.rec.Resolved = value
	case "integrity":
		p.rec.Integrity = value
	}
	return nil
}

func (p *parser) nested(level int, content string) error {
	if p.section == "" {
		return p.errorf("unexpected indentation")
	}
	if level > 2 || (p.section != "dependencies" && p.section != "optionalDependencies") {
		// Deeper maps and other sections hold nothing we keep.
		return nil
	}

	key, value, err := splitPair(content)
	if err != nil {
		return p.errorf("%v", err)
	}
	if p.section == "dependencies" {
		p.rec.Dependencies = put(p.rec.Dependencies, key, value)
	} else {
		p.rec.OptionalDependencies = put(p.rec.OptionalDependencies, key, value)
	}
	return nil
}

func put(m map[string]string, k, v string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m[k] = v
	return m
}

// flush adds the entry read so far to the table.
func (p *parser) flush() error {
	if p.descs == nil {
		return nil
	}
	if p.rec.Version == "" {
		return errs.New(errs.ErrCodeInvalidLockfile, "line %d: entry %q has no version", p.entryLine, p.descs[0])
	}
	p.table.Add(p.descs, p.rec)
	p.descs, p.rec, p.section = nil, lockfile.FlatRecord{}, ""
	return nil
}

// splitKeys splits a comma-separated list of possibly quoted descriptors.
func splitKeys(s string) ([]string, error) {
	var out []string
	for s = strings.TrimSpace(s); s != ""; {
		tok, rest, err := nextToken(s, ',')
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ","))
	}
	if len(out) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidLockfile, "empty entry key")
	}
	return out, nil
}

// splitPair splits a `key value` line.
func splitPair(s string) (key, value string, err error) {
	key, rest, err := nextToken(s, ' ')
	if err != nil {
		return "", "", err
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", "", errs.New(errs.ErrCodeInvalidLockfile, "missing value for %q", key)
	}
	if isQuoted(rest) {
		value, err = unquote(rest)
		return key, value, err
	}
	if strings.ContainsRune(rest, '"') {
		return "", "", errs.New(errs.ErrCodeInvalidLockfile, "malformed value %q", rest)
	}
	return key, rest, nil
}

// nextToken reads one quoted or bare token from the front of s. A bare
// token ends at sep.
func nextToken(s string, sep byte) (tok, rest string, err error) {
	if s == "" {
		return "", "", errs.New(errs.ErrCodeInvalidLockfile, "empty key")
	}
	if s[0] != '"' {
		if i := strings.IndexByte(s, sep); i >= 0 {
			return s[:i], s[i:], nil
		}
		return s, "", nil
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			tok, err := unquote(s[:i+1])
			return tok, s[i+1:], err
		}
	}
	return "", "", errs.New(errs.ErrCodeInvalidLockfile, "unterminated string %s", s)
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func unquote(s string) (string, error) {
	v, err := strconv.Unquote(s)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidLockfile, err, "bad string %s", s)
	}
	return v, nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	return f, nil
}
