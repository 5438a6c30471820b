// Package directive decodes `//unstable:api` comments.
//
// The directive sits in the doc comment of the declaration it applies to and
// takes optional arguments written like struct tags:
//
//	//unstable:api
//	//unstable:api feature:"risky-function"
//	//unstable:api feature:"risky-function" issue:"#123"
//
// Arguments that are unknown, repeated or not quoted strings are reported
// as diagnostics at the argument's position.
package directive

import (
	"errors"
	"go/ast"
	"go/token"
	"strings"

	"github.com/fatih/structtag"

	"github.com/ecordell/unstablegen/diag"
	"github.com/ecordell/unstablegen/unstable"
)

const (
	// Prefix is shared by every directive this tool understands.
	Prefix = "//unstable:"
	// API marks a declaration as unstable API.
	API = Prefix + "api"

	keyFeature = "feature"
	keyIssue   = "issue"
)

// Directive is a decoded `//unstable:api` comment.
type Directive struct {
	Pos    token.Position
	Config unstable.Config
}

// Is reports whether c is one of this tool's directives.
func Is(c *ast.Comment) bool {
	return strings.HasPrefix(c.Text, Prefix)
}

// Has reports whether doc carries a directive of this tool.
func Has(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if Is(c) {
			return true
		}
	}
	return false
}

// Extract finds the directive in doc and decodes it. It returns the
// directive, or nil when doc has none, and doc without the directive line.
// A doc that held nothing but the directive comes back nil.
func Extract(fset *token.FileSet, doc *ast.CommentGroup) (*Directive, *ast.CommentGroup, error) {
	if doc == nil {
		return nil, nil, nil
	}
	var (
		found *Directive
		rest  []*ast.Comment
		errs  diag.List
	)
	for _, c := range doc.List {
		if !Is(c) {
			rest = append(rest, c)
			continue
		}
		pos := fset.Position(c.Slash)
		cfg, err := Parse(pos, c.Text)
		if err != nil {
			errs.Add(asDiagnostic(pos, err))
			continue
		}
		if found != nil {
			errs.Add(diag.Errorf(pos, diag.Config, "unstable: duplicate %s directive", API))
			continue
		}
		found = &Directive{Pos: pos, Config: cfg}
	}
	if err := errs.Err(); err != nil {
		return nil, doc, err
	}
	if len(rest) == 0 {
		return found, nil, nil
	}
	return found, &ast.CommentGroup{List: rest}, nil
}

// Parse decodes the text of a single directive comment found at pos.
func Parse(pos token.Position, text string) (unstable.Config, error) {
	if !strings.HasPrefix(text, API) || (len(text) > len(API) && text[len(API)] != ' ' && text[len(API)] != '\t') {
		name := strings.Fields(strings.TrimPrefix(text, "//"))[0]
		return unstable.Config{}, diag.Errorf(pos, diag.Config, "unstable: unknown directive %q", name)
	}

	args := text[len(API):]
	trimmed := strings.TrimLeft(args, " \t")
	argsPos := offset(pos, len(API)+len(args)-len(trimmed))
	trimmed = strings.TrimRight(trimmed, " \t")
	if trimmed == "" {
		return unstable.Config{}, nil
	}

	tags, err := structtag.Parse(trimmed)
	if err != nil || tags == nil {
		return unstable.Config{}, diag.Errorf(argsPos, diag.Config,
			"unstable: malformed arguments %q: arguments are written key:\"string\"", trimmed)
	}

	var (
		cfg  unstable.Config
		seen = map[string]bool{}
	)
	for _, tag := range tags.Tags() {
		keyPos := offset(argsPos, keyOffset(trimmed, tag.Key))
		if seen[tag.Key] {
			return unstable.Config{}, diag.Errorf(keyPos, diag.Config, "unstable: duplicate argument %q", tag.Key)
		}
		seen[tag.Key] = true

		switch tag.Key {
		case keyFeature:
			if len(tag.Options) > 0 {
				return unstable.Config{}, diag.Errorf(keyPos, diag.Config,
					"unstable: %s takes a single name, not options after a comma", keyFeature)
			}
			cfg.Feature = tag.Name
			if cfg.Feature == "" {
				return unstable.Config{}, diag.Errorf(keyPos, diag.Config, "unstable: %s must not be empty", keyFeature)
			}
		case keyIssue:
			// cited verbatim, commas included
			cfg.Issue = tag.Value()
			if cfg.Issue == "" {
				return unstable.Config{}, diag.Errorf(keyPos, diag.Config, "unstable: %s must not be empty", keyIssue)
			}
		default:
			return unstable.Config{}, diag.Errorf(keyPos, diag.Config,
				"unstable: unknown argument %q (expected %s or %s)", tag.Key, keyFeature, keyIssue)
		}
	}

	if err := cfg.Validate(); err != nil {
		return unstable.Config{}, diag.Errorf(offset(argsPos, keyOffset(trimmed, keyFeature)), diag.Config, "unstable: %v", err)
	}
	return cfg, nil
}

// keyOffset finds where key: starts in args.
func keyOffset(args, key string) int {
	for i := 0; i+len(key) < len(args); i++ {
		if (i == 0 || args[i-1] == ' ' || args[i-1] == '\t') && strings.HasPrefix(args[i:], key+":") {
			return i
		}
	}
	return 0
}

func offset(pos token.Position, n int) token.Position {
	pos.Offset += n
	pos.Column += n
	return pos
}

func asDiagnostic(pos token.Position, err error) *diag.Diagnostic {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		return d
	}
	return diag.Errorf(pos, diag.Config, "unstable: %v", err)
}
