package bundler

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// RuleKind tags a module rule. Kinds are declared in precedence order: a
// rule list must never place a kind before one declared above it.
type RuleKind int

const (
	// RuleDocument routes GraphQL documents to the document loader.
	RuleDocument RuleKind = iota + 1
	// RuleScript routes scripts to the transpiler.
	RuleScript
	// RuleStyle routes stylesheets through scoped or global class names.
	RuleStyle
	// RuleImage gives images content-hashed names.
	RuleImage
)

var ruleKindNames = map[RuleKind]string{
	RuleDocument: "document",
	RuleScript:   "script",
	RuleStyle:    "style",
	RuleImage:    "image",
}

// String returns the kind name.
func (k RuleKind) String() string {
	if name, ok := ruleKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("RuleKind(%d)", int(k))
}

// MarshalText writes the kind name.
func (k RuleKind) MarshalText() ([]byte, error) {
	if _, ok := ruleKindNames[k]; !ok {
		return nil, fmt.Errorf("unknown rule kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// Loader is one step of a rule's loader chain.
type Loader struct {
	Loader  string         `json:"loader"`
	Options map[string]any `json:"options,omitempty"`
}

// Rule routes matching files through a loader chain. A rule with OneOf
// delegates to the first matching branch.
type Rule struct {
	Kind RuleKind `json:"kind"`

	// Test is a regular expression matched against the file path.
	Test string `json:"test,omitempty"`

	// Include limits the rule to files under these directories.
	Include []string `json:"include,omitempty"`

	// SideEffects marks matched modules as side-effect free when false.
	SideEffects *bool `json:"sideEffects,omitempty"`

	Use   []Loader `json:"use,omitempty"`
	OneOf []Rule   `json:"oneOf,omitempty"`
}

// Matches reports whether the rule's own conditions accept file.
func (r Rule) Matches(file string) bool {
	if r.Test != "" {
		re, err := compileTest(r.Test)
		if err != nil || !re.MatchString(file) {
			return false
		}
	}
	if len(r.Include) > 0 && !underAny(file, r.Include) {
		return false
	}
	return true
}

// testPatterns caches compiled rule tests by source.
var testPatterns sync.Map

func compileTest(pattern string) (*regexp.Regexp, error) {
	if re, ok := testPatterns.Load(pattern); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	testPatterns.Store(pattern, re)
	return re, nil
}

// Rules is the ordered list of module rules. The first matching rule wins.
type Rules []Rule

// Validate checks that every rule has a known kind and that kinds appear in
// precedence order.
func (rs Rules) Validate() error {
	var prev RuleKind
	for i, r := range rs {
		if _, ok := ruleKindNames[r.Kind]; !ok {
			return fmt.Errorf("rule %d: unknown kind %d", i, int(r.Kind))
		}
		if r.Kind < prev {
			return fmt.Errorf("rule %d: %s rule after %s rule", i, r.Kind, prev)
		}
		if _, err := compileTest(r.Test); err != nil {
			return fmt.Errorf("rule %d: invalid test pattern: %w", i, err)
		}
		for j, branch := range r.OneOf {
			if branch.Kind != r.Kind {
				return fmt.Errorf("rule %d branch %d: %s branch in %s rule", i, j, branch.Kind, r.Kind)
			}
		}
		prev = r.Kind
	}
	return nil
}

// Match returns the loader chain applied to file, following first-match
// semantics at both the rule and the branch level.
func (rs Rules) Match(file string) (Rule, bool) {
	for _, r := range rs {
		if !r.Matches(file) {
			continue
		}
		if len(r.OneOf) == 0 {
			return r, true
		}
		for _, branch := range r.OneOf {
			if branch.Matches(file) {
				return branch, true
			}
		}
	}
	return Rule{}, false
}

// Of returns the rules of the given kind.
func (rs Rules) Of(kind RuleKind) Rules {
	var out Rules
	for _, r := range rs {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func underAny(file string, dirs []string) bool {
	clean := filepath.Clean(file)
	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		if clean == dir || strings.HasPrefix(clean, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func boolPtr(b bool) *bool {
	return &b
}

// moduleRules builds the rule list in precedence order.
func moduleRules(req BuildRequest) Rules {
	flags := req.FeatureFlags
	within := func(flag string) []string {
		return append([]string{req.Paths.Src}, flags.Paths(flag)...)
	}

	rootMode := "upward"
	if req.TranspilerConfigPresent {
		rootMode = "root"
	}

	return Rules{
		{
			Kind:    RuleDocument,
			Test:    `\.graphql$`,
			Include: within(FlagGraphQLQueries),
			Use:     []Loader{{Loader: "graphql-tag/loader"}},
		},
		{
			Kind:        RuleScript,
			Test:        `\.(mjs|js)$`,
			Include:     within(FlagESModules),
			SideEffects: boolPtr(false),
			Use: []Loader{{
				Loader: "babel-loader",
				Options: map[string]any{
					"envName":  string(req.Mode),
					"rootMode": rootMode,
				},
			}},
		},
		{
			Kind: RuleStyle,
			Test: `\.css$`,
			OneOf: []Rule{
				{
					Kind:    RuleStyle,
					Include: within(FlagCSSModules),
					Use: []Loader{
						{Loader: "style-loader"},
						{Loader: "css-loader", Options: map[string]any{
							"localIdentName": "[name]-[local]-[hash:base64:3]",
							"modules":        true,
						}},
					},
				},
				{
					Kind: RuleStyle,
					Use: []Loader{
						{Loader: "style-loader"},
						{Loader: "css-loader", Options: map[string]any{
							"modules": false,
						}},
					},
				},
			},
		},
		{
			Kind: RuleImage,
			Test: `\.(jpg|svg)$`,
			Use: []Loader{{
				Loader: "file-loader",
				Options: map[string]any{
					"name": "[name]-[hash:base58:3].[ext]",
				},
			}},
		},
	}
}
