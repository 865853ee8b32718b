package material

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	ErrUnknownInclude = errors.New("unknown shader include")
	ErrIncludeCycle   = errors.New("shader include cycle")
)

// Program is a vertex/fragment source pair.
type Program struct {
	Vertex   string
	Fragment string
}

// Patch replaces text in a base program: each key is searched for and substituted by
// its value, typically at an include point.
type Patch map[string]string

// PatchMap maps a keyword to a patch. A patch is applied only when the keyword occurs
// in the custom sources; the keyword statement itself is removed from them.
type PatchMap map[string]Patch

// Chunks is a library of named shader fragments referenced by #include <name>.
type Chunks map[string]string

var (
	includePattern = regexp.MustCompile(`^\s*#include\s+<([\w.]+)>\s*$`)
	mainPattern    = regexp.MustCompile(`void\s+main\s*\(\s*(void)?\s*\)`)
)

// ResolveIncludes expands #include <name> lines recursively.
func ResolveIncludes(source string, chunks Chunks) (string, error) {
	return resolve(source, chunks, nil)
}

func resolve(source string, chunks Chunks, stack []string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		m := includePattern.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}

		name := m[1]
		for _, s := range stack {
			if s == name {
				return "", fmt.Errorf("%w: %s -> %s", ErrIncludeCycle, strings.Join(stack, " -> "), name)
			}
		}
		chunk, ok := chunks[name]
		if !ok {
			return "", fmt.Errorf("line %d: %w <%s>", i+1, ErrUnknownInclude, name)
		}
		expanded, err := resolve(chunk, chunks, append(stack, name))
		if err != nil {
			return "", err
		}
		out = append(out, expanded)
	}
	return strings.Join(out, "\n"), nil
}

// Compose merges custom sources into a base program the way a custom shader material
// extends a built-in one: the custom main becomes csm_main and runs first in the base
// main, matching patches are applied to the base, then includes are resolved.
func Compose(base, custom Program, patches PatchMap, chunks Chunks) (Program, error) {
	active := activeKeywords(custom, patches)

	vertex := applyPatches(base.Vertex, patches, active)
	fragment := applyPatches(base.Fragment, patches, active)

	local := make(Chunks, len(chunks)+4)
	for k, v := range chunks {
		local[k] = v
	}
	local["csm_pars_vertex"], local["csm_main_vertex"] = customParts(custom.Vertex, active)
	local["csm_pars_fragment"], local["csm_main_fragment"] = customParts(custom.Fragment, active)

	var err error
	out := Program{}
	if out.Vertex, err = ResolveIncludes(vertex, local); err != nil {
		return Program{}, fmt.Errorf("vertex: %w", err)
	}
	if out.Fragment, err = ResolveIncludes(fragment, local); err != nil {
		return Program{}, fmt.Errorf("fragment: %w", err)
	}
	return out, nil
}

func activeKeywords(custom Program, patches PatchMap) []string {
	var active []string
	for keyword := range patches {
		if strings.Contains(custom.Vertex, keyword) || strings.Contains(custom.Fragment, keyword) {
			active = append(active, keyword)
		}
	}
	sort.Strings(active)
	return active
}

func applyPatches(source string, patches PatchMap, active []string) string {
	for _, keyword := range active {
		patch := patches[keyword]
		searches := make([]string, 0, len(patch))
		for search := range patch {
			searches = append(searches, search)
		}
		sort.Strings(searches)
		for _, search := range searches {
			source = strings.ReplaceAll(source, search, patch[search])
		}
	}
	return source
}

// customParts splits a custom source into its declarations (with main renamed) and
// the call inserted into the base main. Empty sources contribute nothing.
func customParts(source string, keywords []string) (pars, call string) {
	if strings.TrimSpace(source) == "" {
		return "", ""
	}
	for _, keyword := range keywords {
		source = regexp.MustCompile(`\b`+regexp.QuoteMeta(keyword)+`\s*;`).ReplaceAllString(source, "")
	}
	if !mainPattern.MatchString(source) {
		return source, ""
	}
	return mainPattern.ReplaceAllString(source, "void csm_main()"), "csm_main();"
}
