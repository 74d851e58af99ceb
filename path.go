// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package segbuf

import (
	"strings"
)

// pathSeparator is the canonical separator this package normalizes
// paths to internally, regardless of the host platform's convention.
const pathSeparator = "/"

// Path is an immutable, platform-neutral filesystem path. It always
// stores its segments normalized with "/" separators; Windows-style
// "\" input and drive letters are accepted and translated, but a Path's
// String() form is canonical forward-slash unless the path is rooted
// with a Windows volume.
type Path struct {
	// raw is the normalized path string: no "." segments, no trailing
	// separator (except for a bare root), "/" as separator.
	raw string

	// windowsVolume is the drive letter and colon ("C:") for a
	// Windows-rooted path, or "" otherwise.
	windowsVolume string
}

// PathOf parses s as a Path, normalizing "." segments and resolving
// ".." against preceding segments where possible. A ".." that would
// escape a relative path's start is kept as a literal leading segment.
func PathOf(s string) Path {
	s = strings.ReplaceAll(s, `\`, pathSeparator)

	volume := ""
	if len(s) >= 2 && s[1] == ':' && isASCIILetter(s[0]) {
		volume = strings.ToUpper(s[:2])
		s = s[2:]
	}

	rooted := strings.HasPrefix(s, pathSeparator)
	segments := strings.Split(s, pathSeparator)

	var out []string
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
			} else if !rooted {
				out = append(out, "..")
			}
		default:
			out = append(out, seg)
		}
	}

	raw := strings.Join(out, pathSeparator)
	if rooted {
		raw = pathSeparator + raw
	}
	if raw == "" {
		if rooted {
			raw = pathSeparator
		} else {
			raw = "."
		}
	}
	return Path{raw: raw, windowsVolume: volume}
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// String returns the Path's canonical string form.
func (p Path) String() string {
	if p.windowsVolume != "" && strings.HasPrefix(p.raw, pathSeparator) {
		return p.windowsVolume + strings.ReplaceAll(p.raw, pathSeparator, `\`)
	}
	return p.windowsVolume + p.raw
}

// IsAbsolute reports whether the Path is rooted: it begins with a
// separator (POSIX) or carries a Windows volume.
func (p Path) IsAbsolute() bool {
	return p.windowsVolume != "" || strings.HasPrefix(p.raw, pathSeparator)
}

// Root returns the Path's root ("/" for POSIX, "C:\" style for
// Windows), or the zero Path if this Path is relative.
func (p Path) Root() Path {
	if !p.IsAbsolute() {
		return Path{}
	}
	return Path{raw: pathSeparator, windowsVolume: p.windowsVolume}
}

// Name returns the last segment of the Path, or "" for the root.
func (p Path) Name() string {
	if p.raw == pathSeparator || p.raw == "." {
		return ""
	}
	idx := strings.LastIndex(p.raw, pathSeparator)
	return p.raw[idx+1:]
}

// Parent returns the Path's containing directory, or the zero Path and
// false if p has no parent (it is a root, ".", or ".."). The parent of
// any other single relative segment is ".".
func (p Path) Parent() (Path, bool) {
	if p.raw == pathSeparator || p.raw == "." {
		return Path{}, false
	}
	idx := strings.LastIndex(p.raw, pathSeparator)
	if idx < 0 {
		if p.IsAbsolute() {
			return Path{}, false
		}
		if p.raw == ".." {
			return Path{}, false
		}
		return Path{raw: ".", windowsVolume: p.windowsVolume}, true
	}
	if idx == 0 {
		return Path{raw: pathSeparator, windowsVolume: p.windowsVolume}, true
	}
	return Path{raw: p.raw[:idx], windowsVolume: p.windowsVolume}, true
}

// Resolve appends child to p, treating child as relative unless it is
// itself absolute (in which case it replaces p entirely, matching
// java.nio.file.Path.resolve).
func (p Path) Resolve(child string) Path {
	cp := PathOf(child)
	if cp.IsAbsolute() {
		return cp
	}
	base := p.raw
	if base == "." {
		return cp
	}
	joined := base
	if !strings.HasSuffix(joined, pathSeparator) {
		joined += pathSeparator
	}
	joined += cp.raw
	return PathOf(p.windowsVolume + joined)
}

// Div is an operator-style alias for Resolve, matching Okio's "/"
// infix path-building convention.
func (p Path) Div(child string) Path { return p.Resolve(child) }

// RelativeTo returns the relative Path that, resolved against base,
// yields p — following java.nio.file.Path.relativize exactly: both
// paths must be absolute or both relative, and a ".." is produced for
// each base segment not shared with p. When base begins with ".."
// segments, p must begin with the same number of them, or RelativeTo
// fails.
func (p Path) RelativeTo(base Path) (Path, bool) {
	if p.IsAbsolute() != base.IsAbsolute() {
		return Path{}, false
	}
	if p.IsAbsolute() && p.windowsVolume != base.windowsVolume {
		return Path{}, false
	}

	pSegs := splitSegments(p.raw)
	bSegs := splitSegments(base.raw)

	pUp, bUp := 0, 0
	for pUp < len(pSegs) && pSegs[pUp] == ".." {
		pUp++
	}
	for bUp < len(bSegs) && bSegs[bUp] == ".." {
		bUp++
	}
	if bUp > 0 && pUp != bUp {
		return Path{}, false
	}

	common := 0
	for common < len(pSegs) && common < len(bSegs) && pSegs[common] == bSegs[common] {
		common++
	}

	var out []string
	for i := common; i < len(bSegs); i++ {
		out = append(out, "..")
	}
	out = append(out, pSegs[common:]...)

	if len(out) == 0 {
		return Path{raw: "."}, true
	}
	return Path{raw: strings.Join(out, pathSeparator)}, true
}

func splitSegments(raw string) []string {
	raw = strings.Trim(raw, pathSeparator)
	if raw == "" || raw == "." {
		return nil
	}
	return strings.Split(raw, pathSeparator)
}

// Equal reports whether p and other normalize to the same Path.
func (p Path) Equal(other Path) bool {
	return p.raw == other.raw && p.windowsVolume == other.windowsVolume
}
