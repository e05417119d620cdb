package iomock

import (
	"strings"
)

// Normalizer parses and canonicalizes path strings under the rules of one
// platform, independent of the host OS. It is stateless and safe for
// concurrent use.
type Normalizer struct {
	platform Platform
}

// NewNormalizer returns a Normalizer for the platform.
func NewNormalizer(p Platform) *Normalizer {
	return &Normalizer{platform: p}
}

// Platform returns the platform whose rules the normalizer applies.
func (n *Normalizer) Platform() Platform {
	return n.platform
}

// Normalize verifies path and resolves it against base, which must be a
// canonical absolute directory path. The result is absolute, uses the
// primary separator, has "." and ".." segments resolved and no trailing
// separator unless it is a root.
//
// Normalize is idempotent: normalizing a canonical path returns it unchanged.
func (n *Normalizer) Normalize(path, base string) (string, error) {
	return n.normalize(path, base, "path")
}

func (n *Normalizer) normalize(path, base, param string) (string, error) {
	if err := n.Verify(path, param); err != nil {
		return "", err
	}

	return n.resolve(path, base)
}

// resolve makes a verified path absolute.
func (n *Normalizer) resolve(path, base string) (string, error) {
	p := n.toPrimary(path)

	root, rest, err := n.splitRoot(p)
	if err != nil {
		return "", err
	}

	var segs []string
	switch {
	case n.isFullRoot(root):
		// Fully qualified.
	case root == "":
		root, segs, err = n.splitFull(base)
	case root == string(n.platform.Separator()):
		root, _, err = n.splitFull(base)
	default:
		// Drive-relative ("C:foo") resolves against the drive root.
		root += string(n.platform.Separator())
	}
	if err != nil {
		return "", err
	}

	segs = append(segs[:len(segs):len(segs)], n.segments(rest)...)

	return n.join(root, collapse(segs)), nil
}

// splitFull splits a canonical absolute path into its root and segments.
func (n *Normalizer) splitFull(full string) (string, []string, error) {
	root, rest, err := n.splitRoot(n.toPrimary(full))
	if err != nil {
		return "", nil, err
	}
	if !n.isFullRoot(root) {
		return "", nil, argumentInvalid("path", full, msgNotLegalForm)
	}
	return root, collapse(n.segments(rest)), nil
}

// splitRoot separates the root prefix of a primary-separator path from the
// remainder. The root is one of:
//
//	"C:\"             drive root
//	"C:"              drive-relative prefix
//	"\\server\share"  UNC root
//	"\" or "/"        rooted, no drive
//	""                relative
func (n *Normalizer) splitRoot(p string) (root, rest string, err error) {
	sep := n.platform.Separator()

	if n.platform != PlatformWindows {
		if p != "" && p[0] == sep {
			return "/", p[1:], nil
		}
		return "", p, nil
	}

	switch {
	case len(p) >= 2 && p[0] == sep && p[1] == sep:
		unc := p[2:]
		i := strings.IndexByte(unc, sep)
		if i <= 0 {
			return "", "", argumentInvalid("path", p, msgBadUNC)
		}
		server, after := unc[:i], unc[i+1:]
		share, remainder, _ := strings.Cut(after, string(sep))
		if share == "" {
			return "", "", argumentInvalid("path", p, msgBadUNC)
		}
		return `\\` + server + `\` + share, remainder, nil
	case n.platform.hasDrivePrefix(p):
		if len(p) >= 3 && p[2] == sep {
			return p[:3], p[3:], nil
		}
		return p[:2], p[2:], nil
	case p != "" && p[0] == sep:
		return `\`, p[1:], nil
	}

	return "", p, nil
}

// isFullRoot reports whether root, as returned by splitRoot, anchors an absolute path.
func (n *Normalizer) isFullRoot(root string) bool {
	if n.platform != PlatformWindows {
		return root == "/"
	}
	return strings.HasPrefix(root, `\\`) || len(root) == 3
}

func (n *Normalizer) segments(rest string) []string {
	if rest == "" {
		return nil
	}
	return strings.Split(rest, string(n.platform.Separator()))
}

func (n *Normalizer) join(root string, segs []string) string {
	if len(segs) == 0 {
		return root
	}

	sep := string(n.platform.Separator())
	if strings.HasSuffix(root, sep) {
		return root + strings.Join(segs, sep)
	}
	return root + sep + strings.Join(segs, sep)
}

// toPrimary rewrites alternate separators to the primary one.
func (n *Normalizer) toPrimary(p string) string {
	if n.platform.Separator() == n.platform.AltSeparator() {
		return p
	}
	return strings.ReplaceAll(p, string(n.platform.AltSeparator()), string(n.platform.Separator()))
}

// collapse drops empty and "." segments and resolves "..", which never
// climbs above the root.
func collapse(segs []string) []string {
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		switch s {
		case "", ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, s)
		}
	}
	return out
}

// Root returns the root of a canonical path.
func (n *Normalizer) Root(full string) string {
	root, _, err := n.splitRoot(full)
	if err != nil {
		return ""
	}
	return root
}

// IsRoot reports whether the canonical path is a root.
func (n *Normalizer) IsRoot(full string) bool {
	root, rest, err := n.splitRoot(full)
	return err == nil && n.isFullRoot(root) && rest == ""
}

// Parent returns the canonical parent of a canonical path.
// ok is false when full is a root.
func (n *Normalizer) Parent(full string) (parent string, ok bool) {
	root, rest, err := n.splitRoot(full)
	if err != nil || rest == "" {
		return "", false
	}

	segs := n.segments(rest)
	return n.join(root, segs[:len(segs)-1]), true
}

// Base returns the last segment of a canonical path, or the root itself.
func (n *Normalizer) Base(full string) string {
	root, rest, err := n.splitRoot(full)
	if err != nil || rest == "" {
		return root
	}
	if i := strings.LastIndexByte(rest, n.platform.Separator()); i >= 0 {
		return rest[i+1:]
	}
	return rest
}

// Ancestors returns the canonical paths from the root down to, but not
// including, full.
func (n *Normalizer) Ancestors(full string) []string {
	root, rest, err := n.splitRoot(full)
	if err != nil || rest == "" {
		return nil
	}

	segs := n.segments(rest)
	out := make([]string, 0, len(segs))
	for i := range segs {
		out = append(out, n.join(root, segs[:i]))
	}
	return out
}

// Child joins a canonical directory path and a name.
func (n *Normalizer) Child(dir, name string) string {
	sep := string(n.platform.Separator())
	if strings.HasSuffix(dir, sep) {
		return dir + name
	}
	return dir + sep + name
}

// Rel returns the part of full below dir, or false if full is not strictly
// below dir. cmp decides how names are compared.
func (n *Normalizer) Rel(dir, full string, cmp KeyComparer) (string, bool) {
	prefix := dir
	sep := string(n.platform.Separator())
	if !strings.HasSuffix(prefix, sep) {
		prefix += sep
	}
	if len(full) <= len(prefix) || !cmp.Equal(full[:len(prefix)], prefix) {
		return "", false
	}
	return full[len(prefix):], true
}
