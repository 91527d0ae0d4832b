package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteImagePaths converts relative img[src] paths in a full HTML document
// to absolute file:// URLs resolved against sourceDir, the directory of the
// record source. Values in Markdown format may reference images next to the
// data file, and the browser loads the document from a temp file where
// relative paths no longer resolve.
// If sourceDir is empty or the document has no images, it is returned unchanged.
//
// Not rewritten: links, media elements, srcset, CSS url() references,
// absolute paths or URLs, and paths escaping sourceDir.
func RewriteImagePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" || !strings.Contains(strings.ToLower(htmlContent), "<img") {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	rewriteImages(doc, absSourceDir)

	var buf strings.Builder
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rewriteImages walks the tree and rewrites img[src] attributes.
func rewriteImages(n *html.Node, sourceDir string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" || !isRelativePath(attr.Val) {
				continue
			}
			absPath := filepath.Join(sourceDir, attr.Val)
			if !isPathUnderDir(absPath, sourceDir) {
				continue
			}
			n.Attr[i].Val = pathToFileURL(absPath)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteImages(c, sourceDir)
	}
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" || filepath.IsAbs(path) {
		return false
	}
	for _, prefix := range []string{"http://", "https://", "file://", "data:", "//", "#"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
// filepath.ToSlash handles Windows backslashes.
func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
