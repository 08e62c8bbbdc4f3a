package moodle

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// folderNode is the minimal view of a folder-tree node the traversal needs:
// the resource links reachable from it and its immediate child groups.
type folderNode interface {
	ResourceLinks() []string
	ChildNodes() []folderNode
}

// gqFolderNode adapts a goquery selection to folderNode.
type gqFolderNode struct {
	sel *goquery.Selection
}

func (n gqFolderNode) ResourceLinks() []string {
	var links []string
	n.sel.Find("a[href*='" + resourceMarker + "']").Each(func(i int, a *goquery.Selection) {
		if href := a.AttrOr("href", ""); href != "" {
			links = append(links, href)
		}
	})
	return links
}

func (n gqFolderNode) ChildNodes() []folderNode {
	// Only step down one level; descending into all nested .ygtvitem nodes at
	// once would revisit the same leaves from every ancestor.
	var children []folderNode
	n.sel.ChildrenFiltered(".ygtvchildren").ChildrenFiltered(".ygtvitem").Each(func(i int, c *goquery.Selection) {
		children = append(children, gqFolderNode{sel: c})
	})
	return children
}

// FolderFiles walks every .foldertree widget inside s and returns the
// pluginfile URLs it contains, resolved against the parser base, deduplicated
// in first-seen order.
func (p *Parser) FolderFiles(s *goquery.Selection) []string {
	var files []string
	seen := make(map[string]bool)

	add := func(href string) {
		u := p.resolveURL(strings.TrimSpace(href))
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		files = append(files, u)
	}

	s.Find(".foldertree").Each(func(i int, tree *goquery.Selection) {
		// Tree roots are the top-level items directly under the widget,
		// usually wrapped in a .filemanager div
		roots := tree.ChildrenFiltered("div.ygtvitem")
		if roots.Length() == 0 {
			roots = tree.Find(".ygtvitem")
		}
		roots.Each(func(j int, root *goquery.Selection) {
			walkFolderTree(gqFolderNode{sel: root}, add)
		})
	})

	return files
}

// walkFolderTree is a depth-first traversal over the abstract node view.
func walkFolderTree(node folderNode, add func(string)) {
	for _, href := range node.ResourceLinks() {
		add(href)
	}
	for _, child := range node.ChildNodes() {
		walkFolderTree(child, add)
	}
}
