// Package assets provides the stylesheets for standalone wiki pages.
//
// Two styles are built in: "default", a neutral encyclopedia layout, and
// "namu", a NamuWiki-like layout. [StyleFor] picks the one matching the
// dialect a page was compiled from.
//
// A [Resolver] may be pointed at a directory of custom stylesheets. A style
// named n is read from styles/n.css or n.css inside it, and names the
// directory lacks fall back to the built-in styles, so a directory can
// override a single style. Directory reads go through an [os.Root] and
// cannot leave the directory, through ".." or through symlinks.
package assets
