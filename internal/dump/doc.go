// Package dump streams pages out of wiki database dumps.
//
// Two layouts are read: the MediaWiki XML export (<mediawiki><page>…) and
// the NamuWiki JSON dump, a single top-level array of page objects. Both
// readers decode one page at a time and hand it to a callback, so dumps
// larger than memory can be rendered.
package dump
