// Package pipeline post-processes compiled wiki HTML.
//
// The wiki compilers produce self-contained HTML fragments. This package
// holds the optional stages around them:
//   - Code highlighting through chroma, plugged into the compilers
//   - Sanitizing with a bluemonday policy matching the generated markup
//   - Image source resolution against a media base URL or directory
//   - Table of contents generation and injection
//   - CSS injection and standalone HTML5 document wrapping
//   - Plain-text extraction and excerpts
package pipeline
