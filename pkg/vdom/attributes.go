package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute.
// Example: Data("bs-dismiss", "alert") → data-bs-dismiss="alert"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// Form and link attributes

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Defer marks a script as deferred.
func Defer() Attr { return attr("defer", true) }

// Document metadata attributes

// Charset sets the charset attribute.
func Charset(charset string) Attr { return attr("charset", charset) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Content sets the content attribute.
func Content(content string) Attr { return attr("content", content) }

// InnerHTML sets raw, unescaped element content.
// Use with caution - can lead to XSS if content is user-provided.
func InnerHTML(html string) Attr { return attr("dangerouslySetInnerHTML", html) }
