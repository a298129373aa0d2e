// Package layout provides a typesetting backend for annotext built on
// go-text/typesetting. It shapes converted text with HarfBuzz, wraps
// it into lines, consults each attachment run's sizing delegate during
// shaping, and exposes the resulting geometry through the
// annotext.Backend interface for hit-testing and decoration painting.
package layout
