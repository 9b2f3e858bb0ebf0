// Package listing manages property listings: creation, lookup and
// removal. Textual fields from clients pass through the threat scanner
// before anything reaches storage.
package listing
