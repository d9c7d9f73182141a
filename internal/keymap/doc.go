// Package keymap loads the keycode map used by the notation compiler.
//
// A keycode map is an INI-like document with three sections:
//
//	[TOKENS]    the eight grammar tokens (ALT, CONTROL, SHIFT, ENTER,
//	            BRACELEFT, BRACERIGHT, PARENLEFT, PARENRIGHT) mapped to a
//	            character, and each such character mapped to a key code
//	[STANDARD]  single printable characters, case-sensitive
//	[SPECIAL]   named keys such as ENTER or F6, case-insensitive
//
// Values are either a virtual key code ("65") or a shifted key code
// ("SHIFT+65"). Entries with any other value are logged and skipped.
//
// A Keymap is immutable once loaded and safe for concurrent use.
package keymap
