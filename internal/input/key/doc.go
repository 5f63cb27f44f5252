// Package key models key presses and parses key notation.
//
// Two notations are accepted: Vim-style ("<C-l>", "<Esc>", "<C-Left>") and
// modifier-plus style ("Ctrl+L", "Alt+F4"). A sequence such as "<Esc>0lla"
// mixes bracketed keys with literal characters, which may be any Unicode
// rune.
package key
