// Package preferences persists the user settings living next to the book collection:
// the color theme, the debug flag and the first-visit marker.
//
// Values are plain strings under the keys recordstore.ThemeKey, recordstore.DebugKey and recordstore.VisitedKey.
package preferences
