// Package output renders run and sync reports for people and programs.
//
// Four renderers share one interface: term (lipgloss styling), text
// (plain), json and yaml. The auto format picks term or text depending on
// whether stdout is a color-capable terminal and NO_COLOR is unset.
package output
