// Package process terminates the browser processes started for PDF export.
package process
