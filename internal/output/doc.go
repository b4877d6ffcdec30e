// Package output writes local artifacts: HTML previews of the generated
// candidates and the final message as an .eml file.
package output
