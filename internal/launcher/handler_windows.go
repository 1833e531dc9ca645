//go:build windows

package launcher

// handlerCommand shells out to the file-association lookup; start resolves
// the registered handler for the extension the same way a double click does.
func handlerCommand(path string) (string, []string) {
	return "cmd", []string{"/c", "start", "", path}
}
