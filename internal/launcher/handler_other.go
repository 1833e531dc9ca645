//go:build !windows && !darwin

package launcher

// handlerCommand returns the command that opens the file with whatever
// program the desktop environment associates with its type.
func handlerCommand(path string) (string, []string) {
	return "xdg-open", []string{path}
}
