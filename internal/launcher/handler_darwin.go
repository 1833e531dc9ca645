//go:build darwin

package launcher

func handlerCommand(path string) (string, []string) {
	return "open", []string{path}
}
